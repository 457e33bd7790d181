package repository

import (
	"context"
	"time"

	"gruas-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankAccountRepository persists company bank accounts
type BankAccountRepository interface {
	Create(ctx context.Context, account *model.BankAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error)
	List(ctx context.Context, page, limit int, status string) ([]model.BankAccount, int64, error)
	Update(ctx context.Context, account *model.BankAccount) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustBalance adds delta (negative for debits) to the stored balance.
	// Must run inside a transaction together with the BankTransaction insert.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

// TransactionFilter narrows bank transaction listings
type TransactionFilter struct {
	AccountID *uuid.UUID
	Kind      string
	From      *time.Time
	To        *time.Time
}

// BankTransactionRepository persists credit/debit movements
type BankTransactionRepository interface {
	Create(ctx context.Context, txn *model.BankTransaction) error
	List(ctx context.Context, page, limit int, filter TransactionFilter) ([]model.BankTransaction, int64, error)
}

type bankAccountRepository struct {
	db *gorm.DB
}

func NewBankAccountRepository(db *gorm.DB) BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func (r *bankAccountRepository) Create(ctx context.Context, account *model.BankAccount) error {
	return GetDB(ctx, r.db).Create(account).Error
}

func (r *bankAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error) {
	var account model.BankAccount
	if err := GetDB(ctx, r.db).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *bankAccountRepository) List(ctx context.Context, page, limit int, status string) ([]model.BankAccount, int64, error) {
	var accounts []model.BankAccount
	var total int64

	db := GetDB(ctx, r.db).Model(&model.BankAccount{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("bank asc, branch asc").Offset(offset).Limit(limit).Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

func (r *bankAccountRepository) Update(ctx context.Context, account *model.BankAccount) error {
	return GetDB(ctx, r.db).Save(account).Error
}

func (r *bankAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.BankAccount{}).Error
}

func (r *bankAccountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.BankAccount{}).
		Where("id = ?", id).
		UpdateColumn("current_balance", gorm.Expr("current_balance + ?", delta)).Error
}

type bankTransactionRepository struct {
	db *gorm.DB
}

func NewBankTransactionRepository(db *gorm.DB) BankTransactionRepository {
	return &bankTransactionRepository{db: db}
}

func (r *bankTransactionRepository) Create(ctx context.Context, txn *model.BankTransaction) error {
	return GetDB(ctx, r.db).Create(txn).Error
}

func (r *bankTransactionRepository) List(ctx context.Context, page, limit int, filter TransactionFilter) ([]model.BankTransaction, int64, error) {
	var txns []model.BankTransaction
	var total int64

	db := GetDB(ctx, r.db).Model(&model.BankTransaction{})
	if filter.AccountID != nil {
		db = db.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Kind != "" {
		db = db.Where("kind = ?", filter.Kind)
	}
	if filter.From != nil {
		db = db.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("date <= ?", *filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Account").Order("date desc, created_at desc").Offset(offset).Limit(limit).Find(&txns).Error; err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}
