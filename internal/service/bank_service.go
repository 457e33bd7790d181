package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gruas-backend/internal/model"
	"gruas-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type BankAccountRequest struct {
	Bank    string `json:"bank" binding:"required"`
	Branch  string `json:"branch" binding:"required"`
	Number  string `json:"number" binding:"required"`
	Kind    string `json:"kind" binding:"required,oneof=checking savings investment"`
	Balance string `json:"balance"` // opening balance, create only
	Status  string `json:"status" binding:"omitempty,oneof=active inactive blocked"`
}

type BankAccountResponse struct {
	ID             string `json:"id"`
	Bank           string `json:"bank"`
	Branch         string `json:"branch"`
	Number         string `json:"number"`
	Kind           string `json:"kind"`
	CurrentBalance string `json:"current_balance"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

type PostTransactionRequest struct {
	AccountID   string `json:"account_id" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=credit debit"`
	Amount      string `json:"amount" binding:"required"` // decimal string, positive
	Description string `json:"description" binding:"required"`
	Reference   string `json:"reference"`
	Category    string `json:"category"`
	Date        string `json:"date"` // YYYY-MM-DD, defaults to today
	Notes       string `json:"notes"`
}

type BankTransactionResponse struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name,omitempty"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

type BankService interface {
	CreateAccount(ctx context.Context, userID string, req BankAccountRequest) (*BankAccountResponse, error)
	GetAccount(ctx context.Context, id string) (*BankAccountResponse, error)
	ListAccounts(ctx context.Context, page, limit int, status string) ([]BankAccountResponse, int64, error)
	UpdateAccount(ctx context.Context, userID, id string, req BankAccountRequest) (*BankAccountResponse, error)
	DeleteAccount(ctx context.Context, id string) error
	PostTransaction(ctx context.Context, userID string, req PostTransactionRequest) (*BankTransactionResponse, error)
	ListTransactions(ctx context.Context, page, limit int, accountID, kind, from, to string) ([]BankTransactionResponse, int64, error)
}

type bankService struct {
	accountRepo repository.BankAccountRepository
	txnRepo     repository.BankTransactionRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewBankService(
	accountRepo repository.BankAccountRepository,
	txnRepo repository.BankTransactionRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) BankService {
	return &bankService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *bankService) CreateAccount(ctx context.Context, userID string, req BankAccountRequest) (*BankAccountResponse, error) {
	account := model.BankAccount{
		Bank:   req.Bank,
		Branch: req.Branch,
		Number: req.Number,
		Kind:   req.Kind,
		Status: model.AccountActive,
	}
	if req.Status != "" {
		account.Status = req.Status
	}
	if req.Balance != "" {
		balance, err := decimal.NewFromString(req.Balance)
		if err != nil {
			return nil, fmt.Errorf("invalid balance: %w", err)
		}
		account.CurrentBalance = balance
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.accountRepo.Create(txCtx, &account); createErr != nil {
			return fmt.Errorf("failed to create account: %w", createErr)
		}
		return s.logAccountAction(txCtx, userID, model.ActionCreateAccount, account)
	})
	if err != nil {
		return nil, err
	}

	out := toBankAccountResponse(account)
	return &out, nil
}

func (s *bankService) GetAccount(ctx context.Context, id string) (*BankAccountResponse, error) {
	account, err := s.getAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toBankAccountResponse(*account)
	return &out, nil
}

func (s *bankService) ListAccounts(ctx context.Context, page, limit int, status string) ([]BankAccountResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	accounts, total, err := s.accountRepo.List(ctx, page, limit, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	result := make([]BankAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, toBankAccountResponse(a))
	}
	return result, total, nil
}

// UpdateAccount never touches the balance; balances only move through
// PostTransaction.
func (s *bankService) UpdateAccount(ctx context.Context, userID, id string, req BankAccountRequest) (*BankAccountResponse, error) {
	account, err := s.getAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	account.Bank = req.Bank
	account.Branch = req.Branch
	account.Number = req.Number
	account.Kind = req.Kind
	if req.Status != "" {
		account.Status = req.Status
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.accountRepo.Update(txCtx, account); updateErr != nil {
			return fmt.Errorf("failed to update account: %w", updateErr)
		}
		return s.logAccountAction(txCtx, userID, model.ActionUpdateAccount, *account)
	})
	if err != nil {
		return nil, err
	}

	out := toBankAccountResponse(*account)
	return &out, nil
}

func (s *bankService) DeleteAccount(ctx context.Context, id string) error {
	account, err := s.getAccount(ctx, id)
	if err != nil {
		return err
	}
	if !account.CurrentBalance.IsZero() {
		return fmt.Errorf("account with non-zero balance cannot be deleted")
	}
	return s.accountRepo.Delete(ctx, account.ID)
}

// PostTransaction records the movement and adjusts the balance in one
// database transaction. A debit larger than the balance is rejected.
func (s *bankService) PostTransaction(ctx context.Context, userID string, req PostTransactionRequest) (*BankTransactionResponse, error) {
	account, err := s.getAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Status != model.AccountActive {
		return nil, fmt.Errorf("account is %s", account.Status)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be greater than 0")
	}

	delta := amount
	if req.Kind == model.TransactionDebit {
		if account.CurrentBalance.LessThan(amount) {
			return nil, fmt.Errorf("insufficient balance")
		}
		delta = amount.Neg()
	}

	date := time.Now()
	if req.Date != "" {
		parsed, parseErr := time.Parse("2006-01-02", req.Date)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid date: %w", parseErr)
		}
		date = parsed
	}

	txn := model.BankTransaction{
		AccountID:   account.ID,
		Kind:        req.Kind,
		Amount:      amount,
		Description: req.Description,
		Reference:   req.Reference,
		Category:    req.Category,
		Date:        date,
		Notes:       req.Notes,
		CreatedBy:   parseUserID(userID),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.txnRepo.Create(txCtx, &txn); createErr != nil {
			return fmt.Errorf("failed to record transaction: %w", createErr)
		}
		if adjErr := s.accountRepo.AdjustBalance(txCtx, account.ID, delta); adjErr != nil {
			return fmt.Errorf("failed to adjust balance: %w", adjErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"account_id":  account.ID.String(),
			"kind":        req.Kind,
			"amount":      amount.String(),
			"description": req.Description,
			"reference":   req.Reference,
		})
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionPostTransaction,
			EntityID:   txn.ID.String(),
			EntityName: req.Description,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := toBankTransactionResponse(txn)
	return &out, nil
}

func (s *bankService) ListTransactions(ctx context.Context, page, limit int, accountID, kind, from, to string) ([]BankTransactionResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var filter repository.TransactionFilter
	filter.Kind = kind
	if accountID != "" {
		parsed, err := uuid.Parse(accountID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid account_id: %w", err)
		}
		filter.AccountID = &parsed
	}
	if from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid from date: %w", err)
		}
		filter.From = &parsed
	}
	if to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid to date: %w", err)
		}
		filter.To = &parsed
	}

	txns, total, err := s.txnRepo.List(ctx, page, limit, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	result := make([]BankTransactionResponse, 0, len(txns))
	for _, t := range txns {
		result = append(result, toBankTransactionResponse(t))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *bankService) getAccount(ctx context.Context, id string) (*model.BankAccount, error) {
	aid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid account id: %w", err)
	}
	account, err := s.accountRepo.GetByID(ctx, aid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *bankService) logAccountAction(ctx context.Context, userID, action string, account model.BankAccount) error {
	details, _ := json.Marshal(map[string]interface{}{
		"bank":   account.Bank,
		"branch": account.Branch,
		"number": account.Number,
		"kind":   account.Kind,
		"status": account.Status,
	})
	entry := &model.AuditLog{
		UserID:     parseUserID(userID),
		Action:     action,
		EntityID:   account.ID.String(),
		EntityName: fmt.Sprintf("%s %s/%s", account.Bank, account.Branch, account.Number),
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toBankAccountResponse(a model.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:             a.ID.String(),
		Bank:           a.Bank,
		Branch:         a.Branch,
		Number:         a.Number,
		Kind:           a.Kind,
		CurrentBalance: a.CurrentBalance.StringFixed(2),
		Status:         a.Status,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}
}

func toBankTransactionResponse(t model.BankTransaction) BankTransactionResponse {
	resp := BankTransactionResponse{
		ID:          t.ID.String(),
		AccountID:   t.AccountID.String(),
		Kind:        t.Kind,
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		Reference:   t.Reference,
		Category:    t.Category,
		Date:        t.Date.Format("2006-01-02"),
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.Account != nil {
		resp.AccountName = fmt.Sprintf("%s %s/%s", t.Account.Bank, t.Account.Branch, t.Account.Number)
	}
	return resp
}
