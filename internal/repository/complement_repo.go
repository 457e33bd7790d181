package repository

import (
	"context"

	"gruas-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplementRepository persists rental complement line items
type ComplementRepository interface {
	Create(ctx context.Context, item *model.Complement) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Complement, error)
	ListByRental(ctx context.Context, rentalID uuid.UUID) ([]model.Complement, error)
	Update(ctx context.Context, item *model.Complement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type complementRepository struct {
	db *gorm.DB
}

func NewComplementRepository(db *gorm.DB) ComplementRepository {
	return &complementRepository{db: db}
}

func (r *complementRepository) Create(ctx context.Context, item *model.Complement) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *complementRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Complement, error) {
	var item model.Complement
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *complementRepository) ListByRental(ctx context.Context, rentalID uuid.UUID) ([]model.Complement, error) {
	var items []model.Complement
	if err := GetDB(ctx, r.db).Where("rental_id = ?", rentalID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *complementRepository) Update(ctx context.Context, item *model.Complement) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *complementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Complement{}).Error
}
