package repository

import (
	"context"

	"gruas-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RentalRepository persists crane rental contracts
type RentalRepository interface {
	Create(ctx context.Context, rental *model.Rental) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Rental, error)
	List(ctx context.Context, page, limit int, status, search string) ([]model.Rental, int64, error)
	Update(ctx context.Context, rental *model.Rental) error
	CountByYear(ctx context.Context, year int) (int64, error)
}

type rentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rental *model.Rental) error {
	return GetDB(ctx, r.db).Create(rental).Error
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	var rental model.Rental
	if err := GetDB(ctx, r.db).Preload("Crane").Preload("Site").First(&rental, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) List(ctx context.Context, page, limit int, status, search string) ([]model.Rental, int64, error) {
	var rentals []model.Rental
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Rental{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		db = db.Where("contract_no ILIKE ?", pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Crane").Preload("Site").Order("start_date desc").Offset(offset).Limit(limit).Find(&rentals).Error; err != nil {
		return nil, 0, err
	}

	return rentals, total, nil
}

func (r *rentalRepository) Update(ctx context.Context, rental *model.Rental) error {
	return GetDB(ctx, r.db).Save(rental).Error
}

// CountByYear supports sequential contract numbering (LOC-YYYY-NNNN)
func (r *rentalRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Rental{}).
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Count(&count).Error
	return count, err
}
