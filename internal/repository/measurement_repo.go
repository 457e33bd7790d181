package repository

import (
	"context"

	"gruas-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeasurementFilter narrows measurement listings
type MeasurementFilter struct {
	Status   string
	RentalID *uuid.UUID
	Period   string
	Search   string
}

// MeasurementRepository persists monthly billing statements
type MeasurementRepository interface {
	Create(ctx context.Context, m *model.Measurement) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Measurement, error)
	List(ctx context.Context, page, limit int, filter MeasurementFilter) ([]model.Measurement, int64, error)
	Update(ctx context.Context, m *model.Measurement) error
	CountByPeriod(ctx context.Context, period string) (int64, error)
	ExistsForRentalAndPeriod(ctx context.Context, rentalID uuid.UUID, period string) (bool, error)
}

type measurementRepository struct {
	db *gorm.DB
}

func NewMeasurementRepository(db *gorm.DB) MeasurementRepository {
	return &measurementRepository{db: db}
}

func (r *measurementRepository) Create(ctx context.Context, m *model.Measurement) error {
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *measurementRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Measurement, error) {
	var m model.Measurement
	if err := GetDB(ctx, r.db).Preload("Rental").Preload("Rental.Crane").Preload("Rental.Site").First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *measurementRepository) List(ctx context.Context, page, limit int, filter MeasurementFilter) ([]model.Measurement, int64, error) {
	var list []model.Measurement
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Measurement{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.RentalID != nil {
		db = db.Where("rental_id = ?", *filter.RentalID)
	}
	if filter.Period != "" {
		db = db.Where("period = ?", filter.Period)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("number ILIKE ? OR period ILIKE ?", pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Rental").Order("period desc, number desc").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *measurementRepository) Update(ctx context.Context, m *model.Measurement) error {
	return GetDB(ctx, r.db).Save(m).Error
}

// CountByPeriod supports sequential statement numbering (MED-YYYYMM-NNN)
func (r *measurementRepository) CountByPeriod(ctx context.Context, period string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Measurement{}).Where("period = ?", period).Count(&count).Error
	return count, err
}

func (r *measurementRepository) ExistsForRentalAndPeriod(ctx context.Context, rentalID uuid.UUID, period string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Measurement{}).
		Where("rental_id = ? AND period = ? AND status != ?", rentalID, period, model.MeasurementCancelled).
		Count(&count).Error
	return count > 0, err
}
