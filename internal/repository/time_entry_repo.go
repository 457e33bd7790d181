package repository

import (
	"context"
	"time"

	"gruas-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeEntryRepository persists daily clock-in/out records
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *model.TimeEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.TimeEntry, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*model.TimeEntry, error)
	List(ctx context.Context, page, limit int, employeeID *uuid.UUID, status string, from, to *time.Time) ([]model.TimeEntry, int64, error)
	Update(ctx context.Context, entry *model.TimeEntry) error
}

type timeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

func (r *timeEntryRepository) Create(ctx context.Context, entry *model.TimeEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *timeEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	if err := GetDB(ctx, r.db).Preload("Employee").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	day := date.Format("2006-01-02")
	if err := GetDB(ctx, r.db).First(&entry, "employee_id = ? AND date = ?", employeeID, day).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) List(ctx context.Context, page, limit int, employeeID *uuid.UUID, status string, from, to *time.Time) ([]model.TimeEntry, int64, error) {
	var entries []model.TimeEntry
	var total int64

	db := GetDB(ctx, r.db).Model(&model.TimeEntry{})
	if employeeID != nil {
		db = db.Where("employee_id = ?", *employeeID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if from != nil {
		db = db.Where("date >= ?", from.Format("2006-01-02"))
	}
	if to != nil {
		db = db.Where("date <= ?", to.Format("2006-01-02"))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Employee").Order("date desc").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *timeEntryRepository) Update(ctx context.Context, entry *model.TimeEntry) error {
	return GetDB(ctx, r.db).Save(entry).Error
}
