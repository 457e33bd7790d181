package repository

import (
	"context"

	"gruas-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CraneRepository persists the rentable crane fleet
type CraneRepository interface {
	Create(ctx context.Context, crane *model.Crane) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Crane, error)
	List(ctx context.Context, page, limit int, status, search string) ([]model.Crane, int64, error)
	Update(ctx context.Context, crane *model.Crane) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SiteRepository persists client construction sites
type SiteRepository interface {
	Create(ctx context.Context, site *model.ConstructionSite) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ConstructionSite, error)
	List(ctx context.Context, page, limit int, status, search string) ([]model.ConstructionSite, int64, error)
	Update(ctx context.Context, site *model.ConstructionSite) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeRepository persists field employees
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Employee, error)
	List(ctx context.Context, page, limit int, status string, siteID *uuid.UUID) ([]model.Employee, int64, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type craneRepository struct {
	db *gorm.DB
}

func NewCraneRepository(db *gorm.DB) CraneRepository {
	return &craneRepository{db: db}
}

func (r *craneRepository) Create(ctx context.Context, crane *model.Crane) error {
	return GetDB(ctx, r.db).Create(crane).Error
}

func (r *craneRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Crane, error) {
	var crane model.Crane
	if err := GetDB(ctx, r.db).First(&crane, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &crane, nil
}

func (r *craneRepository) List(ctx context.Context, page, limit int, status, search string) ([]model.Crane, int64, error) {
	var cranes []model.Crane
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Crane{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		db = db.Where("name ILIKE ? OR model ILIKE ? OR manufacturer ILIKE ?", pattern, pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&cranes).Error; err != nil {
		return nil, 0, err
	}

	return cranes, total, nil
}

func (r *craneRepository) Update(ctx context.Context, crane *model.Crane) error {
	return GetDB(ctx, r.db).Save(crane).Error
}

func (r *craneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Crane{}).Error
}

type siteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) Create(ctx context.Context, site *model.ConstructionSite) error {
	return GetDB(ctx, r.db).Create(site).Error
}

func (r *siteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ConstructionSite, error) {
	var site model.ConstructionSite
	if err := GetDB(ctx, r.db).First(&site, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) List(ctx context.Context, page, limit int, status, search string) ([]model.ConstructionSite, int64, error) {
	var sites []model.ConstructionSite
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ConstructionSite{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		db = db.Where("name ILIKE ? OR client_name ILIKE ? OR city ILIKE ?", pattern, pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&sites).Error; err != nil {
		return nil, 0, err
	}

	return sites, total, nil
}

func (r *siteRepository) Update(ctx context.Context, site *model.ConstructionSite) error {
	return GetDB(ctx, r.db).Save(site).Error
}

func (r *siteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ConstructionSite{}).Error
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Create(employee).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).Preload("Site").First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).Preload("Site").First(&employee, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, page, limit int, status string, siteID *uuid.UUID) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Employee{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if siteID != nil {
		db = db.Where("site_id = ?", *siteID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Site").Order("name asc").Offset(offset).Limit(limit).Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Employee{}).Error
}
