package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gruas-backend/internal/model"
	"gruas-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type EmployeeRequest struct {
	Name     string `json:"name" binding:"required"`
	Position string `json:"position" binding:"required"`
	Shift    string `json:"shift" binding:"omitempty,oneof=day night"`
	SiteID   string `json:"site_id"`
	UserID   string `json:"user_id"`
	Status   string `json:"status" binding:"omitempty,oneof=active on_vacation inactive"`
}

type EmployeeResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Position  string  `json:"position"`
	Shift     string  `json:"shift"`
	SiteID    *string `json:"site_id"`
	SiteName  string  `json:"site_name,omitempty"`
	UserID    *string `json:"user_id"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// --- Interface ---

type EmployeeService interface {
	Create(ctx context.Context, req EmployeeRequest) (*EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (*EmployeeResponse, error)
	List(ctx context.Context, page, limit int, status, siteID string) ([]EmployeeResponse, int64, error)
	Update(ctx context.Context, id string, req EmployeeRequest) (*EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type employeeService struct {
	employeeRepo repository.EmployeeRepository
	siteRepo     repository.SiteRepository
}

func NewEmployeeService(employeeRepo repository.EmployeeRepository, siteRepo repository.SiteRepository) EmployeeService {
	return &employeeService{employeeRepo: employeeRepo, siteRepo: siteRepo}
}

// --- Implementation ---

func (s *employeeService) Create(ctx context.Context, req EmployeeRequest) (*EmployeeResponse, error) {
	employee := model.Employee{
		Name:     req.Name,
		Position: req.Position,
		Shift:    model.ShiftDay,
		Status:   model.EmployeeActive,
	}
	if req.Shift != "" {
		employee.Shift = req.Shift
	}
	if req.Status != "" {
		employee.Status = req.Status
	}
	if err := s.applyAssignments(ctx, &employee, req); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Create(ctx, &employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	out := toEmployeeResponse(employee)
	return &out, nil
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*EmployeeResponse, error) {
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toEmployeeResponse(*employee)
	return &out, nil
}

func (s *employeeService) List(ctx context.Context, page, limit int, status, siteID string) ([]EmployeeResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var siteFilter *uuid.UUID
	if siteID != "" {
		parsed, err := uuid.Parse(siteID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid site_id: %w", err)
		}
		siteFilter = &parsed
	}

	employees, total, err := s.employeeRepo.List(ctx, page, limit, status, siteFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch employees: %w", err)
	}

	result := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, toEmployeeResponse(e))
	}
	return result, total, nil
}

func (s *employeeService) Update(ctx context.Context, id string, req EmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	employee.Name = req.Name
	employee.Position = req.Position
	if req.Shift != "" {
		employee.Shift = req.Shift
	}
	if req.Status != "" {
		employee.Status = req.Status
	}
	if err := s.applyAssignments(ctx, employee, req); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	out := toEmployeeResponse(*employee)
	return &out, nil
}

func (s *employeeService) Delete(ctx context.Context, id string) error {
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return err
	}
	return s.employeeRepo.Delete(ctx, employee.ID)
}

// --- Helpers ---

func (s *employeeService) getEmployee(ctx context.Context, id string) (*model.Employee, error) {
	eid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", err)
	}
	employee, err := s.employeeRepo.GetByID(ctx, eid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) applyAssignments(ctx context.Context, employee *model.Employee, req EmployeeRequest) error {
	if req.SiteID != "" {
		siteID, err := uuid.Parse(req.SiteID)
		if err != nil {
			return fmt.Errorf("invalid site_id: %w", err)
		}
		if _, err := s.siteRepo.GetByID(ctx, siteID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: site", ErrNotFound)
			}
			return err
		}
		employee.SiteID = &siteID
	}
	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return fmt.Errorf("invalid user_id: %w", err)
		}
		employee.UserID = &userID
	}
	return nil
}

func toEmployeeResponse(e model.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Position:  e.Position,
		Shift:     e.Shift,
		Status:    e.Status,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if e.SiteID != nil {
		id := e.SiteID.String()
		resp.SiteID = &id
	}
	if e.Site != nil {
		resp.SiteName = e.Site.Name
	}
	if e.UserID != nil {
		id := e.UserID.String()
		resp.UserID = &id
	}
	return resp
}
