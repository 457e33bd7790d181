package service

import (
	"context"
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

type CraneRequest struct {
	Name         string `json:"name" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Manufacturer string `json:"manufacturer"`
	CapacityTons string `json:"capacity_tons"` // decimal string
	HeightMeters string `json:"height_meters"`
	Status       string `json:"status" binding:"omitempty,oneof=available rented maintenance"`
}

type CraneResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
	CapacityTons string `json:"capacity_tons"`
	HeightMeters string `json:"height_meters"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// --- Interface ---

type CraneService interface {
	Create(ctx context.Context, req CraneRequest) (*CraneResponse, error)
	GetByID(ctx context.Context, id string) (*CraneResponse, error)
	List(ctx context.Context, page, limit int, status, search string) ([]CraneResponse, int64, error)
	Update(ctx context.Context, id string, req CraneRequest) (*CraneResponse, error)
	Delete(ctx context.Context, id string) error
}

type craneService struct {
	craneRepo repository.CraneRepository
}

func NewCraneService(craneRepo repository.CraneRepository) CraneService {
	return &craneService{craneRepo: craneRepo}
}

// --- Implementation ---

func (s *craneService) Create(ctx context.Context, req CraneRequest) (*CraneResponse, error) {
	crane := model.Crane{
		Name:         req.Name,
		Model:        req.Model,
		Manufacturer: req.Manufacturer,
		Status:       model.CraneAvailable,
	}
	if req.Status != "" {
		crane.Status = req.Status
	}
	if err := applyCraneDimensions(&crane, req); err != nil {
		return nil, err
	}

	if err := s.craneRepo.Create(ctx, &crane); err != nil {
		return nil, fmt.Errorf("failed to create crane: %w", err)
	}
	out := toCraneResponse(crane)
	return &out, nil
}

func (s *craneService) GetByID(ctx context.Context, id string) (*CraneResponse, error) {
	crane, err := s.getCrane(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCraneResponse(*crane)
	return &out, nil
}

func (s *craneService) List(ctx context.Context, page, limit int, status, search string) ([]CraneResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	cranes, total, err := s.craneRepo.List(ctx, page, limit, status, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch cranes: %w", err)
	}

	result := make([]CraneResponse, 0, len(cranes))
	for _, c := range cranes {
		result = append(result, toCraneResponse(c))
	}
	return result, total, nil
}

func (s *craneService) Update(ctx context.Context, id string, req CraneRequest) (*CraneResponse, error) {
	crane, err := s.getCrane(ctx, id)
	if err != nil {
		return nil, err
	}

	crane.Name = req.Name
	crane.Model = req.Model
	crane.Manufacturer = req.Manufacturer
	if req.Status != "" {
		crane.Status = req.Status
	}
	if err := applyCraneDimensions(crane, req); err != nil {
		return nil, err
	}

	if err := s.craneRepo.Update(ctx, crane); err != nil {
		return nil, fmt.Errorf("failed to update crane: %w", err)
	}
	out := toCraneResponse(*crane)
	return &out, nil
}

func (s *craneService) Delete(ctx context.Context, id string) error {
	crane, err := s.getCrane(ctx, id)
	if err != nil {
		return err
	}
	if crane.Status == model.CraneRented {
		return fmt.Errorf("rented crane cannot be deleted")
	}
	return s.craneRepo.Delete(ctx, crane.ID)
}

// --- Helpers ---

func (s *craneService) getCrane(ctx context.Context, id string) (*model.Crane, error) {
	cid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid crane id: %w", err)
	}
	crane, err := s.craneRepo.GetByID(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return crane, nil
}

func applyCraneDimensions(crane *model.Crane, req CraneRequest) error {
	if req.CapacityTons != "" {
		capacity, err := decimal.NewFromString(req.CapacityTons)
		if err != nil {
			return fmt.Errorf("invalid capacity_tons: %w", err)
		}
		if capacity.IsNegative() {
			return fmt.Errorf("capacity_tons must not be negative")
		}
		crane.CapacityTons = capacity
	}
	if req.HeightMeters != "" {
		height, err := decimal.NewFromString(req.HeightMeters)
		if err != nil {
			return fmt.Errorf("invalid height_meters: %w", err)
		}
		if height.IsNegative() {
			return fmt.Errorf("height_meters must not be negative")
		}
		crane.HeightMeters = height
	}
	return nil
}

func toCraneResponse(c model.Crane) CraneResponse {
	return CraneResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Model:        c.Model,
		Manufacturer: c.Manufacturer,
		CapacityTons: c.CapacityTons.StringFixed(2),
		HeightMeters: c.HeightMeters.StringFixed(2),
		Status:       c.Status,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
}
