package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gruas-backend/internal/model"
	"gruas-backend/internal/repository"
	"gruas-backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRentalRequest struct {
	CraneID        string `json:"crane_id" binding:"required"`
	SiteID         string `json:"site_id" binding:"required"`
	StartDate      string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate        string `json:"end_date"`
	DurationMonths int    `json:"duration_months"`
	MonthlyRate    string `json:"monthly_rate" binding:"required"` // decimal string
	Notes          string `json:"notes"`
}

type UpdateRentalRequest struct {
	EndDate        string `json:"end_date"`
	DurationMonths *int   `json:"duration_months"`
	MonthlyRate    string `json:"monthly_rate"`
	Status         string `json:"status" binding:"omitempty,oneof=scheduled active finished cancelled"`
	Notes          string `json:"notes"`
}

type RentalResponse struct {
	ID             string  `json:"id"`
	ContractNo     string  `json:"contract_no"`
	CraneID        string  `json:"crane_id"`
	CraneName      string  `json:"crane_name,omitempty"`
	SiteID         string  `json:"site_id"`
	SiteName       string  `json:"site_name,omitempty"`
	ClientName     string  `json:"client_name,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date"`
	DurationMonths int     `json:"duration_months"`
	MonthlyRate    string  `json:"monthly_rate"`
	Status         string  `json:"status"`
	Notes          string  `json:"notes"`
	CreatedAt      string  `json:"created_at"`
}

// --- Interface ---

type RentalService interface {
	Create(ctx context.Context, userID string, req CreateRentalRequest) (*RentalResponse, error)
	GetByID(ctx context.Context, id string) (*RentalResponse, error)
	List(ctx context.Context, page, limit int, status, search string) ([]RentalResponse, int64, error)
	Update(ctx context.Context, userID, id string, req UpdateRentalRequest) (*RentalResponse, error)
}

type rentalService struct {
	rentalRepo repository.RentalRepository
	craneRepo  repository.CraneRepository
	siteRepo   repository.SiteRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	hub        *websocket.Hub
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	craneRepo repository.CraneRepository,
	siteRepo repository.SiteRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) RentalService {
	return &rentalService{
		rentalRepo: rentalRepo,
		craneRepo:  craneRepo,
		siteRepo:   siteRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		hub:        hub,
	}
}

// --- Implementation ---

func (s *rentalService) Create(ctx context.Context, userID string, req CreateRentalRequest) (*RentalResponse, error) {
	craneID, err := uuid.Parse(req.CraneID)
	if err != nil {
		return nil, fmt.Errorf("invalid crane_id: %w", err)
	}
	siteID, err := uuid.Parse(req.SiteID)
	if err != nil {
		return nil, fmt.Errorf("invalid site_id: %w", err)
	}

	crane, err := s.craneRepo.GetByID(ctx, craneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: crane", ErrNotFound)
		}
		return nil, err
	}
	if crane.Status == model.CraneRented {
		return nil, fmt.Errorf("crane %s is already rented", crane.Name)
	}

	if _, err := s.siteRepo.GetByID(ctx, siteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: site", ErrNotFound)
		}
		return nil, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}

	monthlyRate, err := decimal.NewFromString(req.MonthlyRate)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly_rate: %w", err)
	}
	if monthlyRate.IsNegative() {
		return nil, fmt.Errorf("monthly_rate must not be negative")
	}

	duration := req.DurationMonths
	if duration <= 0 {
		duration = 12
	}

	rental := model.Rental{
		CraneID:        craneID,
		SiteID:         siteID,
		StartDate:      startDate,
		DurationMonths: duration,
		MonthlyRate:    monthlyRate,
		Status:         model.RentalScheduled,
		Notes:          req.Notes,
	}
	if req.EndDate != "" {
		endDate, parseErr := time.Parse("2006-01-02", req.EndDate)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid end_date: %w", parseErr)
		}
		if endDate.Before(startDate) {
			return nil, fmt.Errorf("end_date must not precede start_date")
		}
		rental.EndDate = &endDate
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		seq, countErr := s.rentalRepo.CountByYear(txCtx, startDate.Year())
		if countErr != nil {
			return fmt.Errorf("failed to count rentals: %w", countErr)
		}
		rental.ContractNo = fmt.Sprintf("LOC-%d-%04d", startDate.Year(), seq+1)

		if createErr := s.rentalRepo.Create(txCtx, &rental); createErr != nil {
			return fmt.Errorf("failed to create rental: %w", createErr)
		}

		crane.Status = model.CraneRented
		if updateErr := s.craneRepo.Update(txCtx, crane); updateErr != nil {
			return fmt.Errorf("failed to update crane status: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"contract_no":     rental.ContractNo,
			"crane_id":        rental.CraneID.String(),
			"site_id":         rental.SiteID.String(),
			"start_date":      req.StartDate,
			"duration_months": rental.DurationMonths,
			"monthly_rate":    rental.MonthlyRate.String(),
		})
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateRental,
			EntityID:   rental.ID.String(),
			EntityName: rental.ContractNo,
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

	s.hub.Notify("rental_created", rental.ID.String(), toRentalResponse(rental))
	out := toRentalResponse(rental)
	return &out, nil
}

func (s *rentalService) GetByID(ctx context.Context, id string) (*RentalResponse, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid rental id: %w", err)
	}
	rental, err := s.rentalRepo.GetByID(ctx, rid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out := toRentalResponse(*rental)
	return &out, nil
}

func (s *rentalService) List(ctx context.Context, page, limit int, status, search string) ([]RentalResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	rentals, total, err := s.rentalRepo.List(ctx, page, limit, status, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch rentals: %w", err)
	}

	result := make([]RentalResponse, 0, len(rentals))
	for _, r := range rentals {
		result = append(result, toRentalResponse(r))
	}
	return result, total, nil
}

func (s *rentalService) Update(ctx context.Context, userID, id string, req UpdateRentalRequest) (*RentalResponse, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid rental id: %w", err)
	}
	rental, err := s.rentalRepo.GetByID(ctx, rid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	releaseCrane := false
	if req.Status != "" && req.Status != rental.Status {
		if rental.Status == model.RentalFinished || rental.Status == model.RentalCancelled {
			return nil, fmt.Errorf("%w: rental is %s", ErrInvalidTransition, rental.Status)
		}
		rental.Status = req.Status
		releaseCrane = req.Status == model.RentalFinished || req.Status == model.RentalCancelled
	}

	if req.EndDate != "" {
		endDate, parseErr := time.Parse("2006-01-02", req.EndDate)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid end_date: %w", parseErr)
		}
		rental.EndDate = &endDate
	}
	if req.DurationMonths != nil {
		if *req.DurationMonths <= 0 {
			return nil, fmt.Errorf("duration_months must be greater than 0")
		}
		rental.DurationMonths = *req.DurationMonths
	}
	if req.MonthlyRate != "" {
		rate, parseErr := decimal.NewFromString(req.MonthlyRate)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid monthly_rate: %w", parseErr)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("monthly_rate must not be negative")
		}
		rental.MonthlyRate = rate
	}
	if req.Notes != "" {
		rental.Notes = req.Notes
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.rentalRepo.Update(txCtx, rental); updateErr != nil {
			return fmt.Errorf("failed to update rental: %w", updateErr)
		}

		if releaseCrane {
			crane, craneErr := s.craneRepo.GetByID(txCtx, rental.CraneID)
			if craneErr == nil && crane.Status == model.CraneRented {
				crane.Status = model.CraneAvailable
				if updateErr := s.craneRepo.Update(txCtx, crane); updateErr != nil {
					return fmt.Errorf("failed to release crane: %w", updateErr)
				}
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"contract_no": rental.ContractNo,
			"status":      rental.Status,
		})
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateRental,
			EntityID:   rental.ID.String(),
			EntityName: rental.ContractNo,
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

	s.hub.Notify("rental_updated", rental.ID.String(), toRentalResponse(*rental))
	out := toRentalResponse(*rental)
	return &out, nil
}

// --- Helpers ---

func toRentalResponse(r model.Rental) RentalResponse {
	resp := RentalResponse{
		ID:             r.ID.String(),
		ContractNo:     r.ContractNo,
		CraneID:        r.CraneID.String(),
		SiteID:         r.SiteID.String(),
		StartDate:      r.StartDate.Format("2006-01-02"),
		DurationMonths: r.DurationMonths,
		MonthlyRate:    r.MonthlyRate.StringFixed(2),
		Status:         r.Status,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if r.EndDate != nil {
		d := r.EndDate.Format("2006-01-02")
		resp.EndDate = &d
	}
	if r.Crane != nil {
		resp.CraneName = r.Crane.Name
	}
	if r.Site != nil {
		resp.SiteName = r.Site.Name
		resp.ClientName = r.Site.ClientName
	}
	return resp
}
