package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gruas-backend/internal/model"
	"gruas-backend/internal/pricing"
	"gruas-backend/internal/repository"
	"gruas-backend/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// --- DTOs ---

type CreateMeasurementRequest struct {
	RentalID string `json:"rental_id" binding:"required"`
	Period   string `json:"period" binding:"required"` // YYYY-MM
	Notes    string `json:"notes"`
}

type FinalizeMeasurementRequest struct {
	BankAccountID string `json:"bank_account_id" binding:"required"`
}

type MeasurementResponse struct {
	ID                string  `json:"id"`
	Number            string  `json:"number"`
	RentalID          string  `json:"rental_id"`
	ContractNo        string  `json:"contract_no,omitempty"`
	Period            string  `json:"period"`
	BaseAmount        string  `json:"base_amount"`
	ComplementsAmount string  `json:"complements_amount"`
	TotalAmount       string  `json:"total_amount"`
	Status            string  `json:"status"`
	Notes             string  `json:"notes"`
	ApprovedBy        *string `json:"approved_by"`
	ApprovedAt        *string `json:"approved_at"`
	FinalizedAt       *string `json:"finalized_at"`
	BankAccountID     *string `json:"bank_account_id"`
	CreatedAt         string  `json:"created_at"`
}

// --- Interface ---

type MeasurementService interface {
	Create(ctx context.Context, userID string, req CreateMeasurementRequest) (*MeasurementResponse, error)
	GetByID(ctx context.Context, id string) (*MeasurementResponse, error)
	List(ctx context.Context, page, limit int, status, rentalID, period, search string) ([]MeasurementResponse, int64, error)
	Approve(ctx context.Context, userID, id string) (*MeasurementResponse, error)
	Finalize(ctx context.Context, userID, id string, req FinalizeMeasurementRequest) (*MeasurementResponse, error)
	Cancel(ctx context.Context, userID, id string) (*MeasurementResponse, error)
}

type measurementService struct {
	measurementRepo repository.MeasurementRepository
	rentalRepo      repository.RentalRepository
	complementRepo  repository.ComplementRepository
	accountRepo     repository.BankAccountRepository
	txnRepo         repository.BankTransactionRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
	hub             *websocket.Hub
}

func NewMeasurementService(
	measurementRepo repository.MeasurementRepository,
	rentalRepo repository.RentalRepository,
	complementRepo repository.ComplementRepository,
	accountRepo repository.BankAccountRepository,
	txnRepo repository.BankTransactionRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) MeasurementService {
	return &measurementService{
		measurementRepo: measurementRepo,
		rentalRepo:      rentalRepo,
		complementRepo:  complementRepo,
		accountRepo:     accountRepo,
		txnRepo:         txnRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		hub:             hub,
	}
}

// --- Implementation ---

// Create snapshots the rental's monthly rate plus the monthly bucket of its
// included complements for one billing period. One non-cancelled measurement
// per rental and period.
func (s *measurementService) Create(ctx context.Context, userID string, req CreateMeasurementRequest) (*MeasurementResponse, error) {
	if !periodPattern.MatchString(req.Period) {
		return nil, fmt.Errorf("invalid period %q: expected YYYY-MM", req.Period)
	}

	rentalID, err := uuid.Parse(req.RentalID)
	if err != nil {
		return nil, fmt.Errorf("invalid rental_id: %w", err)
	}
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: rental", ErrNotFound)
		}
		return nil, err
	}

	exists, err := s.measurementRepo.ExistsForRentalAndPeriod(ctx, rentalID, req.Period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: measurement for rental %s period %s", ErrDuplicate, rental.ContractNo, req.Period)
	}

	items, err := s.complementRepo.ListByRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	totals := pricing.Summarize(items, rental.DurationMonths)

	m := model.Measurement{
		RentalID:          rentalID,
		Period:            req.Period,
		BaseAmount:        rental.MonthlyRate,
		ComplementsAmount: totals.Monthly,
		TotalAmount:       rental.MonthlyRate.Add(totals.Monthly),
		Status:            model.MeasurementPending,
		Notes:             req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		seq, countErr := s.measurementRepo.CountByPeriod(txCtx, req.Period)
		if countErr != nil {
			return fmt.Errorf("failed to count measurements: %w", countErr)
		}
		m.Number = fmt.Sprintf("MED-%s-%03d", strings.ReplaceAll(req.Period, "-", ""), seq+1)

		if createErr := s.measurementRepo.Create(txCtx, &m); createErr != nil {
			return fmt.Errorf("failed to create measurement: %w", createErr)
		}
		return s.logMeasurementAction(txCtx, userID, model.ActionCreateMeasurement, m)
	})
	if err != nil {
		return nil, err
	}

	m.Rental = rental
	s.hub.Notify("measurement_created", m.ID.String(), toMeasurementResponse(m))
	out := toMeasurementResponse(m)
	return &out, nil
}

func (s *measurementService) GetByID(ctx context.Context, id string) (*MeasurementResponse, error) {
	m, err := s.getMeasurement(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toMeasurementResponse(*m)
	return &out, nil
}

func (s *measurementService) List(ctx context.Context, page, limit int, status, rentalID, period, search string) ([]MeasurementResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	filter := repository.MeasurementFilter{Status: status, Period: period, Search: search}
	if rentalID != "" {
		parsed, err := uuid.Parse(rentalID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid rental_id: %w", err)
		}
		filter.RentalID = &parsed
	}

	list, total, err := s.measurementRepo.List(ctx, page, limit, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch measurements: %w", err)
	}

	result := make([]MeasurementResponse, 0, len(list))
	for _, m := range list {
		result = append(result, toMeasurementResponse(m))
	}
	return result, total, nil
}

func (s *measurementService) Approve(ctx context.Context, userID, id string) (*MeasurementResponse, error) {
	m, err := s.getMeasurement(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != model.MeasurementPending {
		return nil, fmt.Errorf("%w: cannot approve measurement in status %s", ErrInvalidTransition, m.Status)
	}

	now := time.Now()
	m.Status = model.MeasurementApproved
	m.ApprovedBy = parseUserID(userID)
	m.ApprovedAt = &now

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.measurementRepo.Update(txCtx, m); updateErr != nil {
			return fmt.Errorf("failed to approve measurement: %w", updateErr)
		}
		return s.logMeasurementAction(txCtx, userID, model.ActionApproveMeasurement, *m)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("measurement_approved", m.ID.String(), toMeasurementResponse(*m))
	out := toMeasurementResponse(*m)
	return &out, nil
}

// Finalize posts the measurement total as a credit on the chosen bank account.
// The status change, the bank transaction and the balance adjustment commit
// together or not at all.
func (s *measurementService) Finalize(ctx context.Context, userID, id string, req FinalizeMeasurementRequest) (*MeasurementResponse, error) {
	m, err := s.getMeasurement(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != model.MeasurementApproved {
		return nil, fmt.Errorf("%w: cannot finalize measurement in status %s", ErrInvalidTransition, m.Status)
	}

	accountID, err := uuid.Parse(req.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid bank_account_id: %w", err)
	}
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: bank account", ErrNotFound)
		}
		return nil, err
	}
	if account.Status != model.AccountActive {
		return nil, fmt.Errorf("bank account is %s", account.Status)
	}

	now := time.Now()
	m.Status = model.MeasurementFinalized
	m.FinalizedAt = &now
	m.BankAccountID = &accountID

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.measurementRepo.Update(txCtx, m); updateErr != nil {
			return fmt.Errorf("failed to finalize measurement: %w", updateErr)
		}

		description := fmt.Sprintf("Measurement %s", m.Number)
		if m.Rental != nil {
			description = fmt.Sprintf("Measurement %s (%s)", m.Number, m.Rental.ContractNo)
		}
		txn := &model.BankTransaction{
			AccountID:   accountID,
			Kind:        model.TransactionCredit,
			Amount:      m.TotalAmount,
			Description: description,
			Reference:   m.Number,
			Category:    "rental_revenue",
			Date:        now,
			CreatedBy:   parseUserID(userID),
		}
		if createErr := s.txnRepo.Create(txCtx, txn); createErr != nil {
			return fmt.Errorf("failed to record revenue transaction: %w", createErr)
		}
		if adjErr := s.accountRepo.AdjustBalance(txCtx, accountID, m.TotalAmount); adjErr != nil {
			return fmt.Errorf("failed to adjust balance: %w", adjErr)
		}

		return s.logMeasurementAction(txCtx, userID, model.ActionFinalizeMeasurement, *m)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("measurement_finalized", m.ID.String(), toMeasurementResponse(*m))
	out := toMeasurementResponse(*m)
	return &out, nil
}

func (s *measurementService) Cancel(ctx context.Context, userID, id string) (*MeasurementResponse, error) {
	m, err := s.getMeasurement(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != model.MeasurementPending && m.Status != model.MeasurementApproved {
		return nil, fmt.Errorf("%w: cannot cancel measurement in status %s", ErrInvalidTransition, m.Status)
	}

	m.Status = model.MeasurementCancelled

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.measurementRepo.Update(txCtx, m); updateErr != nil {
			return fmt.Errorf("failed to cancel measurement: %w", updateErr)
		}
		return s.logMeasurementAction(txCtx, userID, model.ActionCancelMeasurement, *m)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("measurement_cancelled", m.ID.String(), toMeasurementResponse(*m))
	out := toMeasurementResponse(*m)
	return &out, nil
}

// --- Helpers ---

func (s *measurementService) getMeasurement(ctx context.Context, id string) (*model.Measurement, error) {
	mid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid measurement id: %w", err)
	}
	m, err := s.measurementRepo.GetByID(ctx, mid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *measurementService) logMeasurementAction(ctx context.Context, userID, action string, m model.Measurement) error {
	details, _ := json.Marshal(map[string]interface{}{
		"number":       m.Number,
		"rental_id":    m.RentalID.String(),
		"period":       m.Period,
		"total_amount": m.TotalAmount.String(),
		"status":       m.Status,
	})
	entry := &model.AuditLog{
		UserID:     parseUserID(userID),
		Action:     action,
		EntityID:   m.ID.String(),
		EntityName: m.Number,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toMeasurementResponse(m model.Measurement) MeasurementResponse {
	resp := MeasurementResponse{
		ID:                m.ID.String(),
		Number:            m.Number,
		RentalID:          m.RentalID.String(),
		Period:            m.Period,
		BaseAmount:        m.BaseAmount.StringFixed(2),
		ComplementsAmount: m.ComplementsAmount.StringFixed(2),
		TotalAmount:       m.TotalAmount.StringFixed(2),
		Status:            m.Status,
		Notes:             m.Notes,
		CreatedAt:         m.CreatedAt.Format(time.RFC3339),
	}
	if m.Rental != nil {
		resp.ContractNo = m.Rental.ContractNo
	}
	if m.ApprovedBy != nil {
		id := m.ApprovedBy.String()
		resp.ApprovedBy = &id
	}
	if m.ApprovedAt != nil {
		ts := m.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &ts
	}
	if m.FinalizedAt != nil {
		ts := m.FinalizedAt.Format(time.RFC3339)
		resp.FinalizedAt = &ts
	}
	if m.BankAccountID != nil {
		id := m.BankAccountID.String()
		resp.BankAccountID = &id
	}
	return resp
}
