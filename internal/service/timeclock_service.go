package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gruas-backend/internal/geocoding"
	"gruas-backend/internal/model"
	"gruas-backend/internal/repository"
	"gruas-backend/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Clock event names accepted by Punch
const (
	ClockEventIn       = "clock_in"
	ClockEventLunchOut = "lunch_out"
	ClockEventLunchIn  = "lunch_in"
	ClockEventOut      = "clock_out"
)

// --- DTOs ---

type PunchRequest struct {
	Event     string   `json:"event" binding:"required,oneof=clock_in lunch_out lunch_in clock_out"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     string   `json:"notes"`
}

type TimeEntryResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name,omitempty"`
	Date         string   `json:"date"`
	ClockIn      *string  `json:"clock_in"`
	LunchOut     *string  `json:"lunch_out"`
	LunchIn      *string  `json:"lunch_in"`
	ClockOut     *string  `json:"clock_out"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Address      string   `json:"address"`
	Status       string   `json:"status"`
	Notes        string   `json:"notes"`
	WorkedHours  string   `json:"worked_hours"`
	CreatedAt    string   `json:"created_at"`
}

// --- Interface ---

type TimeClockService interface {
	// Punch records one clock event for the employee linked to userID,
	// creating today's entry on the first event.
	Punch(ctx context.Context, userID string, req PunchRequest) (*TimeEntryResponse, error)
	Today(ctx context.Context, userID string) (*TimeEntryResponse, error)
	List(ctx context.Context, page, limit int, employeeID, status, from, to string) ([]TimeEntryResponse, int64, error)
	Approve(ctx context.Context, approverID, id string) (*TimeEntryResponse, error)
}

type timeClockService struct {
	timeEntryRepo repository.TimeEntryRepository
	employeeRepo  repository.EmployeeRepository
	auditRepo     repository.AuditRepository
	geocoder      *geocoding.Client
	hub           *websocket.Hub
}

func NewTimeClockService(
	timeEntryRepo repository.TimeEntryRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	geocoder *geocoding.Client,
	hub *websocket.Hub,
) TimeClockService {
	return &timeClockService{
		timeEntryRepo: timeEntryRepo,
		employeeRepo:  employeeRepo,
		auditRepo:     auditRepo,
		geocoder:      geocoder,
		hub:           hub,
	}
}

// --- Implementation ---

func (s *timeClockService) Punch(ctx context.Context, userID string, req PunchRequest) (*TimeEntryResponse, error) {
	employee, err := s.employeeForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if employee.Status != model.EmployeeActive {
		return nil, fmt.Errorf("employee is %s", employee.Status)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	entry, err := s.timeEntryRepo.FindByEmployeeAndDate(ctx, employee.ID, today)
	isNew := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if req.Event != ClockEventIn {
			return nil, fmt.Errorf("%w: %s before clock_in", ErrInvalidTransition, req.Event)
		}
		entry = &model.TimeEntry{
			EmployeeID: employee.ID,
			Date:       today,
			Status:     model.TimeEntryOpen,
		}
		isNew = true
	}

	if err := applyClockEvent(entry, req.Event, now); err != nil {
		return nil, err
	}

	if req.Latitude != nil && req.Longitude != nil {
		entry.Latitude = req.Latitude
		entry.Longitude = req.Longitude
		s.fillAddress(ctx, entry)
	}
	if req.Notes != "" {
		entry.Notes = req.Notes
	}

	if isNew {
		err = s.timeEntryRepo.Create(ctx, entry)
	} else {
		err = s.timeEntryRepo.Update(ctx, entry)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save time entry: %w", err)
	}

	entry.Employee = employee
	s.hub.Notify("time_entry_"+req.Event, entry.ID.String(), toTimeEntryResponse(*entry))
	out := toTimeEntryResponse(*entry)
	return &out, nil
}

func (s *timeClockService) Today(ctx context.Context, userID string) (*TimeEntryResponse, error) {
	employee, err := s.employeeForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry, err := s.timeEntryRepo.FindByEmployeeAndDate(ctx, employee.ID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	entry.Employee = employee
	out := toTimeEntryResponse(*entry)
	return &out, nil
}

func (s *timeClockService) List(ctx context.Context, page, limit int, employeeID, status, from, to string) ([]TimeEntryResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var employeeFilter *uuid.UUID
	if employeeID != "" {
		parsed, err := uuid.Parse(employeeID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid employee_id: %w", err)
		}
		employeeFilter = &parsed
	}

	var fromDate, toDate *time.Time
	if from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid from date: %w", err)
		}
		fromDate = &parsed
	}
	if to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid to date: %w", err)
		}
		toDate = &parsed
	}

	entries, total, err := s.timeEntryRepo.List(ctx, page, limit, employeeFilter, status, fromDate, toDate)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch time entries: %w", err)
	}

	result := make([]TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toTimeEntryResponse(e))
	}
	return result, total, nil
}

func (s *timeClockService) Approve(ctx context.Context, approverID, id string) (*TimeEntryResponse, error) {
	eid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid time entry id: %w", err)
	}
	entry, err := s.timeEntryRepo.GetByID(ctx, eid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if entry.Status != model.TimeEntryClosed {
		return nil, fmt.Errorf("%w: cannot approve time entry in status %s", ErrInvalidTransition, entry.Status)
	}

	entry.Status = model.TimeEntryApproved
	entry.ApprovedBy = parseUserID(approverID)
	if err := s.timeEntryRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to approve time entry: %w", err)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"employee_id": entry.EmployeeID.String(),
		"date":        entry.Date.Format("2006-01-02"),
	})
	audit := &model.AuditLog{
		UserID:   parseUserID(approverID),
		Action:   model.ActionApproveTimeEntry,
		EntityID: entry.ID.String(),
		Details:  string(details),
	}
	if err := s.auditRepo.Log(ctx, audit); err != nil {
		log.Printf("audit log failed for time entry approval: %v", err)
	}

	out := toTimeEntryResponse(*entry)
	return &out, nil
}

// --- Helpers ---

func (s *timeClockService) employeeForUser(ctx context.Context, userID string) (*model.Employee, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	employee, err := s.employeeRepo.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no employee linked to this account", ErrNotFound)
		}
		return nil, err
	}
	return employee, nil
}

// fillAddress reverse-geocodes the punch coordinates. Failures are logged
// and ignored; the entry keeps coordinates only.
func (s *timeClockService) fillAddress(ctx context.Context, entry *model.TimeEntry) {
	if s.geocoder == nil || entry.Latitude == nil || entry.Longitude == nil {
		return
	}
	addr, err := s.geocoder.ReverseGeocode(ctx, *entry.Latitude, *entry.Longitude)
	if err != nil {
		log.Printf("reverse geocoding failed: %v", err)
		return
	}
	entry.Address = addr.DisplayName
}

// applyClockEvent enforces the daily event order: clock_in, optional
// lunch_out/lunch_in pair, clock_out. Each event is recorded once.
func applyClockEvent(entry *model.TimeEntry, event string, now time.Time) error {
	if entry.Status == model.TimeEntryApproved {
		return fmt.Errorf("%w: entry already approved", ErrInvalidTransition)
	}
	if entry.ClockOut != nil {
		return fmt.Errorf("%w: already clocked out today", ErrInvalidTransition)
	}

	switch event {
	case ClockEventIn:
		if entry.ClockIn != nil {
			return fmt.Errorf("%w: already clocked in today", ErrInvalidTransition)
		}
		entry.ClockIn = &now
	case ClockEventLunchOut:
		if entry.ClockIn == nil {
			return fmt.Errorf("%w: lunch_out before clock_in", ErrInvalidTransition)
		}
		if entry.LunchOut != nil {
			return fmt.Errorf("%w: lunch break already started", ErrInvalidTransition)
		}
		entry.LunchOut = &now
	case ClockEventLunchIn:
		if entry.LunchOut == nil {
			return fmt.Errorf("%w: lunch_in before lunch_out", ErrInvalidTransition)
		}
		if entry.LunchIn != nil {
			return fmt.Errorf("%w: lunch break already ended", ErrInvalidTransition)
		}
		entry.LunchIn = &now
	case ClockEventOut:
		if entry.ClockIn == nil {
			return fmt.Errorf("%w: clock_out before clock_in", ErrInvalidTransition)
		}
		if entry.LunchOut != nil && entry.LunchIn == nil {
			return fmt.Errorf("%w: clock_out during lunch break", ErrInvalidTransition)
		}
		entry.ClockOut = &now
		entry.Status = model.TimeEntryClosed
	default:
		return fmt.Errorf("unknown clock event %q", event)
	}
	return nil
}

// workedHours computes the net worked duration, subtracting the lunch break
// when both ends were recorded.
func workedHours(entry model.TimeEntry) time.Duration {
	if entry.ClockIn == nil || entry.ClockOut == nil {
		return 0
	}
	worked := entry.ClockOut.Sub(*entry.ClockIn)
	if entry.LunchOut != nil && entry.LunchIn != nil {
		worked -= entry.LunchIn.Sub(*entry.LunchOut)
	}
	if worked < 0 {
		return 0
	}
	return worked
}

func toTimeEntryResponse(e model.TimeEntry) TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:          e.ID.String(),
		EmployeeID:  e.EmployeeID.String(),
		Date:        e.Date.Format("2006-01-02"),
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		Address:     e.Address,
		Status:      e.Status,
		Notes:       e.Notes,
		WorkedHours: fmt.Sprintf("%.2f", workedHours(e).Hours()),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
	if e.Employee != nil {
		resp.EmployeeName = e.Employee.Name
	}
	resp.ClockIn = formatTimePtr(e.ClockIn)
	resp.LunchOut = formatTimePtr(e.LunchOut)
	resp.LunchIn = formatTimePtr(e.LunchIn)
	resp.ClockOut = formatTimePtr(e.ClockOut)
	return resp
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
