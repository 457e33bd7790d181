package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gruas-backend/internal/model"
	"gruas-backend/internal/pricing"
	"gruas-backend/internal/repository"
	"gruas-backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type ComplementRequest struct {
	Name            string  `json:"name" binding:"required"`
	SKU             string  `json:"sku"`
	PricingKind     string  `json:"pricing_kind" binding:"required,oneof=monthly one_time per_meter per_hour per_day"`
	Unit            string  `json:"unit" binding:"required,oneof=m h unit day month"`
	UnitPriceCents  int64   `json:"unit_price_cents"`
	Quantity        string  `json:"quantity"` // decimal string, defaults to 1
	Factor          *string `json:"factor"`   // decimal string, per_meter override
	Description     string  `json:"description"`
	BillingStart    *string `json:"billing_start"` // YYYY-MM-DD
	BillingEnd      *string `json:"billing_end"`
	BillingMonths   *int    `json:"billing_months"`
	Taxable         *bool   `json:"taxable"`
	TaxRatePercent  string  `json:"tax_rate_percent"`
	DiscountPercent string  `json:"discount_percent"`
}

type ComplementStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft requested approved ordered delivered invoiced"`
}

type AddFromCatalogRequest struct {
	SKU string `json:"sku" binding:"required"`
}

type ComplementResponse struct {
	ID              string  `json:"id"`
	RentalID        string  `json:"rental_id"`
	Name            string  `json:"name"`
	SKU             string  `json:"sku"`
	PricingKind     string  `json:"pricing_kind"`
	Unit            string  `json:"unit"`
	UnitPriceCents  int64   `json:"unit_price_cents"`
	Quantity        string  `json:"quantity"`
	Factor          *string `json:"factor,omitempty"`
	Description     string  `json:"description"`
	BillingStart    *string `json:"billing_start"`
	BillingEnd      *string `json:"billing_end"`
	BillingMonths   *int    `json:"billing_months"`
	Taxable         bool    `json:"taxable"`
	TaxRatePercent  string  `json:"tax_rate_percent"`
	DiscountPercent string  `json:"discount_percent"`
	RuleKey         string  `json:"rule_key,omitempty"`
	Status          string  `json:"status"`
	Included        bool    `json:"included"`
	Value           string  `json:"value"` // computed line value after discount and tax
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ComplementTotalsResponse struct {
	Items  []ComplementResponse `json:"items"`
	Totals pricing.Totals       `json:"totals"`
}

// --- Interface ---

type ComplementService interface {
	ListByRental(ctx context.Context, rentalID string) (*ComplementTotalsResponse, error)
	Create(ctx context.Context, userID, rentalID string, req ComplementRequest) (*ComplementResponse, error)
	Update(ctx context.Context, userID, id string, req ComplementRequest) (*ComplementResponse, error)
	Delete(ctx context.Context, userID, id string) error
	ToggleIncluded(ctx context.Context, userID, id string) (*ComplementResponse, error)
	UpdateStatus(ctx context.Context, userID, id string, req ComplementStatusRequest) (*ComplementResponse, error)
	Catalog(ctx context.Context, filter string) []pricing.CatalogEntry
	AddFromCatalog(ctx context.Context, userID, rentalID string, req AddFromCatalogRequest) (*ComplementResponse, error)
}

type complementService struct {
	complementRepo repository.ComplementRepository
	rentalRepo     repository.RentalRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
	hub            *websocket.Hub
}

func NewComplementService(
	complementRepo repository.ComplementRepository,
	rentalRepo repository.RentalRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) ComplementService {
	return &complementService{
		complementRepo: complementRepo,
		rentalRepo:     rentalRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		hub:            hub,
	}
}

// --- Implementation ---

func (s *complementService) ListByRental(ctx context.Context, rentalID string) (*ComplementTotalsResponse, error) {
	rid, err := uuid.Parse(rentalID)
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

	items, err := s.complementRepo.ListByRental(ctx, rid)
	if err != nil {
		return nil, err
	}

	resp := &ComplementTotalsResponse{
		Items:  make([]ComplementResponse, 0, len(items)),
		Totals: pricing.Summarize(items, rental.DurationMonths),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, toComplementResponse(it))
	}
	return resp, nil
}

func (s *complementService) Create(ctx context.Context, userID, rentalID string, req ComplementRequest) (*ComplementResponse, error) {
	rid, err := uuid.Parse(rentalID)
	if err != nil {
		return nil, fmt.Errorf("invalid rental id: %w", err)
	}
	if _, err := s.rentalRepo.GetByID(ctx, rid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	item := model.Complement{
		RentalID:  rid,
		Status:    model.ComplementDraft,
		Included:  true,
		Taxable:   true,
		Quantity:  decimal.NewFromInt(1),
		CreatedBy: parseUserID(userID),
	}
	if err := applyComplementRequest(&item, req); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.complementRepo.Create(txCtx, &item); createErr != nil {
			return fmt.Errorf("failed to create complement: %w", createErr)
		}
		return s.logComplementAction(txCtx, userID, model.ActionCreateComplement, item)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("complement_created", item.ID.String(), toComplementResponse(item))
	out := toComplementResponse(item)
	return &out, nil
}

func (s *complementService) Update(ctx context.Context, userID, id string, req ComplementRequest) (*ComplementResponse, error) {
	item, err := s.getComplement(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status == model.ComplementInvoiced {
		return nil, ErrImmutableState
	}

	if err := applyComplementRequest(item, req); err != nil {
		return nil, err
	}
	item.UpdatedBy = parseUserID(userID)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.complementRepo.Update(txCtx, item); updateErr != nil {
			return fmt.Errorf("failed to update complement: %w", updateErr)
		}
		return s.logComplementAction(txCtx, userID, model.ActionUpdateComplement, *item)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("complement_updated", item.ID.String(), toComplementResponse(*item))
	out := toComplementResponse(*item)
	return &out, nil
}

func (s *complementService) Delete(ctx context.Context, userID, id string) error {
	item, err := s.getComplement(ctx, id)
	if err != nil {
		return err
	}
	if item.Status == model.ComplementInvoiced {
		return ErrImmutableState
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.complementRepo.Delete(txCtx, item.ID); delErr != nil {
			return fmt.Errorf("failed to delete complement: %w", delErr)
		}
		return s.logComplementAction(txCtx, userID, model.ActionDeleteComplement, *item)
	})
	if err != nil {
		return err
	}

	s.hub.Notify("complement_deleted", item.ID.String(), nil)
	return nil
}

// ToggleIncluded flips the inclusion flag. Allowed in every status, including
// invoiced: exclusion only affects totals, never the stored item.
func (s *complementService) ToggleIncluded(ctx context.Context, userID, id string) (*ComplementResponse, error) {
	item, err := s.getComplement(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Included = !item.Included
	item.UpdatedBy = parseUserID(userID)
	if err := s.complementRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to toggle complement: %w", err)
	}

	s.hub.Notify("complement_updated", item.ID.String(), toComplementResponse(*item))
	out := toComplementResponse(*item)
	return &out, nil
}

func (s *complementService) UpdateStatus(ctx context.Context, userID, id string, req ComplementStatusRequest) (*ComplementResponse, error) {
	item, err := s.getComplement(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status == model.ComplementInvoiced {
		return nil, ErrImmutableState
	}
	if !model.ValidComplementStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, req.Status)
	}

	item.Status = req.Status
	item.UpdatedBy = parseUserID(userID)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.complementRepo.Update(txCtx, item); updateErr != nil {
			return fmt.Errorf("failed to update complement status: %w", updateErr)
		}
		return s.logComplementAction(txCtx, userID, model.ActionUpdateComplement, *item)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("complement_updated", item.ID.String(), toComplementResponse(*item))
	out := toComplementResponse(*item)
	return &out, nil
}

func (s *complementService) Catalog(ctx context.Context, filter string) []pricing.CatalogEntry {
	return pricing.Lookup(filter)
}

func (s *complementService) AddFromCatalog(ctx context.Context, userID, rentalID string, req AddFromCatalogRequest) (*ComplementResponse, error) {
	rid, err := uuid.Parse(rentalID)
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

	entry, ok := pricing.FindBySKU(req.SKU)
	if !ok {
		return nil, fmt.Errorf("%w: catalog item %q", ErrNotFound, req.SKU)
	}

	start := rental.StartDate
	item := pricing.Instantiate(entry, pricing.RentalContext{
		RentalID:       rental.ID,
		StartDate:      &start,
		DurationMonths: rental.DurationMonths,
	})
	item.CreatedBy = parseUserID(userID)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.complementRepo.Create(txCtx, &item); createErr != nil {
			return fmt.Errorf("failed to create complement from catalog: %w", createErr)
		}
		return s.logComplementAction(txCtx, userID, model.ActionCreateComplement, item)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("complement_created", item.ID.String(), toComplementResponse(item))
	out := toComplementResponse(item)
	return &out, nil
}

// --- Helpers ---

func (s *complementService) getComplement(ctx context.Context, id string) (*model.Complement, error) {
	cid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid complement id: %w", err)
	}
	item, err := s.complementRepo.GetByID(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *complementService) logComplementAction(ctx context.Context, userID, action string, item model.Complement) error {
	details, _ := json.Marshal(map[string]interface{}{
		"rental_id":    item.RentalID.String(),
		"sku":          item.SKU,
		"pricing_kind": item.PricingKind,
		"quantity":     item.Quantity.String(),
		"status":       item.Status,
		"included":     item.Included,
	})
	entry := &model.AuditLog{
		UserID:     parseUserID(userID),
		Action:     action,
		EntityID:   item.ID.String(),
		EntityName: item.Name,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// applyComplementRequest copies validated request fields onto the item.
func applyComplementRequest(item *model.Complement, req ComplementRequest) error {
	if !model.ValidPricingKind(req.PricingKind) {
		return fmt.Errorf("invalid pricing_kind %q", req.PricingKind)
	}
	if !model.ValidUnit(req.Unit) {
		return fmt.Errorf("invalid unit %q", req.Unit)
	}
	if req.UnitPriceCents < 0 {
		return fmt.Errorf("unit_price_cents must not be negative")
	}

	item.Name = req.Name
	item.SKU = req.SKU
	item.PricingKind = req.PricingKind
	item.Unit = req.Unit
	item.UnitPriceCents = req.UnitPriceCents
	item.Description = req.Description
	item.BillingMonths = req.BillingMonths

	if req.Quantity != "" {
		qty, err := decimal.NewFromString(req.Quantity)
		if err != nil {
			return fmt.Errorf("invalid quantity: %w", err)
		}
		if qty.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("quantity must be greater than 0")
		}
		item.Quantity = qty
	}

	if req.Factor != nil {
		f, err := decimal.NewFromString(*req.Factor)
		if err != nil {
			return fmt.Errorf("invalid factor: %w", err)
		}
		item.Factor = &f
	} else {
		item.Factor = nil
	}

	if req.Taxable != nil {
		item.Taxable = *req.Taxable
	}

	if req.TaxRatePercent != "" {
		rate, err := parsePercent(req.TaxRatePercent, "tax_rate_percent")
		if err != nil {
			return err
		}
		item.TaxRatePercent = rate
	}
	if req.DiscountPercent != "" {
		disc, err := parsePercent(req.DiscountPercent, "discount_percent")
		if err != nil {
			return err
		}
		item.DiscountPercent = disc
	}

	var err error
	if item.BillingStart, err = parseDatePtr(req.BillingStart, "billing_start"); err != nil {
		return err
	}
	if item.BillingEnd, err = parseDatePtr(req.BillingEnd, "billing_end"); err != nil {
		return err
	}
	return nil
}

func parsePercent(raw, field string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("%s must be between 0 and 100", field)
	}
	return v, nil
}

func parseDatePtr(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return &t, nil
}

func parseUserID(userID string) *uuid.UUID {
	if userID == "" {
		return nil
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return nil
	}
	return &parsed
}

func toComplementResponse(item model.Complement) ComplementResponse {
	resp := ComplementResponse{
		ID:              item.ID.String(),
		RentalID:        item.RentalID.String(),
		Name:            item.Name,
		SKU:             item.SKU,
		PricingKind:     item.PricingKind,
		Unit:            item.Unit,
		UnitPriceCents:  item.UnitPriceCents,
		Quantity:        item.Quantity.String(),
		Description:     item.Description,
		BillingMonths:   item.BillingMonths,
		Taxable:         item.Taxable,
		TaxRatePercent:  item.TaxRatePercent.String(),
		DiscountPercent: item.DiscountPercent.String(),
		RuleKey:         item.RuleKey,
		Status:          item.Status,
		Included:        item.Included,
		Value:           pricing.ItemValue(item).StringFixed(2),
		CreatedAt:       item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.Format(time.RFC3339),
	}
	if item.Factor != nil {
		f := item.Factor.String()
		resp.Factor = &f
	}
	if item.BillingStart != nil {
		d := item.BillingStart.Format("2006-01-02")
		resp.BillingStart = &d
	}
	if item.BillingEnd != nil {
		d := item.BillingEnd.Format("2006-01-02")
		resp.BillingEnd = &d
	}
	return resp
}
