package service

import (
	"context"
	"testing"
	"time"

	"gruas-backend/internal/model"
	"gruas-backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComplementFixture(t *testing.T) (ComplementService, *fakeComplementRepo, *fakeRentalRepo, model.Rental) {
	t.Helper()

	complementRepo := newFakeComplementRepo()
	rentalRepo := newFakeRentalRepo()
	auditRepo := &fakeAuditRepo{}
	hub := websocket.NewHub()

	rental := model.Rental{
		ID:             uuid.New(),
		ContractNo:     "LOC-2026-0001",
		CraneID:        uuid.New(),
		SiteID:         uuid.New(),
		StartDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DurationMonths: 12,
		MonthlyRate:    decimal.NewFromInt(25000),
		Status:         model.RentalActive,
	}
	rentalRepo.rentals[rental.ID] = rental

	svc := NewComplementService(complementRepo, rentalRepo, auditRepo, &fakeTxManager{}, hub)
	return svc, complementRepo, rentalRepo, rental
}

func TestCreateComplementDefaults(t *testing.T) {
	svc, _, _, rental := newComplementFixture(t)

	resp, err := svc.Create(context.Background(), "", rental.ID.String(), ComplementRequest{
		Name:           "Garfo Paleteiro",
		SKU:            "ACESS-001",
		PricingKind:    model.PricingMonthly,
		Unit:           model.UnitPiece,
		UnitPriceCents: 50000,
		TaxRatePercent: "18",
	})
	require.NoError(t, err)

	assert.Equal(t, model.ComplementDraft, resp.Status)
	assert.True(t, resp.Included)
	assert.Equal(t, "1", resp.Quantity)
	// 500.00 * 1.18
	assert.Equal(t, "590.00", resp.Value)
}

func TestCreateComplementRejectsInvalidInput(t *testing.T) {
	svc, _, _, rental := newComplementFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  ComplementRequest
	}{
		{"unknown pricing kind", ComplementRequest{Name: "x", PricingKind: "weekly", Unit: model.UnitPiece}},
		{"unknown unit", ComplementRequest{Name: "x", PricingKind: model.PricingMonthly, Unit: "kg"}},
		{"zero quantity", ComplementRequest{Name: "x", PricingKind: model.PricingMonthly, Unit: model.UnitPiece, Quantity: "0"}},
		{"negative price", ComplementRequest{Name: "x", PricingKind: model.PricingMonthly, Unit: model.UnitPiece, UnitPriceCents: -100}},
		{"discount above 100", ComplementRequest{Name: "x", PricingKind: model.PricingMonthly, Unit: model.UnitPiece, DiscountPercent: "120"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "", rental.ID.String(), tc.req)
			assert.Error(t, err)
		})
	}
}

func TestCreateComplementUnknownRental(t *testing.T) {
	svc, _, _, _ := newComplementFixture(t)

	_, err := svc.Create(context.Background(), "", uuid.NewString(), ComplementRequest{
		Name:        "x",
		PricingKind: model.PricingMonthly,
		Unit:        model.UnitPiece,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvoicedComplementIsImmutable(t *testing.T) {
	svc, repo, _, rental := newComplementFixture(t)
	ctx := context.Background()

	item := model.Complement{
		ID:             uuid.New(),
		RentalID:       rental.ID,
		Name:           "Serviço de Operador",
		PricingKind:    model.PricingMonthly,
		Unit:           model.UnitPiece,
		UnitPriceCents: 800000,
		Quantity:       decimal.NewFromInt(1),
		Status:         model.ComplementInvoiced,
		Included:       true,
	}
	repo.items[item.ID] = item

	_, err := svc.Update(ctx, "", item.ID.String(), ComplementRequest{
		Name:        "changed",
		PricingKind: model.PricingMonthly,
		Unit:        model.UnitPiece,
	})
	assert.ErrorIs(t, err, ErrImmutableState)

	err = svc.Delete(ctx, "", item.ID.String())
	assert.ErrorIs(t, err, ErrImmutableState)

	_, err = svc.UpdateStatus(ctx, "", item.ID.String(), ComplementStatusRequest{Status: model.ComplementDraft})
	assert.ErrorIs(t, err, ErrImmutableState)

	// the stored item is untouched
	stored := repo.items[item.ID]
	assert.Equal(t, "Serviço de Operador", stored.Name)
	assert.Equal(t, model.ComplementInvoiced, stored.Status)
}

func TestToggleIncludedAllowedOnInvoiced(t *testing.T) {
	svc, repo, _, rental := newComplementFixture(t)
	ctx := context.Background()

	item := model.Complement{
		ID:          uuid.New(),
		RentalID:    rental.ID,
		Name:        "Seguro RC / Roubo",
		PricingKind: model.PricingMonthly,
		Unit:        model.UnitPiece,
		Quantity:    decimal.NewFromInt(1),
		Status:      model.ComplementInvoiced,
		Included:    true,
	}
	repo.items[item.ID] = item

	resp, err := svc.ToggleIncluded(ctx, "", item.ID.String())
	require.NoError(t, err)
	assert.False(t, resp.Included)

	resp, err = svc.ToggleIncluded(ctx, "", item.ID.String())
	require.NoError(t, err)
	assert.True(t, resp.Included)
}

func TestListByRentalComputesTotals(t *testing.T) {
	svc, repo, _, rental := newComplementFixture(t)

	monthly := model.Complement{
		ID:             uuid.New(),
		RentalID:       rental.ID,
		Name:           "Garfo Paleteiro",
		PricingKind:    model.PricingMonthly,
		Unit:           model.UnitPiece,
		UnitPriceCents: 50000,
		Quantity:       decimal.NewFromInt(1),
		Taxable:        true,
		TaxRatePercent: decimal.NewFromInt(18),
		Included:       true,
	}
	oneTime := model.Complement{
		ID:             uuid.New(),
		RentalID:       rental.ID,
		Name:           "Transporte",
		PricingKind:    model.PricingOneTime,
		Unit:           model.UnitPiece,
		UnitPriceCents: 300000,
		Quantity:       decimal.NewFromInt(1),
		Included:       true,
	}
	excluded := model.Complement{
		ID:             uuid.New(),
		RentalID:       rental.ID,
		Name:           "Balde de Concreto",
		PricingKind:    model.PricingMonthly,
		Unit:           model.UnitPiece,
		UnitPriceCents: 30000,
		Quantity:       decimal.NewFromInt(1),
		Included:       false,
	}
	repo.items[monthly.ID] = monthly
	repo.items[oneTime.ID] = oneTime
	repo.items[excluded.ID] = excluded

	resp, err := svc.ListByRental(context.Background(), rental.ID.String())
	require.NoError(t, err)

	assert.Len(t, resp.Items, 3)
	assert.Equal(t, "590", resp.Totals.Monthly.String())
	assert.Equal(t, "3000", resp.Totals.OneTime.String())
	// 590*12 + 3000
	assert.Equal(t, "10080", resp.Totals.ContractTotal.String())
	assert.Equal(t, 12, resp.Totals.DurationMonths)
}

func TestAddFromCatalog(t *testing.T) {
	svc, _, _, rental := newComplementFixture(t)
	ctx := context.Background()

	resp, err := svc.AddFromCatalog(ctx, "", rental.ID.String(), AddFromCatalogRequest{SKU: "ACESS-005"})
	require.NoError(t, err)

	assert.Equal(t, "Estaiamentos", resp.Name)
	assert.Equal(t, model.PricingPerMeter, resp.PricingKind)
	assert.Equal(t, model.ComplementDraft, resp.Status)
	assert.True(t, resp.Included)
	assert.Equal(t, "18", resp.TaxRatePercent)
	require.NotNil(t, resp.Factor)
	assert.Equal(t, "650", *resp.Factor)
	require.NotNil(t, resp.BillingStart)
	assert.Equal(t, "2026-03-01", *resp.BillingStart)

	_, err = svc.AddFromCatalog(ctx, "", rental.ID.String(), AddFromCatalogRequest{SKU: "ACESS-999"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogLookupThroughService(t *testing.T) {
	svc, _, _, _ := newComplementFixture(t)

	all := svc.Catalog(context.Background(), "")
	assert.Len(t, all, 21)

	matches := svc.Catalog(context.Background(), "operador")
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Contains(t, m.Name+m.Description, "perador")
	}
}
