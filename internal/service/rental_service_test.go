package service

import (
	"context"
	"testing"

	"gruas-backend/internal/model"
	"gruas-backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRentalFixture(t *testing.T) (RentalService, *fakeRentalRepo, *fakeCraneRepo, model.Crane, model.ConstructionSite) {
	t.Helper()

	rentalRepo := newFakeRentalRepo()
	craneRepo := newFakeCraneRepo()
	siteRepo := newFakeSiteRepo()
	auditRepo := &fakeAuditRepo{}
	hub := websocket.NewHub()

	crane := model.Crane{
		ID:           uuid.New(),
		Name:         "Potain MDT 219",
		Model:        "MDT 219 J10",
		CapacityTons: decimal.NewFromInt(10),
		Status:       model.CraneAvailable,
	}
	craneRepo.cranes[crane.ID] = crane

	site := model.ConstructionSite{
		ID:         uuid.New(),
		Name:       "Obra Central",
		ClientName: "Construtora Alfa",
		Status:     model.SiteActive,
	}
	siteRepo.sites[site.ID] = site

	svc := NewRentalService(rentalRepo, craneRepo, siteRepo, auditRepo, &fakeTxManager{}, hub)
	return svc, rentalRepo, craneRepo, crane, site
}

func TestCreateRentalNumbersContractsPerYear(t *testing.T) {
	svc, _, craneRepo, crane, site := newRentalFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "", CreateRentalRequest{
		CraneID:     crane.ID.String(),
		SiteID:      site.ID.String(),
		StartDate:   "2026-03-01",
		MonthlyRate: "25000",
	})
	require.NoError(t, err)
	assert.Equal(t, "LOC-2026-0001", first.ContractNo)
	assert.Equal(t, model.RentalScheduled, first.Status)
	assert.Equal(t, 12, first.DurationMonths)

	// the crane is marked rented
	assert.Equal(t, model.CraneRented, craneRepo.cranes[crane.ID].Status)

	// second rental on the same crane is rejected while the first runs
	_, err = svc.Create(ctx, "", CreateRentalRequest{
		CraneID:     crane.ID.String(),
		SiteID:      site.ID.String(),
		StartDate:   "2026-04-01",
		MonthlyRate: "25000",
	})
	assert.Error(t, err)

	// a second crane joins the same numbering sequence
	other := model.Crane{ID: uuid.New(), Name: "Liebherr 85 EC", Model: "85 EC-B 5", Status: model.CraneAvailable}
	craneRepo.cranes[other.ID] = other

	second, err := svc.Create(ctx, "", CreateRentalRequest{
		CraneID:     other.ID.String(),
		SiteID:      site.ID.String(),
		StartDate:   "2026-06-01",
		MonthlyRate: "18000",
	})
	require.NoError(t, err)
	assert.Equal(t, "LOC-2026-0002", second.ContractNo)
}

func TestCreateRentalValidation(t *testing.T) {
	svc, _, _, crane, site := newRentalFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", CreateRentalRequest{
		CraneID:     crane.ID.String(),
		SiteID:      site.ID.String(),
		StartDate:   "2026-03-01",
		EndDate:     "2026-02-01",
		MonthlyRate: "25000",
	})
	assert.Error(t, err)

	_, err = svc.Create(ctx, "", CreateRentalRequest{
		CraneID:     crane.ID.String(),
		SiteID:      site.ID.String(),
		StartDate:   "2026-03-01",
		MonthlyRate: "-10",
	})
	assert.Error(t, err)

	_, err = svc.Create(ctx, "", CreateRentalRequest{
		CraneID:     uuid.NewString(),
		SiteID:      site.ID.String(),
		StartDate:   "2026-03-01",
		MonthlyRate: "25000",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinishRentalReleasesCrane(t *testing.T) {
	svc, _, craneRepo, crane, site := newRentalFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "", CreateRentalRequest{
		CraneID:     crane.ID.String(),
		SiteID:      site.ID.String(),
		StartDate:   "2026-03-01",
		MonthlyRate: "25000",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "", created.ID, UpdateRentalRequest{Status: model.RentalFinished})
	require.NoError(t, err)
	assert.Equal(t, model.RentalFinished, updated.Status)
	assert.Equal(t, model.CraneAvailable, craneRepo.cranes[crane.ID].Status)

	// terminal states reject further transitions
	_, err = svc.Update(ctx, "", created.ID, UpdateRentalRequest{Status: model.RentalActive})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
