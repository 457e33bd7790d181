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

type measurementFixture struct {
	svc             MeasurementService
	measurementRepo *fakeMeasurementRepo
	complementRepo  *fakeComplementRepo
	accountRepo     *fakeAccountRepo
	txnRepo         *fakeTxnRepo
	rental          model.Rental
	account         model.BankAccount
}

func newMeasurementFixture(t *testing.T) *measurementFixture {
	t.Helper()

	measurementRepo := newFakeMeasurementRepo()
	rentalRepo := newFakeRentalRepo()
	complementRepo := newFakeComplementRepo()
	accountRepo := newFakeAccountRepo()
	txnRepo := &fakeTxnRepo{}
	auditRepo := &fakeAuditRepo{}
	hub := websocket.NewHub()

	rental := model.Rental{
		ID:             uuid.New(),
		ContractNo:     "LOC-2026-0003",
		CraneID:        uuid.New(),
		SiteID:         uuid.New(),
		StartDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DurationMonths: 12,
		MonthlyRate:    decimal.NewFromInt(25000),
		Status:         model.RentalActive,
	}
	rentalRepo.rentals[rental.ID] = rental

	account := model.BankAccount{
		ID:             uuid.New(),
		Bank:           "Banco do Brasil",
		Branch:         "1234",
		Number:         "56789-0",
		Kind:           model.AccountChecking,
		CurrentBalance: decimal.NewFromInt(1000),
		Status:         model.AccountActive,
	}
	accountRepo.accounts[account.ID] = account

	svc := NewMeasurementService(
		measurementRepo, rentalRepo, complementRepo,
		accountRepo, txnRepo, auditRepo,
		&fakeTxManager{}, hub,
	)
	return &measurementFixture{
		svc:             svc,
		measurementRepo: measurementRepo,
		complementRepo:  complementRepo,
		accountRepo:     accountRepo,
		txnRepo:         txnRepo,
		rental:          rental,
		account:         account,
	}
}

func TestCreateMeasurementSnapshotsAmounts(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	item := model.Complement{
		ID:             uuid.New(),
		RentalID:       f.rental.ID,
		Name:           "Garfo Paleteiro",
		PricingKind:    model.PricingMonthly,
		Unit:           model.UnitPiece,
		UnitPriceCents: 50000,
		Quantity:       decimal.NewFromInt(1),
		Taxable:        true,
		TaxRatePercent: decimal.NewFromInt(18),
		Included:       true,
	}
	f.complementRepo.items[item.ID] = item

	resp, err := f.svc.Create(ctx, "", CreateMeasurementRequest{
		RentalID: f.rental.ID.String(),
		Period:   "2026-03",
	})
	require.NoError(t, err)

	assert.Equal(t, "MED-202603-001", resp.Number)
	assert.Equal(t, model.MeasurementPending, resp.Status)
	assert.Equal(t, "25000.00", resp.BaseAmount)
	assert.Equal(t, "590.00", resp.ComplementsAmount)
	assert.Equal(t, "25590.00", resp.TotalAmount)
}

func TestCreateMeasurementRejectsDuplicatePeriod(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "", CreateMeasurementRequest{RentalID: f.rental.ID.String(), Period: "2026-04"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, "", CreateMeasurementRequest{RentalID: f.rental.ID.String(), Period: "2026-04"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateMeasurementRejectsBadPeriod(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	for _, period := range []string{"2026-13", "2026/03", "26-03", "2026-3", ""} {
		_, err := f.svc.Create(ctx, "", CreateMeasurementRequest{RentalID: f.rental.ID.String(), Period: period})
		assert.Error(t, err, "period %q", period)
	}
}

func TestMeasurementLifecyclePostsBankCredit(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "", CreateMeasurementRequest{RentalID: f.rental.ID.String(), Period: "2026-05"})
	require.NoError(t, err)

	// finalize straight from pending is rejected
	_, err = f.svc.Finalize(ctx, "", created.ID, FinalizeMeasurementRequest{BankAccountID: f.account.ID.String()})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	approved, err := f.svc.Approve(ctx, uuid.NewString(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MeasurementApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)

	// approving twice is rejected
	_, err = f.svc.Approve(ctx, "", created.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	finalized, err := f.svc.Finalize(ctx, "", created.ID, FinalizeMeasurementRequest{BankAccountID: f.account.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, model.MeasurementFinalized, finalized.Status)
	require.NotNil(t, finalized.BankAccountID)

	// a credit transaction was recorded and the balance moved by the total
	require.Len(t, f.txnRepo.txns, 1)
	txn := f.txnRepo.txns[0]
	assert.Equal(t, model.TransactionCredit, txn.Kind)
	assert.Equal(t, "25000", txn.Amount.String())
	assert.Equal(t, finalized.Number, txn.Reference)

	balance := f.accountRepo.accounts[f.account.ID].CurrentBalance
	assert.Equal(t, "26000", balance.String())

	// finalized is terminal
	_, err = f.svc.Cancel(ctx, "", created.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelMeasurementFreesPeriod(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "", CreateMeasurementRequest{RentalID: f.rental.ID.String(), Period: "2026-06"})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, "", created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MeasurementCancelled, cancelled.Status)

	// a cancelled measurement no longer blocks the period
	_, err = f.svc.Create(ctx, "", CreateMeasurementRequest{RentalID: f.rental.ID.String(), Period: "2026-06"})
	assert.NoError(t, err)
}
