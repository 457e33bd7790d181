package service

import (
	"context"
	"time"

	"gruas-backend/internal/model"
	"gruas-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes backing the service tests. They mimic the repository
// contract, including gorm.ErrRecordNotFound on misses.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, page, limit int, action string) ([]model.AuditLog, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

type fakeComplementRepo struct {
	items map[uuid.UUID]model.Complement
}

func newFakeComplementRepo() *fakeComplementRepo {
	return &fakeComplementRepo{items: make(map[uuid.UUID]model.Complement)}
}

func (f *fakeComplementRepo) Create(ctx context.Context, item *model.Complement) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	f.items[item.ID] = *item
	return nil
}

func (f *fakeComplementRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Complement, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := item
	return &out, nil
}

func (f *fakeComplementRepo) ListByRental(ctx context.Context, rentalID uuid.UUID) ([]model.Complement, error) {
	var out []model.Complement
	for _, item := range f.items {
		if item.RentalID == rentalID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeComplementRepo) Update(ctx context.Context, item *model.Complement) error {
	if _, ok := f.items[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeComplementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

type fakeRentalRepo struct {
	rentals map[uuid.UUID]model.Rental
}

func newFakeRentalRepo() *fakeRentalRepo {
	return &fakeRentalRepo{rentals: make(map[uuid.UUID]model.Rental)}
}

func (f *fakeRentalRepo) Create(ctx context.Context, rental *model.Rental) error {
	if rental.ID == uuid.Nil {
		rental.ID = uuid.New()
	}
	f.rentals[rental.ID] = *rental
	return nil
}

func (f *fakeRentalRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	rental, ok := f.rentals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := rental
	return &out, nil
}

func (f *fakeRentalRepo) List(ctx context.Context, page, limit int, status, search string) ([]model.Rental, int64, error) {
	var out []model.Rental
	for _, r := range f.rentals {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRentalRepo) Update(ctx context.Context, rental *model.Rental) error {
	f.rentals[rental.ID] = *rental
	return nil
}

func (f *fakeRentalRepo) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	for _, r := range f.rentals {
		if r.StartDate.Year() == year {
			count++
		}
	}
	return count, nil
}

type fakeCraneRepo struct {
	cranes map[uuid.UUID]model.Crane
}

func newFakeCraneRepo() *fakeCraneRepo {
	return &fakeCraneRepo{cranes: make(map[uuid.UUID]model.Crane)}
}

func (f *fakeCraneRepo) Create(ctx context.Context, crane *model.Crane) error {
	if crane.ID == uuid.Nil {
		crane.ID = uuid.New()
	}
	f.cranes[crane.ID] = *crane
	return nil
}

func (f *fakeCraneRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Crane, error) {
	crane, ok := f.cranes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := crane
	return &out, nil
}

func (f *fakeCraneRepo) List(ctx context.Context, page, limit int, status, search string) ([]model.Crane, int64, error) {
	var out []model.Crane
	for _, c := range f.cranes {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCraneRepo) Update(ctx context.Context, crane *model.Crane) error {
	f.cranes[crane.ID] = *crane
	return nil
}

func (f *fakeCraneRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.cranes, id)
	return nil
}

type fakeSiteRepo struct {
	sites map[uuid.UUID]model.ConstructionSite
}

func newFakeSiteRepo() *fakeSiteRepo {
	return &fakeSiteRepo{sites: make(map[uuid.UUID]model.ConstructionSite)}
}

func (f *fakeSiteRepo) Create(ctx context.Context, site *model.ConstructionSite) error {
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	f.sites[site.ID] = *site
	return nil
}

func (f *fakeSiteRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.ConstructionSite, error) {
	site, ok := f.sites[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := site
	return &out, nil
}

func (f *fakeSiteRepo) List(ctx context.Context, page, limit int, status, search string) ([]model.ConstructionSite, int64, error) {
	var out []model.ConstructionSite
	for _, s := range f.sites {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSiteRepo) Update(ctx context.Context, site *model.ConstructionSite) error {
	f.sites[site.ID] = *site
	return nil
}

func (f *fakeSiteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.sites, id)
	return nil
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]model.BankAccount
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]model.BankAccount)}
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *model.BankAccount) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.accounts[account.ID] = *account
	return nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := account
	return &out, nil
}

func (f *fakeAccountRepo) List(ctx context.Context, page, limit int, status string) ([]model.BankAccount, int64, error) {
	var out []model.BankAccount
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, account *model.BankAccount) error {
	f.accounts[account.ID] = *account
	return nil
}

func (f *fakeAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.accounts, id)
	return nil
}

func (f *fakeAccountRepo) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	account, ok := f.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	account.CurrentBalance = account.CurrentBalance.Add(delta)
	f.accounts[id] = account
	return nil
}

type fakeTxnRepo struct {
	txns []model.BankTransaction
}

func (f *fakeTxnRepo) Create(ctx context.Context, txn *model.BankTransaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	f.txns = append(f.txns, *txn)
	return nil
}

func (f *fakeTxnRepo) List(ctx context.Context, page, limit int, filter repository.TransactionFilter) ([]model.BankTransaction, int64, error) {
	return f.txns, int64(len(f.txns)), nil
}

type fakeMeasurementRepo struct {
	measurements map[uuid.UUID]model.Measurement
}

func newFakeMeasurementRepo() *fakeMeasurementRepo {
	return &fakeMeasurementRepo{measurements: make(map[uuid.UUID]model.Measurement)}
}

func (f *fakeMeasurementRepo) Create(ctx context.Context, m *model.Measurement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	f.measurements[m.ID] = *m
	return nil
}

func (f *fakeMeasurementRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Measurement, error) {
	m, ok := f.measurements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := m
	return &out, nil
}

func (f *fakeMeasurementRepo) List(ctx context.Context, page, limit int, filter repository.MeasurementFilter) ([]model.Measurement, int64, error) {
	var out []model.Measurement
	for _, m := range f.measurements {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMeasurementRepo) Update(ctx context.Context, m *model.Measurement) error {
	if _, ok := f.measurements[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.measurements[m.ID] = *m
	return nil
}

func (f *fakeMeasurementRepo) CountByPeriod(ctx context.Context, period string) (int64, error) {
	var count int64
	for _, m := range f.measurements {
		if m.Period == period {
			count++
		}
	}
	return count, nil
}

func (f *fakeMeasurementRepo) ExistsForRentalAndPeriod(ctx context.Context, rentalID uuid.UUID, period string) (bool, error) {
	for _, m := range f.measurements {
		if m.RentalID == rentalID && m.Period == period && m.Status != model.MeasurementCancelled {
			return true, nil
		}
	}
	return false, nil
}
