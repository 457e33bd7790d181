package pricing

import (
	"testing"
	"time"

	"gruas-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_EmptyFilterReturnsFullCatalog(t *testing.T) {
	entries := Lookup("")
	assert.Len(t, entries, len(catalog))

	entries = Lookup("   ")
	assert.Len(t, entries, len(catalog))
}

func TestLookup_IsCaseInsensitiveOverNameSKUDescription(t *testing.T) {
	byName := Lookup("garfo")
	require.Len(t, byName, 1)
	assert.Equal(t, "ACESS-001", byName[0].SKU)

	bySKU := Lookup("serv-00")
	assert.NotEmpty(t, bySKU)
	for _, e := range bySKU {
		assert.Equal(t, CatalogService, e.Kind)
	}

	byDescription := Lookup("insurance")
	require.Len(t, byDescription, 1)
	assert.Equal(t, "ACESS-012", byDescription[0].SKU)
}

func TestLookup_NoMatchReturnsEmptyNotError(t *testing.T) {
	entries := Lookup("does-not-exist-anywhere")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	entries := Lookup("")
	entries[0].Name = "mutated"

	again := Lookup("")
	assert.NotEqual(t, "mutated", again[0].Name)
}

func TestInstantiate_Defaults(t *testing.T) {
	entry, ok := FindBySKU("ACESS-005")
	require.True(t, ok)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rentalID := uuid.New()
	item := Instantiate(entry, RentalContext{
		RentalID:       rentalID,
		StartDate:      &start,
		DurationMonths: 18,
	})

	assert.Equal(t, rentalID, item.RentalID)
	assert.Equal(t, model.ComplementDraft, item.Status)
	assert.True(t, item.Included)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, item.Taxable)
	assert.True(t, item.TaxRatePercent.Equal(decimal.NewFromInt(18)))
	assert.True(t, item.DiscountPercent.IsZero())
	require.NotNil(t, item.BillingStart)
	assert.Equal(t, start, *item.BillingStart)
	require.NotNil(t, item.BillingMonths)
	assert.Equal(t, 18, *item.BillingMonths)
	require.NotNil(t, item.Factor)
	assert.True(t, item.Factor.Equal(decimal.NewFromInt(650)))
}

func TestInstantiate_FactorIsCopied(t *testing.T) {
	entry, ok := FindBySKU("SERV-003")
	require.True(t, ok)

	a := Instantiate(entry, RentalContext{})
	b := Instantiate(entry, RentalContext{})

	require.NotNil(t, a.Factor)
	require.NotNil(t, b.Factor)
	assert.NotSame(t, a.Factor, b.Factor)
}

func TestFindBySKU(t *testing.T) {
	_, ok := FindBySKU("acess-001")
	assert.True(t, ok, "SKU lookup is case-insensitive")

	_, ok = FindBySKU("NOPE-999")
	assert.False(t, ok)
}
