package pricing

import (
	"testing"

	"gruas-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyItem(priceCents int64, qty int64) model.Complement {
	return model.Complement{
		Name:            "item",
		PricingKind:     model.PricingMonthly,
		Unit:            model.UnitPiece,
		UnitPriceCents:  priceCents,
		Quantity:        decimal.NewFromInt(qty),
		TaxRatePercent:  decimal.Zero,
		DiscountPercent: decimal.Zero,
		Status:          model.ComplementDraft,
		Included:        true,
	}
}

func TestItemValue_FactorOverridesUnitPriceForPerMeter(t *testing.T) {
	f := decimal.NewFromInt(650)
	item := model.Complement{
		PricingKind:     model.PricingPerMeter,
		Unit:            model.UnitMeter,
		UnitPriceCents:  65000,
		Quantity:        decimal.NewFromInt(30),
		Factor:          &f,
		TaxRatePercent:  decimal.Zero,
		DiscountPercent: decimal.Zero,
		Included:        true,
	}

	// 650 × 30 = 19500.00, unit price ignored
	assert.True(t, ItemValue(item).Equal(decimal.NewFromInt(19500)))
}

func TestItemValue_FactorIgnoredForOtherKinds(t *testing.T) {
	f := decimal.NewFromInt(650)
	item := monthlyItem(50000, 2)
	item.Factor = &f

	// 500.00 × 2, factor only applies to per_meter
	assert.True(t, ItemValue(item).Equal(decimal.NewFromInt(1000)))
}

func TestItemValue_DiscountThenTax(t *testing.T) {
	item := monthlyItem(50000, 1)
	item.DiscountPercent = decimal.NewFromInt(10)
	item.Taxable = true
	item.TaxRatePercent = decimal.NewFromInt(18)

	// 500 × 0.90 × 1.18 = 531.00
	assert.True(t, ItemValue(item).Equal(decimal.NewFromInt(531)),
		"got %s", ItemValue(item))
}

func TestItemValue_NotTaxableSkipsTax(t *testing.T) {
	item := monthlyItem(50000, 1)
	item.Taxable = false
	item.TaxRatePercent = decimal.NewFromInt(18)

	assert.True(t, ItemValue(item).Equal(decimal.NewFromInt(500)))
}

func TestSummarize_ExcludedItemsContributeNothing(t *testing.T) {
	included := monthlyItem(50000, 1)
	excluded := monthlyItem(999999, 3)
	excluded.Included = false

	oneTimeExcluded := monthlyItem(100000, 1)
	oneTimeExcluded.PricingKind = model.PricingOneTime
	oneTimeExcluded.Included = false

	totals := Summarize([]model.Complement{included, excluded, oneTimeExcluded}, 12)

	assert.True(t, totals.Monthly.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.OneTime.IsZero())
	assert.True(t, totals.VariableEstimated.IsZero())
}

func TestSummarize_ContractTotalIdentity(t *testing.T) {
	f := decimal.NewFromInt(650)
	items := []model.Complement{
		monthlyItem(50000, 1),
		{
			PricingKind:    model.PricingOneTime,
			UnitPriceCents: 150000,
			Quantity:       decimal.NewFromInt(1),
			Included:       true,
		},
		{
			PricingKind:    model.PricingPerMeter,
			UnitPriceCents: 65000,
			Quantity:       decimal.NewFromInt(30),
			Factor:         &f,
			Included:       true,
		},
		{
			PricingKind:    model.PricingPerHour,
			UnitPriceCents: 15000,
			Quantity:       decimal.NewFromInt(8),
			Included:       true,
		},
	}

	for _, months := range []int{0, 1, 12, 36} {
		totals := Summarize(items, months)
		expected := totals.Monthly.Mul(decimal.NewFromInt(int64(months))).
			Add(totals.OneTime).
			Add(totals.VariableEstimated)
		assert.True(t, totals.ContractTotal.Equal(expected), "months=%d", months)
	}
}

func TestSummarize_VariableBucketNotMultipliedByDuration(t *testing.T) {
	item := model.Complement{
		PricingKind:    model.PricingPerDay,
		UnitPriceCents: 50000,
		Quantity:       decimal.NewFromInt(10),
		Included:       true,
	}

	t12 := Summarize([]model.Complement{item}, 12)
	t1 := Summarize([]model.Complement{item}, 1)

	// Variable items are estimates of the full contribution already
	assert.True(t, t12.VariableEstimated.Equal(t1.VariableEstimated))
	assert.True(t, t12.ContractTotal.Equal(t1.ContractTotal))
}

func TestSummarize_EmptyListYieldsZeroTotals(t *testing.T) {
	totals := Summarize(nil, 12)

	assert.True(t, totals.Monthly.IsZero())
	assert.True(t, totals.OneTime.IsZero())
	assert.True(t, totals.VariableEstimated.IsZero())
	assert.True(t, totals.ContractTotal.IsZero())
	assert.Equal(t, 12, totals.DurationMonths)
}

func TestSummarize_CatalogItemEndToEnd(t *testing.T) {
	// Garfo Paleteiro from the catalog: monthly, 500.00, qty 1, default 18% tax
	entry, ok := FindBySKU("ACESS-001")
	require.True(t, ok)

	item := Instantiate(entry, RentalContext{DurationMonths: 12})
	totals := Summarize([]model.Complement{item}, 12)

	assert.True(t, totals.Monthly.Equal(decimal.NewFromInt(590)), "got %s", totals.Monthly)
	assert.True(t, totals.ContractTotal.Equal(decimal.NewFromInt(7080)), "got %s", totals.ContractTotal)
}
