package pricing

import (
	"gruas-backend/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals summarizes the complement charges of a rental, in major currency
// units. It is recomputed from scratch on every change; nothing here is
// persisted.
type Totals struct {
	Monthly           decimal.Decimal `json:"monthly_total"`
	OneTime           decimal.Decimal `json:"one_time_total"`
	VariableEstimated decimal.Decimal `json:"variable_estimated_total"`
	ContractTotal     decimal.Decimal `json:"contract_total"`
	DurationMonths    int             `json:"duration_months"`
}

// ItemValue computes the final value of a single complement item in major
// currency units:
//
//	base           = factor × quantity (per_meter items with a factor)
//	                 unit_price × quantity (everything else)
//	after_discount = base × (1 − discount/100)
//	final          = after_discount × (1 + tax_rate/100) when taxable
//
// For monthly items the value represents one billing period.
func ItemValue(item model.Complement) decimal.Decimal {
	unitPrice := decimal.NewFromInt(item.UnitPriceCents).Div(hundred)
	base := unitPrice.Mul(item.Quantity)
	if item.Factor != nil && item.PricingKind == model.PricingPerMeter {
		base = item.Factor.Mul(item.Quantity)
	}

	afterDiscount := base.Mul(hundred.Sub(item.DiscountPercent)).Div(hundred)

	if item.Taxable {
		return afterDiscount.Mul(hundred.Add(item.TaxRatePercent)).Div(hundred)
	}
	return afterDiscount
}

// Summarize rolls the included items into the three pricing buckets and the
// contract-total projection over durationMonths. Excluded items contribute
// zero everywhere. Variable items already carry their estimated total
// contribution and are not multiplied by the duration.
func Summarize(items []model.Complement, durationMonths int) Totals {
	t := Totals{
		Monthly:           decimal.Zero,
		OneTime:           decimal.Zero,
		VariableEstimated: decimal.Zero,
		DurationMonths:    durationMonths,
	}

	for _, item := range items {
		if !item.Included {
			continue
		}
		value := ItemValue(item)
		switch item.PricingKind {
		case model.PricingMonthly:
			t.Monthly = t.Monthly.Add(value)
		case model.PricingOneTime:
			t.OneTime = t.OneTime.Add(value)
		case model.PricingPerMeter, model.PricingPerHour, model.PricingPerDay:
			t.VariableEstimated = t.VariableEstimated.Add(value)
		}
	}

	months := decimal.NewFromInt(int64(durationMonths))
	t.ContractTotal = t.Monthly.Mul(months).Add(t.OneTime).Add(t.VariableEstimated)
	return t
}
