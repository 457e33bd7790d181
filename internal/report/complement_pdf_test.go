package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gruas-backend/internal/model"
	"gruas-backend/internal/pricing"
)

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 590,00", FormatBRL(decimal.NewFromInt(590)))
	assert.Equal(t, "R$ 1.234,56", FormatBRL(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "R$ 1.000.000,00", FormatBRL(decimal.NewFromInt(1000000)))
	assert.Equal(t, "R$ 0,50", FormatBRL(decimal.RequireFromString("0.5")))
	assert.Equal(t, "-R$ 12,30", FormatBRL(decimal.RequireFromString("-12.3")))
}

func TestBuildComplementHTML(t *testing.T) {
	factor := decimal.NewFromInt(650)
	items := []model.Complement{
		{
			Name:           "Garfo Paleteiro",
			SKU:            "ACESS-001",
			PricingKind:    model.PricingMonthly,
			Unit:           model.UnitMonth,
			UnitPriceCents: 50000,
			Quantity:       decimal.NewFromInt(1),
			Taxable:        true,
			TaxRatePercent: decimal.NewFromInt(18),
			Included:       true,
		},
		{
			Name:           "Estaiamentos & Ancoragens",
			SKU:            "ACESS-012",
			PricingKind:    model.PricingPerMeter,
			Unit:           model.UnitMeter,
			UnitPriceCents: 65000,
			Factor:         &factor,
			Quantity:       decimal.NewFromInt(30),
			Taxable:        true,
			TaxRatePercent: decimal.NewFromInt(18),
			Included:       false,
		},
	}

	r := ComplementReport{
		ContractNo:  "LOC-2026-0001",
		CraneName:   "Potain MDT 219",
		SiteName:    "Obra Central",
		ClientName:  "Construtora <Alfa>",
		StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Months:      12,
		Items:       items,
		Totals:      pricing.Summarize(items, 12),
		GeneratedAt: time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC),
	}

	out := BuildComplementHTML(r)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "LOC-2026-0001")
	assert.Contains(t, out, "Potain MDT 219")
	// client name must be escaped
	assert.Contains(t, out, "Construtora &lt;Alfa&gt;")
	assert.NotContains(t, out, "<Alfa>")

	// monthly item 500.00 with 18% tax => 590.00
	assert.Contains(t, out, "R$ 590,00")
	// excluded row is marked but still listed
	assert.Contains(t, out, `class="excluded"`)
	assert.Contains(t, out, "ACESS-012")
	// per_meter row shows the factor price, not the cents price
	assert.Contains(t, out, "R$ 650,00")

	// totals block
	assert.Contains(t, out, "Total do Contrato (12 meses)")
	assert.Contains(t, out, "R$ 7.080,00")
}

func TestBuildComplementHTMLEmptyItems(t *testing.T) {
	r := ComplementReport{
		ContractNo:  "LOC-2026-0002",
		StartDate:   time.Now(),
		Months:      6,
		Totals:      pricing.Summarize(nil, 6),
		GeneratedAt: time.Now(),
	}
	out := BuildComplementHTML(r)
	require.Contains(t, out, "LOC-2026-0002")
	assert.Contains(t, out, "R$ 0,00")
}
