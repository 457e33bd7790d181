package report

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gruas-backend/internal/model"
	"gruas-backend/internal/pricing"
)

// ComplementReport holds the data rendered into the contract complement PDF.
type ComplementReport struct {
	ContractNo  string
	CraneName   string
	SiteName    string
	ClientName  string
	StartDate   time.Time
	Months      int
	Items       []model.Complement
	Totals      pricing.Totals
	GeneratedAt time.Time
}

// BuildComplementHTML renders the complement report HTML document.
// Values are formatted only; all amounts arrive pre-computed.
func BuildComplementHTML(r ComplementReport) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>
body{font-family:Arial,Helvetica,sans-serif;font-size:12px;color:#222;margin:32px}
h1{font-size:20px;margin-bottom:4px}
h2{font-size:14px;margin-top:24px;border-bottom:1px solid #ccc;padding-bottom:4px}
table{width:100%;border-collapse:collapse;margin-top:8px}
th{background:#f0f0f0;text-align:left;padding:6px;border:1px solid #ddd;font-size:11px}
td{padding:6px;border:1px solid #ddd}
td.num{text-align:right}
tr.excluded td{color:#999;text-decoration:line-through}
.meta{color:#666;font-size:11px;margin-bottom:16px}
.totals td{font-weight:bold;background:#fafafa}
</style></head><body>`)

	b.WriteString("<h1>Complementos do Contrato ")
	b.WriteString(html.EscapeString(r.ContractNo))
	b.WriteString("</h1>")

	b.WriteString(`<div class="meta">`)
	writeMetaLine(&b, "Grua", r.CraneName)
	writeMetaLine(&b, "Obra", r.SiteName)
	writeMetaLine(&b, "Cliente", r.ClientName)
	writeMetaLine(&b, "Início", r.StartDate.Format("02/01/2006"))
	writeMetaLine(&b, "Duração", fmt.Sprintf("%d meses", r.Months))
	writeMetaLine(&b, "Gerado em", r.GeneratedAt.Format("02/01/2006 15:04"))
	b.WriteString("</div>")

	b.WriteString("<h2>Itens</h2><table><tr>")
	for _, h := range []string{"SKU", "Descrição", "Tipo", "Qtd", "Unid.", "Preço Unit.", "Desc. %", "Imposto %", "Valor"} {
		b.WriteString("<th>")
		b.WriteString(h)
		b.WriteString("</th>")
	}
	b.WriteString("</tr>")

	for _, it := range r.Items {
		if it.Included {
			b.WriteString("<tr>")
		} else {
			b.WriteString(`<tr class="excluded">`)
		}
		writeCell(&b, it.SKU, false)
		writeCell(&b, it.Name, false)
		writeCell(&b, pricingKindLabel(it.PricingKind), false)
		writeCell(&b, it.Quantity.String(), true)
		writeCell(&b, it.Unit, false)
		writeCell(&b, FormatBRL(unitPrice(it)), true)
		writeCell(&b, it.DiscountPercent.String(), true)
		writeCell(&b, taxLabel(it), true)
		writeCell(&b, FormatBRL(pricing.ItemValue(it)), true)
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")

	b.WriteString(`<h2>Resumo</h2><table class="totals">`)
	writeTotalRow(&b, "Total Mensal", r.Totals.Monthly)
	writeTotalRow(&b, "Total Único", r.Totals.OneTime)
	writeTotalRow(&b, "Variável Estimado", r.Totals.VariableEstimated)
	writeTotalRow(&b, fmt.Sprintf("Total do Contrato (%d meses)", r.Totals.DurationMonths), r.Totals.ContractTotal)
	b.WriteString("</table>")

	b.WriteString("</body></html>")
	return b.String()
}

func writeMetaLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString("<div><strong>")
	b.WriteString(label)
	b.WriteString(":</strong> ")
	b.WriteString(html.EscapeString(value))
	b.WriteString("</div>")
}

func writeCell(b *strings.Builder, value string, numeric bool) {
	if numeric {
		b.WriteString(`<td class="num">`)
	} else {
		b.WriteString("<td>")
	}
	b.WriteString(html.EscapeString(value))
	b.WriteString("</td>")
}

func writeTotalRow(b *strings.Builder, label string, amount decimal.Decimal) {
	b.WriteString("<tr><td>")
	b.WriteString(html.EscapeString(label))
	b.WriteString(`</td><td class="num">`)
	b.WriteString(FormatBRL(amount))
	b.WriteString("</td></tr>")
}

func unitPrice(it model.Complement) decimal.Decimal {
	if it.Factor != nil && it.PricingKind == model.PricingPerMeter {
		return *it.Factor
	}
	return decimal.NewFromInt(it.UnitPriceCents).Div(decimal.NewFromInt(100))
}

func taxLabel(it model.Complement) string {
	if !it.Taxable {
		return "isento"
	}
	return it.TaxRatePercent.String()
}

func pricingKindLabel(kind string) string {
	switch kind {
	case model.PricingMonthly:
		return "Mensal"
	case model.PricingOneTime:
		return "Único"
	case model.PricingPerMeter:
		return "Por Metro"
	case model.PricingPerHour:
		return "Por Hora"
	case model.PricingPerDay:
		return "Por Dia"
	default:
		return kind
	}
}

// FormatBRL formats a decimal amount as Brazilian currency, e.g. "R$ 1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var grouped strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, grouped.String(), fracPart)
}
