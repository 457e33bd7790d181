package pricing

import (
	"strings"
	"time"

	"gruas-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogKind enum constants
const (
	CatalogAccessory = "accessory"
	CatalogService   = "service"
)

// DefaultTaxRatePercent is applied to items instantiated from the catalog
var DefaultTaxRatePercent = decimal.NewFromInt(18)

// CatalogEntry is a fixed reference item that can be attached to a rental
// as a complement. Prices are stored in integer cents.
type CatalogEntry struct {
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Kind           string           `json:"kind"` // accessory, service
	PricingKind    string           `json:"pricing_kind"`
	Unit           string           `json:"unit"`
	UnitPriceCents int64            `json:"unit_price_cents"`
	Factor         *decimal.Decimal `json:"factor,omitempty"`
	Description    string           `json:"description"`
	RuleKey        string           `json:"rule_key,omitempty"`
}

// RentalContext carries the rental fields that seed a new complement item
type RentalContext struct {
	RentalID       uuid.UUID
	StartDate      *time.Time
	DurationMonths int
}

func factor(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// catalog is the fixed in-memory reference list of accessories and services.
// SKUs and prices mirror the commercial price table.
var catalog = []CatalogEntry{
	// Accessories
	{SKU: "ACESS-001", Name: "Garfo Paleteiro", Kind: CatalogAccessory, PricingKind: model.PricingMonthly, Unit: model.UnitPiece, UnitPriceCents: 50000, Description: "Pallet fork for material handling"},
	{SKU: "ACESS-002", Name: "Balde de Concreto", Kind: CatalogAccessory, PricingKind: model.PricingMonthly, Unit: model.UnitPiece, UnitPriceCents: 30000, Description: "Concrete bucket"},
	{SKU: "ACESS-003", Name: "Caçamba de Entulho", Kind: CatalogAccessory, PricingKind: model.PricingMonthly, Unit: model.UnitPiece, UnitPriceCents: 40000, Description: "Debris skip"},
	{SKU: "ACESS-004", Name: "Plataforma de Descarga", Kind: CatalogAccessory, PricingKind: model.PricingMonthly, Unit: model.UnitPiece, UnitPriceCents: 60000, Description: "Unloading platform for upper floors"},
	{SKU: "ACESS-005", Name: "Estaiamentos", Kind: CatalogAccessory, PricingKind: model.PricingPerMeter, Unit: model.UnitMeter, UnitPriceCents: 65000, Factor: factor(650), Description: "Lateral tie-ins anchoring the crane mast", RuleKey: "tie_in_per_height"},
	{SKU: "ACESS-006", Name: "Chumbadores/Base de Fundação", Kind: CatalogAccessory, PricingKind: model.PricingOneTime, Unit: model.UnitPiece, UnitPriceCents: 150000, Description: "Anchor bolts cast into the crane footing"},
	{SKU: "ACESS-007", Name: "Auto-transformador (Energia)", Kind: CatalogAccessory, PricingKind: model.PricingMonthly, Unit: model.UnitPiece, UnitPriceCents: 80000, Description: "220/380V electrical adaptation", RuleKey: "autotransformer_if_no_380v"},
	{SKU: "ACESS-008", Name: "Plano de Rigging / ART de Engenheiro", Kind: CatalogAccessory, PricingKind: model.PricingOneTime, Unit: model.UnitPiece, UnitPriceCents: 500000, Description: "Engineering plan and civil liability filing"},
	{SKU: "ACESS-012", Name: "Seguro RC / Roubo", Kind: CatalogAccessory, PricingKind: model.PricingMonthly, Unit: model.UnitPiece, UnitPriceCents: 120000, Description: "Liability and theft insurance"},

	// Services
	{SKU: "SERV-001", Name: "Serviço de Montagem", Kind: CatalogService, PricingKind: model.PricingPerHour, Unit: model.UnitHour, UnitPriceCents: 15000, Description: "Crane assembly labor"},
	{SKU: "SERV-002", Name: "Serviço de Desmontagem", Kind: CatalogService, PricingKind: model.PricingPerHour, Unit: model.UnitHour, UnitPriceCents: 15000, Description: "Crane disassembly labor"},
	{SKU: "SERV-003", Name: "Ascensão da Torre", Kind: CatalogService, PricingKind: model.PricingPerMeter, Unit: model.UnitMeter, UnitPriceCents: 65000, Factor: factor(650), Description: "Tower climbing as the building rises"},
	{SKU: "SERV-004", Name: "Transporte de Ida e Retorno", Kind: CatalogService, PricingKind: model.PricingOneTime, Unit: model.UnitPiece, UnitPriceCents: 300000, Description: "Haulage to the site and back to the yard"},
	{SKU: "SERV-005", Name: "Serviço de Operador", Kind: CatalogService, PricingKind: model.PricingMonthly, Unit: model.UnitPiece, UnitPriceCents: 800000, Description: "Monthly crane operator"},
	{SKU: "SERV-006", Name: "Serviço de Sinaleiro", Kind: CatalogService, PricingKind: model.PricingMonthly, Unit: model.UnitPiece, UnitPriceCents: 600000, Description: "Monthly signaler"},
	{SKU: "SERV-007", Name: "Serviço de Manutenção Preventiva", Kind: CatalogService, PricingKind: model.PricingMonthly, Unit: model.UnitPiece, UnitPriceCents: 200000, Description: "Monthly preventive maintenance"},
	{SKU: "SERV-008", Name: "Serviço de Manutenção Corretiva", Kind: CatalogService, PricingKind: model.PricingPerHour, Unit: model.UnitHour, UnitPriceCents: 20000, Description: "Corrective maintenance, billed hourly"},
	{SKU: "SERV-009", Name: "Serviço de Técnico de Segurança", Kind: CatalogService, PricingKind: model.PricingPerDay, Unit: model.UnitDay, UnitPriceCents: 50000, Description: "Safety technician (NR-18)"},
	{SKU: "SERV-010", Name: "Consultoria Técnica", Kind: CatalogService, PricingKind: model.PricingPerHour, Unit: model.UnitHour, UnitPriceCents: 25000, Description: "Specialized technical consulting"},
	{SKU: "SERV-011", Name: "Treinamento de Operadores", Kind: CatalogService, PricingKind: model.PricingOneTime, Unit: model.UnitPiece, UnitPriceCents: 150000, Description: "Operator training and certification"},
	{SKU: "SERV-012", Name: "Inspeção Técnica", Kind: CatalogService, PricingKind: model.PricingOneTime, Unit: model.UnitPiece, UnitPriceCents: 80000, Description: "Periodic technical inspection"},
}

// Lookup filters the catalog by case-insensitive substring match over name,
// SKU and description. An empty filter returns the full catalog; a filter
// matching nothing returns an empty slice.
func Lookup(filter string) []CatalogEntry {
	needle := strings.ToLower(strings.TrimSpace(filter))
	if needle == "" {
		out := make([]CatalogEntry, len(catalog))
		copy(out, catalog)
		return out
	}

	out := make([]CatalogEntry, 0, len(catalog))
	for _, e := range catalog {
		if strings.Contains(strings.ToLower(e.Name), needle) ||
			strings.Contains(strings.ToLower(e.SKU), needle) ||
			strings.Contains(strings.ToLower(e.Description), needle) {
			out = append(out, e)
		}
	}
	return out
}

// FindBySKU returns the catalog entry with the given SKU, or false
func FindBySKU(sku string) (CatalogEntry, bool) {
	for _, e := range catalog {
		if strings.EqualFold(e.SKU, sku) {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// Instantiate builds a new draft complement item from a catalog entry,
// seeded with the rental's billing window. Defaults: quantity 1, included,
// 18% tax, no discount.
func Instantiate(entry CatalogEntry, rental RentalContext) model.Complement {
	item := model.Complement{
		RentalID:        rental.RentalID,
		Name:            entry.Name,
		SKU:             entry.SKU,
		PricingKind:     entry.PricingKind,
		Unit:            entry.Unit,
		UnitPriceCents:  entry.UnitPriceCents,
		Quantity:        decimal.NewFromInt(1),
		Description:     entry.Description,
		RuleKey:         entry.RuleKey,
		Taxable:         true,
		TaxRatePercent:  DefaultTaxRatePercent,
		DiscountPercent: decimal.Zero,
		Status:          model.ComplementDraft,
		Included:        true,
	}
	if entry.Factor != nil {
		f := *entry.Factor
		item.Factor = &f
	}
	if rental.StartDate != nil {
		start := *rental.StartDate
		item.BillingStart = &start
	}
	if rental.DurationMonths > 0 {
		months := rental.DurationMonths
		item.BillingMonths = &months
	}
	return item
}
