package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingKind enum constants decide which totals bucket an item feeds
const (
	PricingMonthly  = "monthly"
	PricingOneTime  = "one_time"
	PricingPerMeter = "per_meter"
	PricingPerHour  = "per_hour"
	PricingPerDay   = "per_day"
)

// Unit enum constants (descriptive only, paired with per_* pricing kinds)
const (
	UnitMeter = "m"
	UnitHour  = "h"
	UnitPiece = "unit"
	UnitDay   = "day"
	UnitMonth = "month"
)

// Complement lifecycle status constants.
// Invoiced items are immutable: no further status transition, edit or delete.
const (
	ComplementDraft     = "draft"
	ComplementRequested = "requested"
	ComplementApproved  = "approved"
	ComplementOrdered   = "ordered"
	ComplementDelivered = "delivered"
	ComplementInvoiced  = "invoiced"
)

// Complement is an accessory or service line item attached to a crane rental,
// priced independently of the base rental fee. Unit prices are stored in
// integer cents to avoid floating point drift.
type Complement struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RentalID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"rental_id"`
	Rental          *Rental          `gorm:"foreignKey:RentalID" json:"rental,omitempty"`
	Name            string           `gorm:"type:varchar(255);not null" json:"name"`
	SKU             string           `gorm:"type:varchar(50);index" json:"sku"`
	PricingKind     string           `gorm:"type:varchar(20);not null" json:"pricing_kind"` // monthly, one_time, per_meter, per_hour, per_day
	Unit            string           `gorm:"type:varchar(10);not null" json:"unit"`         // m, h, unit, day, month
	UnitPriceCents  int64            `gorm:"not null;default:0" json:"unit_price_cents"`
	Quantity        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:1" json:"quantity"`
	Factor          *decimal.Decimal `gorm:"type:decimal(18,4)" json:"factor"` // overrides unit price for per_meter items
	Description     string           `gorm:"type:text" json:"description"`
	BillingStart    *time.Time       `gorm:"type:date" json:"billing_start"`
	BillingEnd      *time.Time       `gorm:"type:date" json:"billing_end"`
	BillingMonths   *int             `json:"billing_months"`
	Taxable         bool             `gorm:"default:true" json:"taxable"`
	TaxRatePercent  decimal.Decimal  `gorm:"type:decimal(10,4);not null;default:0" json:"tax_rate_percent"`
	DiscountPercent decimal.Decimal  `gorm:"type:decimal(10,4);not null;default:0" json:"discount_percent"`
	RuleKey         string           `gorm:"type:varchar(100)" json:"rule_key,omitempty"`
	Status          string           `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Included        bool             `gorm:"default:true" json:"included"` // excluded items stay in the list but contribute zero
	CreatedBy       *uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	UpdatedBy       *uuid.UUID       `gorm:"type:uuid" json:"updated_by"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ValidPricingKind reports whether k is one of the known pricing kinds
func ValidPricingKind(k string) bool {
	switch k {
	case PricingMonthly, PricingOneTime, PricingPerMeter, PricingPerHour, PricingPerDay:
		return true
	}
	return false
}

// ValidUnit reports whether u is one of the known units of measure
func ValidUnit(u string) bool {
	switch u {
	case UnitMeter, UnitHour, UnitPiece, UnitDay, UnitMonth:
		return true
	}
	return false
}

// ValidComplementStatus reports whether s is a known lifecycle status
func ValidComplementStatus(s string) bool {
	switch s {
	case ComplementDraft, ComplementRequested, ComplementApproved,
		ComplementOrdered, ComplementDelivered, ComplementInvoiced:
		return true
	}
	return false
}
