package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MeasurementStatus enum constants.
// pending -> approved -> finalized; pending or approved may be cancelled.
// Finalized and cancelled are terminal.
const (
	MeasurementPending   = "pending"
	MeasurementApproved  = "approved"
	MeasurementFinalized = "finalized"
	MeasurementCancelled = "cancelled"
)

// Measurement is the monthly billing statement for a rental: the base crane
// fee plus the complement charges measured for one billing period.
// Finalizing a measurement posts a credit on the chosen bank account.
type Measurement struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number            string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"number"`
	RentalID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"rental_id"`
	Rental            *Rental         `gorm:"foreignKey:RentalID" json:"rental,omitempty"`
	Period            string          `gorm:"type:varchar(7);not null;index" json:"period"` // YYYY-MM
	BaseAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"base_amount"`
	ComplementsAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"complements_amount"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	Status            string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes             string          `gorm:"type:text" json:"notes"`
	ApprovedBy        *uuid.UUID      `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt        *time.Time      `json:"approved_at"`
	FinalizedAt       *time.Time      `json:"finalized_at"`
	BankAccountID     *uuid.UUID      `gorm:"type:uuid" json:"bank_account_id"` // set when finalized
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
