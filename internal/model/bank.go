package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountKind enum constants
const (
	AccountChecking   = "checking"
	AccountSavings    = "savings"
	AccountInvestment = "investment"
)

// AccountStatus enum constants
const (
	AccountActive   = "active"
	AccountInactive = "inactive"
	AccountBlocked  = "blocked"
)

// TransactionKind enum constants
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// BankAccount holds a company bank account and its running balance.
// The balance is only ever adjusted inside the same database transaction
// that records the BankTransaction.
type BankAccount struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Bank           string          `gorm:"type:varchar(100);not null" json:"bank"`
	Branch         string          `gorm:"type:varchar(10);not null" json:"branch"`
	Number         string          `gorm:"type:varchar(20);not null" json:"number"`
	Kind           string          `gorm:"type:varchar(20);not null" json:"kind"` // checking, savings, investment
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"current_balance"`
	Status         string          `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BankTransaction is a single credit or debit movement against a bank account
type BankTransaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Account     *BankAccount    `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Kind        string          `gorm:"type:varchar(10);not null;index" json:"kind"` // credit, debit
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`   // always positive; Kind carries the sign
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Reference   string          `gorm:"type:varchar(255)" json:"reference"` // e.g. measurement number
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedBy   *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}
