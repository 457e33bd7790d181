package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalStatus enum constants
const (
	RentalActive    = "active"
	RentalScheduled = "scheduled"
	RentalFinished  = "finished"
	RentalCancelled = "cancelled"
)

// Rental represents a time-bounded contract renting a crane to a construction site
type Rental struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ContractNo     string            `gorm:"type:varchar(30);uniqueIndex;not null" json:"contract_no"`
	CraneID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"crane_id"`
	Crane          *Crane            `gorm:"foreignKey:CraneID" json:"crane,omitempty"`
	SiteID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"site_id"`
	Site           *ConstructionSite `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	StartDate      time.Time         `gorm:"type:date;not null" json:"start_date"`
	EndDate        *time.Time        `gorm:"type:date" json:"end_date"`
	DurationMonths int               `gorm:"not null;default:12" json:"duration_months"`
	MonthlyRate    decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"monthly_rate"` // base crane fee, complements priced separately
	Status         string            `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Notes          string            `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// CraneStatus enum constants
const (
	CraneAvailable   = "available"
	CraneRented      = "rented"
	CraneMaintenance = "maintenance"
)

// Crane is a rentable tower crane or platform in the fleet
type Crane struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Model        string          `gorm:"type:varchar(100);not null" json:"model"`
	Manufacturer string          `gorm:"type:varchar(100)" json:"manufacturer"`
	CapacityTons decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"capacity_tons"`
	HeightMeters decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"height_meters"`
	Status       string          `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SiteStatus enum constants
const (
	SiteActive    = "active"
	SitePaused    = "paused"
	SiteCompleted = "completed"
)

// ConstructionSite is a client construction project where cranes are installed
type ConstructionSite struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	ClientName string     `gorm:"type:varchar(255);not null" json:"client_name"`
	Address    string     `gorm:"type:text" json:"address"`
	City       string     `gorm:"type:varchar(100)" json:"city"`
	State      string     `gorm:"type:varchar(2)" json:"state"`
	PostalCode string     `gorm:"type:varchar(10)" json:"postal_code"`
	StartDate  *time.Time `gorm:"type:date" json:"start_date"`
	EndDate    *time.Time `gorm:"type:date" json:"end_date"`
	Status     string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
