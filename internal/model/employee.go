package model

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeStatus enum constants
const (
	EmployeeActive     = "active"
	EmployeeOnVacation = "on_vacation"
	EmployeeInactive   = "inactive"
)

// Shift enum constants
const (
	ShiftDay   = "day"
	ShiftNight = "night"
)

// Employee is a field worker (crane operator, rigger, signaler) who clocks
// in and out through the PWA companion app.
type Employee struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string            `gorm:"type:varchar(255);not null" json:"name"`
	Position  string            `gorm:"type:varchar(100);not null" json:"position"` // crane operator, signaler, safety tech...
	Shift     string            `gorm:"type:varchar(10);not null;default:'day'" json:"shift"`
	SiteID    *uuid.UUID        `gorm:"type:uuid;index" json:"site_id"` // current site assignment, nullable
	Site      *ConstructionSite `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index" json:"user_id"` // linked PWA login, nullable
	Status    string            `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TimeEntryStatus enum constants
const (
	TimeEntryOpen     = "open"
	TimeEntryClosed   = "closed"
	TimeEntryApproved = "approved"
)

// TimeEntry records one working day of clock events for an employee.
// Coordinates are captured by the PWA when available; Address is filled by
// reverse geocoding and stays empty when the lookup fails (non-fatal).
type TimeEntry struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;index:idx_time_entries_employee_date,unique" json:"employee_id"`
	Employee   *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Date       time.Time  `gorm:"type:date;not null;index:idx_time_entries_employee_date,unique" json:"date"`
	ClockIn    *time.Time `json:"clock_in"`
	LunchOut   *time.Time `json:"lunch_out"`
	LunchIn    *time.Time `json:"lunch_in"`
	ClockOut   *time.Time `json:"clock_out"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	Address    string     `gorm:"type:text" json:"address"`
	Status     string     `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Notes      string     `gorm:"type:text" json:"notes"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
