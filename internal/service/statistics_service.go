package service

import (
	"context"
	"time"

	"gruas-backend/internal/model"

	"gorm.io/gorm"
)

// --- DTOs ---

type RentalRanking struct {
	RentalID   string  `json:"rental_id" gorm:"column:rental_id"`
	ContractNo string  `json:"contract_no" gorm:"column:contract_no"`
	SiteName   string  `json:"site_name" gorm:"column:site_name"`
	TotalValue float64 `json:"total_value" gorm:"column:total_value"`
}

type StatisticsResponse struct {
	TimeRangeStartDate  time.Time       `json:"time_range_start_date"`
	TimeRangeEndDate    time.Time       `json:"time_range_end_date"`
	CranesTotal         int64           `json:"cranes_total"`
	CranesRented        int64           `json:"cranes_rented"`
	CranesAvailable     int64           `json:"cranes_available"`
	ActiveRentals       int64           `json:"active_rentals"`
	PendingMeasurements int64           `json:"pending_measurements"`
	RevenueFinalized    float64         `json:"revenue_finalized"`
	BankBalanceTotal    float64         `json:"bank_balance_total"`
	TopRentalsByRevenue []RentalRanking `json:"top_rentals_by_revenue"`
}

// --- Interface ---

type StatisticsService interface {
	GetStatistics(ctx context.Context, startDate, endDate time.Time) (StatisticsResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetStatistics aggregates the dashboard indicators for the given time range.
// Fleet and balance figures are current-state; revenue figures are bounded by
// the range.
func (s *statisticsService) GetStatistics(ctx context.Context, startDate, endDate time.Time) (StatisticsResponse, error) {
	var response StatisticsResponse
	response.TimeRangeStartDate = startDate
	response.TimeRangeEndDate = endDate

	// Fleet counts
	s.db.WithContext(ctx).Model(&model.Crane{}).Count(&response.CranesTotal)
	s.db.WithContext(ctx).Model(&model.Crane{}).
		Where("status = ?", model.CraneRented).Count(&response.CranesRented)
	s.db.WithContext(ctx).Model(&model.Crane{}).
		Where("status = ?", model.CraneAvailable).Count(&response.CranesAvailable)

	// Contract counts
	s.db.WithContext(ctx).Model(&model.Rental{}).
		Where("status = ?", model.RentalActive).Count(&response.ActiveRentals)
	s.db.WithContext(ctx).Model(&model.Measurement{}).
		Where("status = ?", model.MeasurementPending).Count(&response.PendingMeasurements)

	// Revenue from finalized measurements in the period
	var revenue struct {
		Value float64
	}
	s.db.WithContext(ctx).Table("measurements").
		Select("COALESCE(SUM(total_amount), 0) as value").
		Where("status = ? AND finalized_at >= ? AND finalized_at <= ?", model.MeasurementFinalized, startDate, endDate).
		Scan(&revenue)
	response.RevenueFinalized = revenue.Value

	// Consolidated balance across active accounts
	var balance struct {
		Value float64
	}
	s.db.WithContext(ctx).Table("bank_accounts").
		Select("COALESCE(SUM(current_balance), 0) as value").
		Where("status = ?", model.AccountActive).
		Scan(&balance)
	response.BankBalanceTotal = balance.Value

	// Top rentals by finalized revenue
	var topRentals []RentalRanking
	s.db.WithContext(ctx).Table("measurements").
		Select("rentals.id as rental_id, rentals.contract_no as contract_no, construction_sites.name as site_name, SUM(measurements.total_amount) as total_value").
		Joins("JOIN rentals ON rentals.id = measurements.rental_id").
		Joins("JOIN construction_sites ON construction_sites.id = rentals.site_id").
		Where("measurements.status = ? AND measurements.finalized_at >= ? AND measurements.finalized_at <= ?", model.MeasurementFinalized, startDate, endDate).
		Group("rentals.id, rentals.contract_no, construction_sites.name").
		Order("total_value DESC").
		Limit(5).
		Scan(&topRentals)
	response.TopRentalsByRevenue = topRentals

	return response, nil
}
