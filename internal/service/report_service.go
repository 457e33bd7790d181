package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gruas-backend/internal/pricing"
	"gruas-backend/internal/report"
	"gruas-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Interface ---

type ReportService interface {
	// ComplementPDF renders the complement report of a rental as PDF bytes.
	ComplementPDF(ctx context.Context, rentalID string) ([]byte, error)
	// MeasurementXLSX exports measurements matching the filters as a spreadsheet.
	MeasurementXLSX(ctx context.Context, status, rentalID, period string) ([]byte, error)
}

type reportService struct {
	rentalRepo      repository.RentalRepository
	complementRepo  repository.ComplementRepository
	measurementRepo repository.MeasurementRepository
	gotenberg       *report.GotenbergClient
}

func NewReportService(
	rentalRepo repository.RentalRepository,
	complementRepo repository.ComplementRepository,
	measurementRepo repository.MeasurementRepository,
	gotenberg *report.GotenbergClient,
) ReportService {
	return &reportService{
		rentalRepo:      rentalRepo,
		complementRepo:  complementRepo,
		measurementRepo: measurementRepo,
		gotenberg:       gotenberg,
	}
}

// --- Implementation ---

func (s *reportService) ComplementPDF(ctx context.Context, rentalID string) ([]byte, error) {
	rid, err := uuid.Parse(rentalID)
	if err != nil {
		return nil, fmt.Errorf("invalid rental id: %w", err)
	}
	rental, err := s.rentalRepo.GetByID(ctx, rid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := s.complementRepo.ListByRental(ctx, rid)
	if err != nil {
		return nil, err
	}

	data := report.ComplementReport{
		ContractNo:  rental.ContractNo,
		StartDate:   rental.StartDate,
		Months:      rental.DurationMonths,
		Items:       items,
		Totals:      pricing.Summarize(items, rental.DurationMonths),
		GeneratedAt: time.Now(),
	}
	if rental.Crane != nil {
		data.CraneName = fmt.Sprintf("%s %s", rental.Crane.Name, rental.Crane.Model)
	}
	if rental.Site != nil {
		data.SiteName = rental.Site.Name
		data.ClientName = rental.Site.ClientName
	}

	html := report.BuildComplementHTML(data)
	pdf, err := s.gotenberg.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("failed to render complement report: %w", err)
	}
	return pdf, nil
}

func (s *reportService) MeasurementXLSX(ctx context.Context, status, rentalID, period string) ([]byte, error) {
	filter := repository.MeasurementFilter{Status: status, Period: period}
	if rentalID != "" {
		parsed, err := uuid.Parse(rentalID)
		if err != nil {
			return nil, fmt.Errorf("invalid rental_id: %w", err)
		}
		filter.RentalID = &parsed
	}

	// exports are unpaginated; cap at a generous page size
	measurements, _, err := s.measurementRepo.List(ctx, 1, 10000, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch measurements: %w", err)
	}

	return report.BuildMeasurementXLSX(measurements)
}
