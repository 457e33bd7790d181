package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gruas-backend/internal/geocoding"
	"gruas-backend/internal/model"
	"gruas-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type SiteRequest struct {
	Name       string `json:"name" binding:"required"`
	ClientName string `json:"client_name" binding:"required"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`
	Status     string `json:"status" binding:"omitempty,oneof=active paused completed"`
}

type SiteResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ClientName string  `json:"client_name"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
}

// --- Interface ---

type SiteService interface {
	Create(ctx context.Context, req SiteRequest) (*SiteResponse, error)
	GetByID(ctx context.Context, id string) (*SiteResponse, error)
	List(ctx context.Context, page, limit int, status, search string) ([]SiteResponse, int64, error)
	Update(ctx context.Context, id string, req SiteRequest) (*SiteResponse, error)
	Delete(ctx context.Context, id string) error
}

type siteService struct {
	siteRepo repository.SiteRepository
	geocoder *geocoding.Client
}

func NewSiteService(siteRepo repository.SiteRepository, geocoder *geocoding.Client) SiteService {
	return &siteService{siteRepo: siteRepo, geocoder: geocoder}
}

// --- Implementation ---

func (s *siteService) Create(ctx context.Context, req SiteRequest) (*SiteResponse, error) {
	site := model.ConstructionSite{
		Name:       req.Name,
		ClientName: req.ClientName,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Status:     model.SiteActive,
	}
	if req.Status != "" {
		site.Status = req.Status
	}
	if err := applySiteDates(&site, req); err != nil {
		return nil, err
	}
	s.fillAddressFromPostalCode(ctx, &site)

	if err := s.siteRepo.Create(ctx, &site); err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}
	out := toSiteResponse(site)
	return &out, nil
}

func (s *siteService) GetByID(ctx context.Context, id string) (*SiteResponse, error) {
	site, err := s.getSite(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toSiteResponse(*site)
	return &out, nil
}

func (s *siteService) List(ctx context.Context, page, limit int, status, search string) ([]SiteResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	sites, total, err := s.siteRepo.List(ctx, page, limit, status, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sites: %w", err)
	}

	result := make([]SiteResponse, 0, len(sites))
	for _, site := range sites {
		result = append(result, toSiteResponse(site))
	}
	return result, total, nil
}

func (s *siteService) Update(ctx context.Context, id string, req SiteRequest) (*SiteResponse, error) {
	site, err := s.getSite(ctx, id)
	if err != nil {
		return nil, err
	}

	site.Name = req.Name
	site.ClientName = req.ClientName
	site.Address = req.Address
	site.City = req.City
	site.State = req.State
	site.PostalCode = req.PostalCode
	if req.Status != "" {
		site.Status = req.Status
	}
	if err := applySiteDates(site, req); err != nil {
		return nil, err
	}
	s.fillAddressFromPostalCode(ctx, site)

	if err := s.siteRepo.Update(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to update site: %w", err)
	}
	out := toSiteResponse(*site)
	return &out, nil
}

func (s *siteService) Delete(ctx context.Context, id string) error {
	site, err := s.getSite(ctx, id)
	if err != nil {
		return err
	}
	return s.siteRepo.Delete(ctx, site.ID)
}

// --- Helpers ---

func (s *siteService) getSite(ctx context.Context, id string) (*model.ConstructionSite, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid site id: %w", err)
	}
	site, err := s.siteRepo.GetByID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return site, nil
}

// fillAddressFromPostalCode completes missing address fields via ViaCEP.
// Lookup failures are logged and ignored; the typed values always win.
func (s *siteService) fillAddressFromPostalCode(ctx context.Context, site *model.ConstructionSite) {
	if s.geocoder == nil || site.PostalCode == "" {
		return
	}
	if site.Address != "" && site.City != "" && site.State != "" {
		return
	}

	result, err := s.geocoder.LookupPostalCode(ctx, site.PostalCode)
	if err != nil {
		log.Printf("postal code lookup failed for %s: %v", site.PostalCode, err)
		return
	}
	if site.Address == "" {
		site.Address = result.Street
	}
	if site.City == "" {
		site.City = result.City
	}
	if site.State == "" {
		site.State = result.State
	}
}

func applySiteDates(site *model.ConstructionSite, req SiteRequest) error {
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return fmt.Errorf("invalid start_date: %w", err)
		}
		site.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return fmt.Errorf("invalid end_date: %w", err)
		}
		site.EndDate = &end
	}
	return nil
}

func toSiteResponse(site model.ConstructionSite) SiteResponse {
	resp := SiteResponse{
		ID:         site.ID.String(),
		Name:       site.Name,
		ClientName: site.ClientName,
		Address:    site.Address,
		City:       site.City,
		State:      site.State,
		PostalCode: site.PostalCode,
		Status:     site.Status,
		CreatedAt:  site.CreatedAt.Format(time.RFC3339),
	}
	if site.StartDate != nil {
		d := site.StartDate.Format("2006-01-02")
		resp.StartDate = &d
	}
	if site.EndDate != nil {
		d := site.EndDate.Format("2006-01-02")
		resp.EndDate = &d
	}
	return resp
}
