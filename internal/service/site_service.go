package service

import (
	"context"

	"sitetrack/internal/domain"
	"sitetrack/internal/repository"

	"go.uber.org/zap"
)

// SiteService handles site master creation and lookups.
type SiteService struct {
	sites  repository.SitesRepo
	seq    *SequenceService
	logger *zap.Logger
}

func NewSiteService(sites repository.SitesRepo, seq *SequenceService, logger *zap.Logger) *SiteService {
	return &SiteService{sites: sites, seq: seq, logger: logger}
}

type CreateSensorRequest struct {
	SensorName string `json:"sensor_name"`
	SensorType string `json:"sensor_type"`
}

type CreateLineRequest struct {
	LineName          string                `json:"line_name"`
	SPGSensorCount    int                   `json:"no_of_spg_sensors"`
	MudgunSensorCount int                   `json:"no_of_mudgun_sensors"`
	Sensors           []CreateSensorRequest `json:"sensors"`
}

type CreateSiteRequest struct {
	// SiteID, when supplied, bypasses generation entirely and is stored
	// as-is: an explicit operator escape hatch with no collision protection.
	SiteID          string              `json:"site_id"`
	CustomerName    string              `json:"customer_name"`
	Location        string              `json:"location"`
	RunnerID        string              `json:"runner_id"`
	CampaignNo      string              `json:"campaign_no"`
	RepairStatus    string              `json:"repair_status"`
	MinorRepairTier int                 `json:"minor_repair_tier"`
	ProductionLines []CreateLineRequest `json:"production_lines"`
}

// CreateSite derives the site_id (unless supplied), verifies the business
// key is unused, and persists the site with its lines and sensors in one
// transaction. The generated id is propagated onto every nested line and
// sensor before anything is written.
func (s *SiteService) CreateSite(ctx context.Context, req CreateSiteRequest) (*domain.Site, error) {
	if req.CustomerName == "" || req.Location == "" || req.RunnerID == "" {
		return nil, domain.Validationf("customer_name, location and runner_id are required")
	}

	status := domain.RepairStatus(req.RepairStatus)
	if !status.Valid() {
		return nil, domain.Validationf("invalid repair_status %q", req.RepairStatus)
	}

	siteID := req.SiteID
	if siteID == "" {
		generated, err := s.seq.GenerateSiteID(ctx, req.CustomerName, req.Location, req.RunnerID)
		if err != nil {
			return nil, err
		}

		// Stronger than the sequence scan: any existing site for this exact
		// business key is a conflict, surfaced to the caller, never retried
		// with a different suffix.
		existing, err := s.sites.FindByBusinessKey(ctx, req.CustomerName, req.Location, req.RunnerID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.Conflictf("site already exists for this combination (site_id: %s)", existing.SiteID)
		}
		siteID = generated
	}

	site := &domain.Site{
		SiteID:          siteID,
		CustomerName:    req.CustomerName,
		Location:        req.Location,
		RunnerID:        req.RunnerID,
		CampaignNo:      req.CampaignNo,
		RepairStatus:    status,
		MinorRepairTier: req.MinorRepairTier,
	}

	for _, lr := range req.ProductionLines {
		if lr.LineName == "" {
			return nil, domain.Validationf("line_name is required for every production line")
		}
		line := domain.ProductionLine{
			SiteID:            siteID,
			LineName:          lr.LineName,
			SPGSensorCount:    lr.SPGSensorCount,
			MudgunSensorCount: lr.MudgunSensorCount,
			CampaignNo:        req.CampaignNo,
			RepairStatus:      status,
			MinorRepairTier:   req.MinorRepairTier,
		}
		for _, sr := range lr.Sensors {
			typ := domain.SensorType(sr.SensorType)
			if sr.SensorName == "" || !typ.Valid() {
				return nil, domain.Validationf("sensor %q on line %q: sensor_name and a valid sensor_type (SPG or MUDGUN) are required",
					sr.SensorName, lr.LineName)
			}
			line.Sensors = append(line.Sensors, domain.Sensor{
				SiteID:     siteID,
				SensorName: sr.SensorName,
				SensorType: typ,
			})
		}
		site.ProductionLines = append(site.ProductionLines, line)
	}
	site.LineCount = len(site.ProductionLines)

	if err := s.sites.CreateSite(ctx, site); err != nil {
		return nil, err
	}

	s.logger.Info("site created",
		zap.String("site_id", site.SiteID),
		zap.String("customer_name", site.CustomerName),
		zap.Int("line_count", site.LineCount),
	)
	return site, nil
}

func (s *SiteService) GetSite(ctx context.Context, siteID string) (*domain.Site, error) {
	if siteID == "" {
		return nil, domain.Validationf("site_id is required")
	}
	site, err := s.sites.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.NotFoundf("site %s not found", siteID)
	}
	return site, nil
}

func (s *SiteService) ListSites(ctx context.Context, page, size int) ([]*domain.Site, int, error) {
	return s.sites.ListSites(ctx, page, size)
}
