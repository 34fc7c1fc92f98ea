package service

import (
	"context"

	"sitetrack/internal/domain"
	"sitetrack/internal/repository"

	"go.uber.org/zap"
)

// CampaignService owns the repair-campaign lifecycle: campaign issuance,
// the per-line repair state machine, and the lookup-and-decide helper.
type CampaignService struct {
	campaigns repository.CampaignsRepo
	sites     repository.SitesRepo
	seq       *SequenceService
	logger    *zap.Logger
}

func NewCampaignService(campaigns repository.CampaignsRepo, sites repository.SitesRepo, seq *SequenceService, logger *zap.Logger) *CampaignService {
	return &CampaignService{campaigns: campaigns, sites: sites, seq: seq, logger: logger}
}

type CreateCampaignRequest struct {
	// CampaignNo, when supplied, bypasses generation (same escape hatch as
	// manual site ids).
	CampaignNo      string `json:"campaign_no"`
	CustomerName    string `json:"customer_name"`
	Location        string `json:"location"`
	RunnerID        string `json:"runner_id"`
	LineName        string `json:"line_name"`
	SiteID          string `json:"site_id"`
	RepairStatus    string `json:"repair_status"`
	MinorRepairTier int    `json:"minor_repair_tier"`
}

// CreateCampaign generates (or accepts) a campaign number and persists it.
// A duplicate number is a conflict, surfaced as-is: retrying with a
// different suffix would mask true duplicate-key bugs.
func (s *CampaignService) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*domain.Campaign, error) {
	if req.CustomerName == "" || req.Location == "" || req.RunnerID == "" {
		return nil, domain.Validationf("customer_name, location and runner_id are required")
	}

	campaignNo := req.CampaignNo
	if campaignNo == "" {
		generated, err := s.seq.GenerateCampaignNo(ctx, req.CustomerName, req.Location, req.RunnerID, req.LineName)
		if err != nil {
			return nil, err
		}
		exists, err := s.campaigns.Exists(ctx, generated)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.Conflictf("campaign %s already exists", generated)
		}
		campaignNo = generated
	}

	c := &domain.Campaign{
		CampaignNo:      campaignNo,
		CustomerName:    req.CustomerName,
		Location:        req.Location,
		RunnerID:        req.RunnerID,
		LineName:        req.LineName,
		SiteID:          req.SiteID,
		RepairStatus:    domain.RepairStatus(req.RepairStatus),
		MinorRepairTier: req.MinorRepairTier,
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("campaign created",
		zap.String("campaign_no", c.CampaignNo),
		zap.String("customer_name", c.CustomerName),
		zap.String("line_name", c.LineName),
	)
	return c, nil
}

// GenerateCampaignNumber returns the next campaign number for the key
// without persisting anything.
func (s *CampaignService) GenerateCampaignNumber(ctx context.Context, customer, location, runner, lineName string) (string, error) {
	if customer == "" || location == "" || runner == "" || lineName == "" {
		return "", domain.Validationf("customer_name, location, runner_id and line_name are required")
	}
	return s.seq.GenerateCampaignNo(ctx, customer, location, runner, lineName)
}

// GetLastCampaign returns the site's current campaign fields for the
// business key, or nil when no campaign has been recorded. The site row
// mirrors every repair transition, so it carries the live tier; the
// campaign row only records the tier at issuance.
func (s *CampaignService) GetLastCampaign(ctx context.Context, customer, location, runner string) (*domain.Campaign, error) {
	if customer == "" || location == "" || runner == "" {
		return nil, domain.Validationf("customer_name, location and runner_id are required")
	}
	site, err := s.sites.FindByBusinessKey(ctx, customer, location, runner)
	if err != nil {
		return nil, err
	}
	if site == nil || site.CampaignNo == "" {
		return nil, nil
	}
	return &domain.Campaign{
		CampaignNo:      site.CampaignNo,
		CustomerName:    site.CustomerName,
		Location:        site.Location,
		RunnerID:        site.RunnerID,
		SiteID:          site.SiteID,
		RepairStatus:    site.RepairStatus,
		MinorRepairTier: site.MinorRepairTier,
	}, nil
}

// CampaignDecision is the lookup-and-decide result: either a fresh campaign
// number or the reusable current one with the suggested next minor tier.
type CampaignDecision struct {
	CampaignNo         string `json:"campaign_no"`
	NewCampaign        bool   `json:"new_campaign"`
	SuggestedMinorTier int    `json:"suggested_minor_tier"`
}

// NextCampaign decides whether the line's cycle needs a new campaign. The
// decision reads the site's mirrored campaign state, which tracks tier
// progression; a campaign row is written once and keeps its issuance tier.
// A new number is generated (not persisted) when no campaign exists, the
// current status is major, or the minor tier is terminal; otherwise the
// current number is reused and the next tier suggested.
func (s *CampaignService) NextCampaign(ctx context.Context, customer, location, runner string) (*CampaignDecision, error) {
	if customer == "" || location == "" || runner == "" {
		return nil, domain.Validationf("customer_name, location and runner_id are required")
	}

	site, err := s.sites.FindByBusinessKey(ctx, customer, location, runner)
	if err != nil {
		return nil, err
	}

	if site == nil || site.CampaignNo == "" ||
		site.RepairStatus == domain.RepairMajor || site.MinorRepairTier >= domain.MinorTierTerminal {
		generated, err := s.seq.GenerateCampaignNo(ctx, customer, location, runner, "")
		if err != nil {
			return nil, err
		}
		return &CampaignDecision{
			CampaignNo:         generated,
			NewCampaign:        true,
			SuggestedMinorTier: 1,
		}, nil
	}

	return &CampaignDecision{
		CampaignNo:         site.CampaignNo,
		NewCampaign:        false,
		SuggestedMinorTier: site.MinorRepairTier + 1,
	}, nil
}

type RepairTransitionRequest struct {
	SiteID          string `json:"site_id"`
	LineName        string `json:"line_name"`
	RepairStatus    string `json:"repair_status"`
	MinorRepairTier int    `json:"minor_repair_tier"`
}

// ChangeRepairStatus runs the per-line state machine:
//
//	NONE -> MAJOR -> MINOR(1) -> MINOR(2) -> MINOR(3) -> MAJOR, plus STOPPED.
//
// major resets the tier to 0 and issues a new campaign; minor directly after
// major (or on a fresh line) issues a new campaign at tier 1; within minor
// the tier advances strictly one step at a time under the current campaign.
// stop is one-way and issues nothing.
func (s *CampaignService) ChangeRepairStatus(ctx context.Context, req RepairTransitionRequest) (*domain.ProductionLine, error) {
	if req.SiteID == "" || req.LineName == "" || req.RepairStatus == "" {
		return nil, domain.Validationf("site_id, line_name and repair_status are required")
	}
	status := domain.RepairStatus(req.RepairStatus)
	if !status.Valid() || status == domain.RepairNone {
		return nil, domain.Validationf("invalid repair_status %q", req.RepairStatus)
	}

	line, err := s.sites.GetLine(ctx, req.SiteID, req.LineName)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.NotFoundf("production line %q not found for site %s", req.LineName, req.SiteID)
	}
	if line.RepairStatus == domain.RepairStopped {
		return nil, domain.Validationf("campaign for line %q is stopped; no further repair transitions are accepted", req.LineName)
	}

	site, err := s.sites.GetSite(ctx, req.SiteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.NotFoundf("site %s not found", req.SiteID)
	}

	var tier int
	campaignNo := line.CampaignNo

	switch status {
	case domain.RepairMajor:
		// Major always starts a fresh campaign and resets minor tracking.
		tier = 0
		campaignNo, err = s.issueCampaign(ctx, site, line.LineName, domain.RepairMajor, 0)
		if err != nil {
			return nil, err
		}

	case domain.RepairMinor:
		if line.RepairStatus == domain.RepairMinor {
			if err := domain.ValidateMinorTier(line.MinorRepairTier, req.MinorRepairTier); err != nil {
				return nil, err
			}
			tier = req.MinorRepairTier
		} else {
			// Entering a minor cycle from major (or a fresh line): new
			// campaign, tier starts at 1.
			tier = 1
			campaignNo, err = s.issueCampaign(ctx, site, line.LineName, domain.RepairMinor, tier)
			if err != nil {
				return nil, err
			}
		}

	case domain.RepairStopped:
		tier = line.MinorRepairTier
	}

	if err := s.sites.UpdateLineRepairState(ctx, req.SiteID, req.LineName, status, tier, campaignNo); err != nil {
		return nil, err
	}

	s.logger.Info("repair status changed",
		zap.String("site_id", req.SiteID),
		zap.String("line_name", req.LineName),
		zap.String("repair_status", string(status)),
		zap.Int("minor_repair_tier", tier),
		zap.String("campaign_no", campaignNo),
	)

	line.RepairStatus = status
	line.MinorRepairTier = tier
	line.CampaignNo = campaignNo
	return line, nil
}

func (s *CampaignService) issueCampaign(ctx context.Context, site *domain.Site, lineName string, status domain.RepairStatus, tier int) (string, error) {
	generated, err := s.seq.GenerateCampaignNo(ctx, site.CustomerName, site.Location, site.RunnerID, lineName)
	if err != nil {
		return "", err
	}
	c := &domain.Campaign{
		CampaignNo:      generated,
		CustomerName:    site.CustomerName,
		Location:        site.Location,
		RunnerID:        site.RunnerID,
		LineName:        lineName,
		SiteID:          site.SiteID,
		RepairStatus:    status,
		MinorRepairTier: tier,
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return "", err
	}
	return generated, nil
}
