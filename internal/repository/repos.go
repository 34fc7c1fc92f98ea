package repository

import (
	"context"

	"sitetrack/internal/domain"
)

// SitesRepo persists sites together with their owned lines and sensors.
// Lookup methods return (nil, nil) when no row matches.
type SitesRepo interface {
	// CreateSite inserts the site, its production lines and their sensors in
	// one transaction. A unique violation on the site_id or the business key
	// surfaces as a domain conflict error.
	CreateSite(ctx context.Context, site *domain.Site) error
	GetSite(ctx context.Context, siteID string) (*domain.Site, error)
	ListSites(ctx context.Context, page, size int) ([]*domain.Site, int, error)
	FindByBusinessKey(ctx context.Context, customer, location, runner string) (*domain.Site, error)
	// LastSiteIDForKey returns the most recently created site_id for the
	// exact business key, or "" when none exists.
	LastSiteIDForKey(ctx context.Context, customer, location, runner string) (string, error)
	// LastRunnerID returns the most recently created runner_id matching the
	// generated RUNNER-NNN format, or "" when none exists.
	LastRunnerID(ctx context.Context) (string, error)
	GetLine(ctx context.Context, siteID, lineName string) (*domain.ProductionLine, error)
	LineCount(ctx context.Context, siteID string) (int, error)
	SensorsByLine(ctx context.Context, siteID, lineName string) ([]domain.Sensor, error)
	// UpdateLineRepairState writes the new repair context onto the line and
	// mirrors it onto the owning site's current-campaign fields.
	UpdateLineRepairState(ctx context.Context, siteID, lineName string, status domain.RepairStatus, tier int, campaignNo string) error
}

// CampaignsRepo persists campaigns keyed by campaign_no.
type CampaignsRepo interface {
	Create(ctx context.Context, c *domain.Campaign) error
	// LastForKey returns the most recently created campaign for the business
	// key; pass line=="" to match any line. Returns (nil, nil) when none.
	LastForKey(ctx context.Context, customer, location, runner, line string) (*domain.Campaign, error)
	Exists(ctx context.Context, campaignNo string) (bool, error)
}

// ProductionRepo persists daily production rows.
type ProductionRepo interface {
	GetDaily(ctx context.Context, siteID, lineName, date string) (*domain.DailyProduction, error)
	CreateDaily(ctx context.Context, row *domain.DailyProduction) error
	// UpdateDailyMeasurements touches measurement fields only; the campaign
	// stamp and the latch are left untouched.
	UpdateDailyMeasurements(ctx context.Context, id string, production, erosion float64, remarks string) error
	// CompleteDailyForDate flips the stage latch on every open row of the
	// site for the date and reports how many rows it touched.
	CompleteDailyForDate(ctx context.Context, siteID, date string) (int64, error)
	// RangeBySite returns rows in [from, to] ordered by date then line name.
	RangeBySite(ctx context.Context, siteID, from, to string) ([]domain.DailyProduction, error)
	// ByCampaign returns the campaign's rows ordered by date ascending.
	ByCampaign(ctx context.Context, siteID, lineName, campaignNo string) ([]domain.DailyProduction, error)
	DistinctCampaigns(ctx context.Context, siteID, lineName string) ([]string, error)
}

// ReadingsRepo persists per-shift sensor readings.
type ReadingsRepo interface {
	Get(ctx context.Context, siteID, lineName, date, shift, sensorName string) (*domain.SensorReading, error)
	Create(ctx context.Context, row *domain.SensorReading) error
	UpdateReading(ctx context.Context, id string, reading float64) error
	CompleteForShift(ctx context.Context, siteID, lineName, date, shift string) (int64, error)
	// Range returns readings in [from, to] ordered by date then shift code.
	Range(ctx context.Context, siteID, lineName, from, to string) ([]domain.SensorReading, error)
}
