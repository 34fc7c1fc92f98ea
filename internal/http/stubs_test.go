package httpapi

import (
	"context"

	"sitetrack/internal/domain"
	"sitetrack/internal/repository"
)

// Function-field repo stubs for handler tests: only the calls a test cares
// about get a body, everything else returns zero values.

type stubSitesRepo struct {
	createSite        func(ctx context.Context, site *domain.Site) error
	getSite           func(ctx context.Context, siteID string) (*domain.Site, error)
	listSites         func(ctx context.Context, page, size int) ([]*domain.Site, int, error)
	findByBusinessKey func(ctx context.Context, customer, location, runner string) (*domain.Site, error)
	lastSiteIDForKey  func(ctx context.Context, customer, location, runner string) (string, error)
	getLine           func(ctx context.Context, siteID, lineName string) (*domain.ProductionLine, error)
	sensorsByLine     func(ctx context.Context, siteID, lineName string) ([]domain.Sensor, error)
}

var _ repository.SitesRepo = (*stubSitesRepo)(nil)

func (s *stubSitesRepo) CreateSite(ctx context.Context, site *domain.Site) error {
	if s.createSite != nil {
		return s.createSite(ctx, site)
	}
	return nil
}

func (s *stubSitesRepo) GetSite(ctx context.Context, siteID string) (*domain.Site, error) {
	if s.getSite != nil {
		return s.getSite(ctx, siteID)
	}
	return nil, nil
}

func (s *stubSitesRepo) ListSites(ctx context.Context, page, size int) ([]*domain.Site, int, error) {
	if s.listSites != nil {
		return s.listSites(ctx, page, size)
	}
	return nil, 0, nil
}

func (s *stubSitesRepo) FindByBusinessKey(ctx context.Context, customer, location, runner string) (*domain.Site, error) {
	if s.findByBusinessKey != nil {
		return s.findByBusinessKey(ctx, customer, location, runner)
	}
	return nil, nil
}

func (s *stubSitesRepo) LastSiteIDForKey(ctx context.Context, customer, location, runner string) (string, error) {
	if s.lastSiteIDForKey != nil {
		return s.lastSiteIDForKey(ctx, customer, location, runner)
	}
	return "", nil
}

func (s *stubSitesRepo) LastRunnerID(context.Context) (string, error) { return "", nil }

func (s *stubSitesRepo) GetLine(ctx context.Context, siteID, lineName string) (*domain.ProductionLine, error) {
	if s.getLine != nil {
		return s.getLine(ctx, siteID, lineName)
	}
	return nil, nil
}

func (s *stubSitesRepo) LineCount(context.Context, string) (int, error) { return 0, nil }

func (s *stubSitesRepo) SensorsByLine(ctx context.Context, siteID, lineName string) ([]domain.Sensor, error) {
	if s.sensorsByLine != nil {
		return s.sensorsByLine(ctx, siteID, lineName)
	}
	return nil, nil
}

func (s *stubSitesRepo) UpdateLineRepairState(context.Context, string, string, domain.RepairStatus, int, string) error {
	return nil
}

type stubCampaignsRepo struct {
	lastForKey func(ctx context.Context, customer, location, runner, line string) (*domain.Campaign, error)
}

var _ repository.CampaignsRepo = (*stubCampaignsRepo)(nil)

func (s *stubCampaignsRepo) Create(context.Context, *domain.Campaign) error { return nil }

func (s *stubCampaignsRepo) LastForKey(ctx context.Context, customer, location, runner, line string) (*domain.Campaign, error) {
	if s.lastForKey != nil {
		return s.lastForKey(ctx, customer, location, runner, line)
	}
	return nil, nil
}

func (s *stubCampaignsRepo) Exists(context.Context, string) (bool, error) { return false, nil }

type stubProductionRepo struct {
	getDaily    func(ctx context.Context, siteID, lineName, date string) (*domain.DailyProduction, error)
	rangeBySite func(ctx context.Context, siteID, from, to string) ([]domain.DailyProduction, error)
	byCampaign  func(ctx context.Context, siteID, lineName, campaignNo string) ([]domain.DailyProduction, error)
}

var _ repository.ProductionRepo = (*stubProductionRepo)(nil)

func (s *stubProductionRepo) GetDaily(ctx context.Context, siteID, lineName, date string) (*domain.DailyProduction, error) {
	if s.getDaily != nil {
		return s.getDaily(ctx, siteID, lineName, date)
	}
	return nil, nil
}

func (s *stubProductionRepo) CreateDaily(context.Context, *domain.DailyProduction) error { return nil }

func (s *stubProductionRepo) UpdateDailyMeasurements(context.Context, string, float64, float64, string) error {
	return nil
}

func (s *stubProductionRepo) CompleteDailyForDate(context.Context, string, string) (int64, error) {
	return 0, nil
}

func (s *stubProductionRepo) RangeBySite(ctx context.Context, siteID, from, to string) ([]domain.DailyProduction, error) {
	if s.rangeBySite != nil {
		return s.rangeBySite(ctx, siteID, from, to)
	}
	return nil, nil
}

func (s *stubProductionRepo) ByCampaign(ctx context.Context, siteID, lineName, campaignNo string) ([]domain.DailyProduction, error) {
	if s.byCampaign != nil {
		return s.byCampaign(ctx, siteID, lineName, campaignNo)
	}
	return nil, nil
}

func (s *stubProductionRepo) DistinctCampaigns(context.Context, string, string) ([]string, error) {
	return nil, nil
}

type stubReadingsRepo struct{}

var _ repository.ReadingsRepo = (*stubReadingsRepo)(nil)

func (s *stubReadingsRepo) Get(context.Context, string, string, string, string, string) (*domain.SensorReading, error) {
	return nil, nil
}

func (s *stubReadingsRepo) Create(context.Context, *domain.SensorReading) error { return nil }

func (s *stubReadingsRepo) UpdateReading(context.Context, string, float64) error { return nil }

func (s *stubReadingsRepo) CompleteForShift(context.Context, string, string, string, string) (int64, error) {
	return 0, nil
}

func (s *stubReadingsRepo) Range(context.Context, string, string, string, string) ([]domain.SensorReading, error) {
	return nil, nil
}
