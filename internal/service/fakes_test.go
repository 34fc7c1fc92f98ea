package service

import (
	"context"
	"fmt"

	"sitetrack/internal/domain"
	"sitetrack/internal/repository"
)

// In-memory repository fakes shared by the service tests. Maps are keyed
// the same way the unique constraints key the real tables.

var (
	_ repository.SitesRepo      = (*fakeSitesRepo)(nil)
	_ repository.CampaignsRepo  = (*fakeCampaignsRepo)(nil)
	_ repository.ProductionRepo = (*fakeProductionRepo)(nil)
	_ repository.ReadingsRepo   = (*fakeReadingsRepo)(nil)
)

type fakeSitesRepo struct {
	sites map[string]*domain.Site // site_id -> site
	order []string                // creation order, newest last
}

func newFakeSitesRepo() *fakeSitesRepo {
	return &fakeSitesRepo{sites: make(map[string]*domain.Site)}
}

func (f *fakeSitesRepo) CreateSite(_ context.Context, site *domain.Site) error {
	if _, ok := f.sites[site.SiteID]; ok {
		return domain.Conflictf("site already exists for this combination (site_id: %s)", site.SiteID)
	}
	for _, existing := range f.sites {
		if existing.CustomerName == site.CustomerName && existing.Location == site.Location && existing.RunnerID == site.RunnerID {
			return domain.Conflictf("site already exists for this combination (site_id: %s)", existing.SiteID)
		}
	}
	cp := *site
	f.sites[site.SiteID] = &cp
	f.order = append(f.order, site.SiteID)
	return nil
}

func (f *fakeSitesRepo) GetSite(_ context.Context, siteID string) (*domain.Site, error) {
	s, ok := f.sites[siteID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSitesRepo) ListSites(_ context.Context, page, size int) ([]*domain.Site, int, error) {
	var out []*domain.Site
	for i := len(f.order) - 1; i >= 0; i-- {
		cp := *f.sites[f.order[i]]
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeSitesRepo) FindByBusinessKey(_ context.Context, customer, location, runner string) (*domain.Site, error) {
	for _, s := range f.sites {
		if s.CustomerName == customer && s.Location == location && s.RunnerID == runner {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSitesRepo) LastSiteIDForKey(_ context.Context, customer, location, runner string) (string, error) {
	for i := len(f.order) - 1; i >= 0; i-- {
		s := f.sites[f.order[i]]
		if s.CustomerName == customer && s.Location == location && s.RunnerID == runner {
			return s.SiteID, nil
		}
	}
	return "", nil
}

func (f *fakeSitesRepo) LastRunnerID(_ context.Context) (string, error) {
	for i := len(f.order) - 1; i >= 0; i-- {
		s := f.sites[f.order[i]]
		if len(s.RunnerID) > 7 && s.RunnerID[:7] == "RUNNER-" {
			return s.RunnerID, nil
		}
	}
	return "", nil
}

func (f *fakeSitesRepo) GetLine(_ context.Context, siteID, lineName string) (*domain.ProductionLine, error) {
	s, ok := f.sites[siteID]
	if !ok {
		return nil, nil
	}
	for i := range s.ProductionLines {
		if s.ProductionLines[i].LineName == lineName {
			cp := s.ProductionLines[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSitesRepo) LineCount(_ context.Context, siteID string) (int, error) {
	s, ok := f.sites[siteID]
	if !ok {
		return 0, nil
	}
	return len(s.ProductionLines), nil
}

func (f *fakeSitesRepo) SensorsByLine(_ context.Context, siteID, lineName string) ([]domain.Sensor, error) {
	s, ok := f.sites[siteID]
	if !ok {
		return nil, nil
	}
	for i := range s.ProductionLines {
		if s.ProductionLines[i].LineName == lineName {
			return append([]domain.Sensor(nil), s.ProductionLines[i].Sensors...), nil
		}
	}
	return nil, nil
}

func (f *fakeSitesRepo) UpdateLineRepairState(_ context.Context, siteID, lineName string, status domain.RepairStatus, tier int, campaignNo string) error {
	s, ok := f.sites[siteID]
	if !ok {
		return domain.NotFoundf("production line %q not found for site %s", lineName, siteID)
	}
	for i := range s.ProductionLines {
		if s.ProductionLines[i].LineName == lineName {
			s.ProductionLines[i].RepairStatus = status
			s.ProductionLines[i].MinorRepairTier = tier
			s.ProductionLines[i].CampaignNo = campaignNo
			s.RepairStatus = status
			s.MinorRepairTier = tier
			s.CampaignNo = campaignNo
			return nil
		}
	}
	return domain.NotFoundf("production line %q not found for site %s", lineName, siteID)
}

type fakeCampaignsRepo struct {
	campaigns []*domain.Campaign // creation order, newest last
}

func (f *fakeCampaignsRepo) Create(_ context.Context, c *domain.Campaign) error {
	for _, existing := range f.campaigns {
		if existing.CampaignNo == c.CampaignNo {
			return domain.Conflictf("campaign %s already exists", c.CampaignNo)
		}
	}
	cp := *c
	f.campaigns = append(f.campaigns, &cp)
	return nil
}

func (f *fakeCampaignsRepo) LastForKey(_ context.Context, customer, location, runner, line string) (*domain.Campaign, error) {
	for i := len(f.campaigns) - 1; i >= 0; i-- {
		c := f.campaigns[i]
		if c.CustomerName != customer || c.Location != location || c.RunnerID != runner {
			continue
		}
		if line != "" && c.LineName != line {
			continue
		}
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCampaignsRepo) Exists(_ context.Context, campaignNo string) (bool, error) {
	for _, c := range f.campaigns {
		if c.CampaignNo == campaignNo {
			return true, nil
		}
	}
	return false, nil
}

type fakeProductionRepo struct {
	rows []*domain.DailyProduction
}

func dailyKey(siteID, lineName, date string) string {
	return fmt.Sprintf("%s|%s|%s", siteID, lineName, date)
}

func (f *fakeProductionRepo) GetDaily(_ context.Context, siteID, lineName, date string) (*domain.DailyProduction, error) {
	for _, r := range f.rows {
		if dailyKey(r.SiteID, r.LineName, r.ProductionDate) == dailyKey(siteID, lineName, date) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductionRepo) CreateDaily(_ context.Context, row *domain.DailyProduction) error {
	for _, r := range f.rows {
		if dailyKey(r.SiteID, r.LineName, r.ProductionDate) == dailyKey(row.SiteID, row.LineName, row.ProductionDate) {
			return domain.Conflictf("daily production already recorded for %s/%s on %s", row.SiteID, row.LineName, row.ProductionDate)
		}
	}
	if row.ID == "" {
		row.ID = fmt.Sprintf("daily-%d", len(f.rows)+1)
	}
	cp := *row
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeProductionRepo) UpdateDailyMeasurements(_ context.Context, id string, production, erosion float64, remarks string) error {
	for _, r := range f.rows {
		if r.ID == id {
			if r.StageCompleted.Completed() {
				return domain.Completedf("daily production row is completed and can no longer be edited")
			}
			r.ProductionData = production
			r.ErosionData = erosion
			r.Remarks = remarks
			return nil
		}
	}
	return domain.Completedf("daily production row is completed and can no longer be edited")
}

func (f *fakeProductionRepo) CompleteDailyForDate(_ context.Context, siteID, date string) (int64, error) {
	var n int64
	for _, r := range f.rows {
		if r.SiteID == siteID && r.ProductionDate == date && !r.StageCompleted.Completed() {
			r.StageCompleted = domain.StageCompleted
			n++
		}
	}
	return n, nil
}

func (f *fakeProductionRepo) RangeBySite(_ context.Context, siteID, from, to string) ([]domain.DailyProduction, error) {
	var out []domain.DailyProduction
	for _, r := range f.rows {
		if r.SiteID == siteID && r.ProductionDate >= from && r.ProductionDate <= to {
			out = append(out, *r)
		}
	}
	sortDaily(out)
	return out, nil
}

func (f *fakeProductionRepo) ByCampaign(_ context.Context, siteID, lineName, campaignNo string) ([]domain.DailyProduction, error) {
	var out []domain.DailyProduction
	for _, r := range f.rows {
		if r.SiteID == siteID && r.LineName == lineName && r.CampaignNo == campaignNo {
			out = append(out, *r)
		}
	}
	sortDaily(out)
	return out, nil
}

func (f *fakeProductionRepo) DistinctCampaigns(_ context.Context, siteID, lineName string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, r := range f.rows {
		if r.SiteID == siteID && r.LineName == lineName && !seen[r.CampaignNo] {
			seen[r.CampaignNo] = true
			out = append(out, r.CampaignNo)
		}
	}
	return out, nil
}

// sortDaily orders rows by date then line name, matching the SQL ORDER BY.
func sortDaily(rows []domain.DailyProduction) {
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0; j-- {
			a, b := rows[j-1], rows[j]
			if a.ProductionDate < b.ProductionDate ||
				(a.ProductionDate == b.ProductionDate && a.LineName <= b.LineName) {
				break
			}
			rows[j-1], rows[j] = b, a
		}
	}
}

type fakeReadingsRepo struct {
	rows []*domain.SensorReading
}

func readingKey(r *domain.SensorReading) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", r.SiteID, r.LineName, r.ReadingDate, r.ShiftCode, r.SensorName)
}

func (f *fakeReadingsRepo) Get(_ context.Context, siteID, lineName, date, shift, sensorName string) (*domain.SensorReading, error) {
	key := fmt.Sprintf("%s|%s|%s|%s|%s", siteID, lineName, date, shift, sensorName)
	for _, r := range f.rows {
		if readingKey(r) == key {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReadingsRepo) Create(_ context.Context, row *domain.SensorReading) error {
	for _, r := range f.rows {
		if readingKey(r) == readingKey(row) {
			return domain.Conflictf("sensor reading already recorded")
		}
	}
	if row.ID == "" {
		row.ID = fmt.Sprintf("reading-%d", len(f.rows)+1)
	}
	cp := *row
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeReadingsRepo) UpdateReading(_ context.Context, id string, reading float64) error {
	for _, r := range f.rows {
		if r.ID == id {
			if r.StageCompleted.Completed() {
				return domain.Completedf("sensor reading row is completed and can no longer be edited")
			}
			r.Reading = reading
			return nil
		}
	}
	return domain.Completedf("sensor reading row is completed and can no longer be edited")
}

func (f *fakeReadingsRepo) CompleteForShift(_ context.Context, siteID, lineName, date, shift string) (int64, error) {
	var n int64
	for _, r := range f.rows {
		if r.SiteID == siteID && r.LineName == lineName && r.ReadingDate == date && r.ShiftCode == shift && !r.StageCompleted.Completed() {
			r.StageCompleted = domain.StageCompleted
			n++
		}
	}
	return n, nil
}

func (f *fakeReadingsRepo) Range(_ context.Context, siteID, lineName, from, to string) ([]domain.SensorReading, error) {
	var out []domain.SensorReading
	for _, r := range f.rows {
		if r.SiteID == siteID && r.LineName == lineName && r.ReadingDate >= from && r.ReadingDate <= to {
			out = append(out, *r)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := out[j-1], out[j]
			ka := a.ReadingDate + "|" + a.ShiftCode + "|" + a.SensorName
			kb := b.ReadingDate + "|" + b.ShiftCode + "|" + b.SensorName
			if ka <= kb {
				break
			}
			out[j-1], out[j] = b, a
		}
	}
	return out, nil
}
