package service

import (
	"context"

	"sitetrack/internal/domain"
	"sitetrack/internal/models"
	"sitetrack/internal/repository"

	"go.uber.org/zap"
)

// ReportService reshapes the normalized measurement rows into the wide,
// data-driven report records the table/chart/export consumers iterate over.
// All operations are read-only.
type ReportService struct {
	production repository.ProductionRepo
	readings   repository.ReadingsRepo
	sites      repository.SitesRepo
	logger     *zap.Logger
}

func NewReportService(production repository.ProductionRepo, readings repository.ReadingsRepo, sites repository.SitesRepo, logger *zap.Logger) *ReportService {
	return &ReportService{production: production, readings: readings, sites: sites, logger: logger}
}

// DailyProductionPivot returns one record per date in [from, to]: date,
// running totalProd, and a <line>_prod / <line>_erosion column pair per
// line, summed when a line has several rows on one date. The records come
// out in date order because the underlying query is date-ordered and the
// pivot preserves insertion order.
func (s *ReportService) DailyProductionPivot(ctx context.Context, siteID, from, to string) ([]*models.Record, error) {
	if siteID == "" || from == "" || to == "" {
		return nil, domain.Validationf("site_id, fromDate and toDate are required")
	}
	if !validDate(from) || !validDate(to) {
		return nil, domain.Validationf("fromDate and toDate must be valid dates (YYYY-MM-DD)")
	}

	rows, err := s.production.RangeBySite(ctx, siteID, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*models.Record)
	var ordered []*models.Record

	for _, r := range rows {
		rec, ok := byDate[r.ProductionDate]
		if !ok {
			rec = models.NewRecord()
			rec.Set("date", r.ProductionDate)
			rec.Set("totalProd", float64(0))
			byDate[r.ProductionDate] = rec
			ordered = append(ordered, rec)
		}

		rec.Add(r.LineName+"_prod", r.ProductionData)
		rec.Add(r.LineName+"_erosion", r.ErosionData)
		rec.Add("totalProd", r.ProductionData)
	}

	return ordered, nil
}

// sensorColumnType maps a sensor's stored type to its reporting column
// suffix. SPG is renamed to OFF in column names only; the stored sensor
// type is untouched. Business naming convention, not a bug.
func sensorColumnType(t domain.SensorType) string {
	if t == domain.SensorSPG {
		return "OFF"
	}
	return string(t)
}

// ShiftSensorPivot returns one record per (date, shift) in [from, to], with
// a <sensor>_<mappedType> column per sensor, summed. Ordering is date
// ascending then shift code, carried over from the sorted query.
func (s *ReportService) ShiftSensorPivot(ctx context.Context, siteID, lineName, from, to string) ([]*models.Record, error) {
	if siteID == "" || lineName == "" || from == "" || to == "" {
		return nil, domain.Validationf("site_id, line_name, fromDate and toDate are required")
	}
	if !validDate(from) || !validDate(to) {
		return nil, domain.Validationf("fromDate and toDate must be valid dates (YYYY-MM-DD)")
	}

	sensors, err := s.sites.SensorsByLine(ctx, siteID, lineName)
	if err != nil {
		return nil, err
	}
	typeByName := make(map[string]string, len(sensors))
	for _, sensor := range sensors {
		typeByName[sensor.SensorName] = sensorColumnType(sensor.SensorType)
	}

	readings, err := s.readings.Range(ctx, siteID, lineName, from, to)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*models.Record)
	var ordered []*models.Record

	for _, r := range readings {
		key := r.ReadingDate + "_" + r.ShiftCode
		rec, ok := byKey[key]
		if !ok {
			rec = models.NewRecord()
			rec.Set("date", r.ReadingDate)
			rec.Set("shift_code", r.ShiftCode)
			byKey[key] = rec
			ordered = append(ordered, rec)
		}

		mapped, ok := typeByName[r.SensorName]
		if !ok {
			mapped = "UNKNOWN"
		}
		rec.Add(r.SensorName+"_"+mapped, r.Reading)
	}

	return ordered, nil
}

// CampaignRef wraps a campaign number for the distinct-campaign listing.
type CampaignRef struct {
	Campaign string `json:"campaign"`
}

// CampaignsBySite returns the distinct campaign numbers ever recorded in
// daily production rows for the (site, line).
func (s *ReportService) CampaignsBySite(ctx context.Context, siteID, lineName string) ([]CampaignRef, error) {
	if siteID == "" || lineName == "" {
		return nil, domain.Validationf("site_id and line_name are required")
	}

	campaigns, err := s.production.DistinctCampaigns(ctx, siteID, lineName)
	if err != nil {
		return nil, err
	}

	refs := make([]CampaignRef, 0, len(campaigns))
	for _, c := range campaigns {
		refs = append(refs, CampaignRef{Campaign: c})
	}
	return refs, nil
}

// ProductionPoint is one dated row of a campaign production series. Field
// names match what the report consumers bind to.
type ProductionPoint struct {
	Date            string              `json:"date"`
	Production      float64             `json:"production"`
	CumulativeProd  float64             `json:"cumulativeprod"`
	Campaign        string              `json:"campaign"`
	RepairStatus    domain.RepairStatus `json:"repair_status"`
	MinorRepairTier int                 `json:"minor_repair_status"`
}

// CampaignwiseProduction returns the campaign's daily rows with a plain
// cumulative production sum. Never resets within the campaign.
func (s *ReportService) CampaignwiseProduction(ctx context.Context, siteID, lineName, campaignNo string) ([]ProductionPoint, error) {
	rows, err := s.campaignRows(ctx, siteID, lineName, campaignNo)
	if err != nil {
		return nil, err
	}

	var cumulative float64
	result := make([]ProductionPoint, 0, len(rows))
	for _, r := range rows {
		cumulative += r.ProductionData
		result = append(result, productionPoint(r, cumulative))
	}
	return result, nil
}

// LifeAfterRepairProduction returns the same series but resets the
// cumulative sum whenever a minor row's tier differs from the previous
// minor-tracked tier. A non-minor row never triggers a reset itself; it
// clears the comparison baseline, so the first minor row after it starts a
// fresh comparison without resetting. Deliberately literal; the fixtures in
// the tests pin this behavior.
func (s *ReportService) LifeAfterRepairProduction(ctx context.Context, siteID, lineName, campaignNo string) ([]ProductionPoint, error) {
	rows, err := s.campaignRows(ctx, siteID, lineName, campaignNo)
	if err != nil {
		return nil, err
	}

	var cumulative float64
	var prevMinorTier *int

	result := make([]ProductionPoint, 0, len(rows))
	for _, r := range rows {
		if r.RepairStatus == domain.RepairMinor {
			if prevMinorTier != nil && r.MinorRepairTier != *prevMinorTier {
				cumulative = 0
			}
			tier := r.MinorRepairTier
			prevMinorTier = &tier
		} else {
			prevMinorTier = nil
		}

		cumulative += r.ProductionData
		result = append(result, productionPoint(r, cumulative))
	}
	return result, nil
}

func (s *ReportService) campaignRows(ctx context.Context, siteID, lineName, campaignNo string) ([]domain.DailyProduction, error) {
	if siteID == "" || lineName == "" || campaignNo == "" {
		return nil, domain.Validationf("site_id, line_name and campaign are required")
	}
	return s.production.ByCampaign(ctx, siteID, lineName, campaignNo)
}

func productionPoint(r domain.DailyProduction, cumulative float64) ProductionPoint {
	return ProductionPoint{
		Date:            r.ProductionDate,
		Production:      r.ProductionData,
		CumulativeProd:  cumulative,
		Campaign:        r.CampaignNo,
		RepairStatus:    r.RepairStatus,
		MinorRepairTier: r.MinorRepairTier,
	}
}
