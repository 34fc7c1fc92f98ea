package service

import (
	"context"
	"time"

	"sitetrack/internal/domain"
	"sitetrack/internal/repository"

	"go.uber.org/zap"
)

// RecordingService handles the daily production and per-shift sensor
// reading entry paths: keyed upserts that stamp the line's live campaign
// context on first write, plus the one-way stage submission.
type RecordingService struct {
	production repository.ProductionRepo
	readings   repository.ReadingsRepo
	sites      repository.SitesRepo
	logger     *zap.Logger
}

func NewRecordingService(production repository.ProductionRepo, readings repository.ReadingsRepo, sites repository.SitesRepo, logger *zap.Logger) *RecordingService {
	return &RecordingService{production: production, readings: readings, sites: sites, logger: logger}
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

type SaveDailyProductionRequest struct {
	SiteID         string   `json:"site_id"`
	LineName       string   `json:"line_name"`
	ProductionDate string   `json:"production_date"`
	ProductionData *float64 `json:"production_data"`
	ErosionData    *float64 `json:"erosion_data"`
	Remarks        string   `json:"remarks"`
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// SaveDailyProduction creates or updates the row for (site, line, date).
// On create the row is stamped with the line's current campaign context; on
// update only the measurement fields change and the stamp is preserved, so
// historical attribution survives later repair transitions. Writes are
// rejected once the stage latch is set.
func (s *RecordingService) SaveDailyProduction(ctx context.Context, req SaveDailyProductionRequest) (*domain.DailyProduction, error) {
	if req.SiteID == "" || req.LineName == "" || req.ProductionDate == "" {
		return nil, domain.Validationf("site_id, line_name and production_date are required")
	}
	if !validDate(req.ProductionDate) {
		return nil, domain.Validationf("production_date must be a valid date (YYYY-MM-DD)")
	}

	existing, err := s.production.GetDaily(ctx, req.SiteID, req.LineName, req.ProductionDate)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.StageCompleted.Completed() {
			return nil, domain.Completedf("production stage for %s is completed; the row can no longer be edited", req.ProductionDate)
		}
		if err := s.production.UpdateDailyMeasurements(ctx, existing.ID, deref(req.ProductionData), deref(req.ErosionData), req.Remarks); err != nil {
			return nil, err
		}
		existing.ProductionData = deref(req.ProductionData)
		existing.ErosionData = deref(req.ErosionData)
		existing.Remarks = req.Remarks
		return existing, nil
	}

	line, err := s.sites.GetLine(ctx, req.SiteID, req.LineName)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.NotFoundf("production line %q not found for site %s", req.LineName, req.SiteID)
	}

	row := &domain.DailyProduction{
		SiteID:         req.SiteID,
		LineName:       req.LineName,
		ProductionDate: req.ProductionDate,
		ProductionData: deref(req.ProductionData),
		ErosionData:    deref(req.ErosionData),
		Remarks:        req.Remarks,
		// Snapshot of the repair context active at capture time. Never
		// recomputed, even after the line moves to a new campaign.
		CampaignNo:      line.CampaignNo,
		RepairStatus:    line.RepairStatus,
		MinorRepairTier: line.MinorRepairTier,
		StageCompleted:  domain.StageOpen,
	}
	if err := s.production.CreateDaily(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// SubmitDailyProduction flips the production stage latch for every line of
// the site on the given date. Irreversible; callers confirm first.
func (s *RecordingService) SubmitDailyProduction(ctx context.Context, siteID, date string) (int64, error) {
	if siteID == "" || date == "" {
		return 0, domain.Validationf("site_id and date are required")
	}
	if !validDate(date) {
		return 0, domain.Validationf("date must be a valid date (YYYY-MM-DD)")
	}

	lineCount, err := s.sites.LineCount(ctx, siteID)
	if err != nil {
		return 0, err
	}
	if lineCount == 0 {
		return 0, domain.NotFoundf("site %s has no production lines", siteID)
	}

	n, err := s.production.CompleteDailyForDate(ctx, siteID, date)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.NotFoundf("no open production rows for site %s on %s", siteID, date)
	}

	s.logger.Info("daily production submitted",
		zap.String("site_id", siteID),
		zap.String("date", date),
		zap.Int64("rows", n),
	)
	return n, nil
}

type SaveSensorReadingRequest struct {
	SiteID      string   `json:"site_id"`
	LineName    string   `json:"line_name"`
	ReadingDate string   `json:"reading_date"`
	ShiftCode   string   `json:"shift_code"`
	SensorName  string   `json:"sensor_name"`
	Reading     *float64 `json:"reading"`
}

// SaveSensorReading is the per-shift counterpart of SaveDailyProduction,
// keyed by (site, line, date, shift, sensor).
func (s *RecordingService) SaveSensorReading(ctx context.Context, req SaveSensorReadingRequest) (*domain.SensorReading, error) {
	if req.SiteID == "" || req.LineName == "" || req.ReadingDate == "" || req.ShiftCode == "" || req.SensorName == "" {
		return nil, domain.Validationf("site_id, line_name, reading_date, shift_code and sensor_name are required")
	}
	if !validDate(req.ReadingDate) {
		return nil, domain.Validationf("reading_date must be a valid date (YYYY-MM-DD)")
	}

	existing, err := s.readings.Get(ctx, req.SiteID, req.LineName, req.ReadingDate, req.ShiftCode, req.SensorName)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.StageCompleted.Completed() {
			return nil, domain.Completedf("sensor stage for %s shift %s is completed; the reading can no longer be edited",
				req.ReadingDate, req.ShiftCode)
		}
		if err := s.readings.UpdateReading(ctx, existing.ID, deref(req.Reading)); err != nil {
			return nil, err
		}
		existing.Reading = deref(req.Reading)
		return existing, nil
	}

	line, err := s.sites.GetLine(ctx, req.SiteID, req.LineName)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.NotFoundf("production line %q not found for site %s", req.LineName, req.SiteID)
	}

	sensors, err := s.sites.SensorsByLine(ctx, req.SiteID, req.LineName)
	if err != nil {
		return nil, err
	}
	known := false
	for _, sensor := range sensors {
		if sensor.SensorName == req.SensorName {
			known = true
			break
		}
	}
	if !known {
		return nil, domain.NotFoundf("sensor %q not found on line %q", req.SensorName, req.LineName)
	}

	row := &domain.SensorReading{
		SiteID:          req.SiteID,
		LineName:        req.LineName,
		ReadingDate:     req.ReadingDate,
		ShiftCode:       req.ShiftCode,
		SensorName:      req.SensorName,
		Reading:         deref(req.Reading),
		CampaignNo:      line.CampaignNo,
		RepairStatus:    line.RepairStatus,
		MinorRepairTier: line.MinorRepairTier,
		StageCompleted:  domain.StageOpen,
	}
	if err := s.readings.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// SubmitSensorReadings flips the sensor stage latch for every sensor of the
// line on the given date and shift. Irreversible.
func (s *RecordingService) SubmitSensorReadings(ctx context.Context, siteID, lineName, date, shift string) (int64, error) {
	if siteID == "" || lineName == "" || date == "" || shift == "" {
		return 0, domain.Validationf("site_id, line_name, date and shift_code are required")
	}
	if !validDate(date) {
		return 0, domain.Validationf("date must be a valid date (YYYY-MM-DD)")
	}

	n, err := s.readings.CompleteForShift(ctx, siteID, lineName, date, shift)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.NotFoundf("no open sensor readings for site %s line %q on %s shift %s", siteID, lineName, date, shift)
	}

	s.logger.Info("sensor readings submitted",
		zap.String("site_id", siteID),
		zap.String("line_name", lineName),
		zap.String("date", date),
		zap.String("shift_code", shift),
		zap.Int64("rows", n),
	)
	return n, nil
}
