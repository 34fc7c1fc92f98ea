package domain

import "time"

// DailyProduction is one measurement row per (site, line, date). The
// campaign fields are a snapshot of the line's repair context taken when the
// row is first created; updates never refresh them.
type DailyProduction struct {
	ID             string  `json:"id"`
	SiteID         string  `json:"site_id"`
	LineName       string  `json:"line_name"`
	ProductionDate string  `json:"production_date"` // YYYY-MM-DD
	ProductionData float64 `json:"production_data"`
	ErosionData    float64 `json:"erosion_data"`
	Remarks        string  `json:"remarks,omitempty"`

	CampaignNo      string       `json:"campaign_no"`
	RepairStatus    RepairStatus `json:"repair_status"`
	MinorRepairTier int          `json:"minor_repair_tier"`

	StageCompleted StageState `json:"production_stage_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SensorReading is one measurement row per (site, line, date, shift, sensor).
// Same snapshot and latch semantics as DailyProduction.
type SensorReading struct {
	ID          string  `json:"id"`
	SiteID      string  `json:"site_id"`
	LineName    string  `json:"line_name"`
	ReadingDate string  `json:"reading_date"` // YYYY-MM-DD
	ShiftCode   string  `json:"shift_code"`
	SensorName  string  `json:"sensor_name"`
	Reading     float64 `json:"reading"`

	CampaignNo      string       `json:"campaign_no"`
	RepairStatus    RepairStatus `json:"repair_status"`
	MinorRepairTier int          `json:"minor_repair_tier"`

	StageCompleted StageState `json:"sensor_stage_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
