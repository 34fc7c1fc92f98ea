package domain

import "time"

// SensorType classifies a sensor at line setup. The stored type never
// changes; reporting remaps SPG to OFF for column naming only.
type SensorType string

const (
	SensorSPG    SensorType = "SPG"
	SensorMudgun SensorType = "MUDGUN"
)

func (t SensorType) Valid() bool {
	return t == SensorSPG || t == SensorMudgun
}

// Site is a production facility keyed by the derived site_id. The business
// key (customer_name, location, runner_id) maps to at most one site; the
// site_id is immutable once assigned.
type Site struct {
	SiteID          string       `json:"site_id"`
	CustomerName    string       `json:"customer_name"`
	Location        string       `json:"location"`
	RunnerID        string       `json:"runner_id"`
	CampaignNo      string       `json:"campaign_no"`
	RepairStatus    RepairStatus `json:"repair_status"`
	MinorRepairTier int          `json:"minor_repair_tier"`
	LineCount       int          `json:"line_count"`

	ProductionLines []ProductionLine `json:"production_lines,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductionLine belongs to exactly one site; line_name is unique within it.
type ProductionLine struct {
	LineID            string       `json:"line_id"`
	SiteID            string       `json:"site_id"`
	LineName          string       `json:"line_name"`
	SPGSensorCount    int          `json:"spg_sensor_count"`
	MudgunSensorCount int          `json:"mudgun_sensor_count"`
	CampaignNo        string       `json:"campaign_no"`
	RepairStatus      RepairStatus `json:"repair_status"`
	MinorRepairTier   int          `json:"minor_repair_tier"`

	Sensors []Sensor `json:"sensors,omitempty"`
}

// Sensor is created at site/line setup and rarely mutated afterwards.
type Sensor struct {
	SensorID   string     `json:"sensor_id"`
	SiteID     string     `json:"site_id"`
	LineID     string     `json:"line_id"`
	SensorName string     `json:"sensor_name"`
	SensorType SensorType `json:"sensor_type"`
}
