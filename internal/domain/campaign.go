package domain

import "time"

// Campaign is a named period of operation between repair events. It is
// referenced, not owned: lines and measurement rows carry its number as a
// point-in-time stamp that is never rewritten when a later campaign starts.
type Campaign struct {
	CampaignNo      string       `json:"campaign_no"`
	CustomerName    string       `json:"customer_name"`
	Location        string       `json:"location"`
	RunnerID        string       `json:"runner_id"`
	LineName        string       `json:"line_name,omitempty"`
	SiteID          string       `json:"site_id,omitempty"`
	RepairStatus    RepairStatus `json:"repair_status"`
	MinorRepairTier int          `json:"minor_repair_tier"`

	CreatedAt time.Time `json:"created_at"`
}
