package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sitetrack/internal/domain"
)

// PostgresCampaignsRepo implements CampaignsRepo.
type PostgresCampaignsRepo struct {
	db *sql.DB
}

func NewPostgresCampaignsRepo(db *sql.DB) *PostgresCampaignsRepo {
	return &PostgresCampaignsRepo{db: db}
}

var _ CampaignsRepo = (*PostgresCampaignsRepo)(nil)

func (r *PostgresCampaignsRepo) Create(ctx context.Context, c *domain.Campaign) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (
			campaign_no, customer_name, location, runner_id, line_name,
			site_id, repair_status, minor_repair_tier
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.CampaignNo, c.CustomerName, c.Location, c.RunnerID, c.LineName,
		c.SiteID, string(c.RepairStatus), c.MinorRepairTier,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("campaign %s already exists", c.CampaignNo)
		}
		return fmt.Errorf("failed to insert campaign: %w", err)
	}
	return nil
}

func (r *PostgresCampaignsRepo) LastForKey(ctx context.Context, customer, location, runner, line string) (*domain.Campaign, error) {
	query := `
		SELECT campaign_no, customer_name, location, runner_id, line_name,
		       site_id, repair_status, minor_repair_tier, created_at
		FROM campaigns
		WHERE customer_name = $1 AND location = $2 AND runner_id = $3`
	args := []interface{}{customer, location, runner}
	if line != "" {
		query += ` AND line_name = $4`
		args = append(args, line)
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	var c domain.Campaign
	var status string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&c.CampaignNo, &c.CustomerName, &c.Location, &c.RunnerID, &c.LineName,
		&c.SiteID, &status, &c.MinorRepairTier, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last campaign: %w", err)
	}
	c.RepairStatus = domain.RepairStatus(status)
	return &c, nil
}

func (r *PostgresCampaignsRepo) Exists(ctx context.Context, campaignNo string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM campaigns WHERE campaign_no = $1`, campaignNo,
	).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check campaign existence: %w", err)
	}
	return true, nil
}
