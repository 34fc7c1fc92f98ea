package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sitetrack/internal/domain"

	"github.com/google/uuid"
)

// PostgresProductionRepo implements ProductionRepo.
type PostgresProductionRepo struct {
	db *sql.DB
}

func NewPostgresProductionRepo(db *sql.DB) *PostgresProductionRepo {
	return &PostgresProductionRepo{db: db}
}

var _ ProductionRepo = (*PostgresProductionRepo)(nil)

const dailyColumns = `
	id, site_id, line_name, to_char(production_date, 'YYYY-MM-DD'),
	production_data, erosion_data, remarks,
	campaign_no, repair_status, minor_repair_tier, stage_completed,
	created_at, updated_at`

func scanDaily(scan func(dest ...any) error) (*domain.DailyProduction, error) {
	var d domain.DailyProduction
	var remarks sql.NullString
	var status, stage string
	err := scan(
		&d.ID, &d.SiteID, &d.LineName, &d.ProductionDate,
		&d.ProductionData, &d.ErosionData, &remarks,
		&d.CampaignNo, &status, &d.MinorRepairTier, &stage,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if remarks.Valid {
		d.Remarks = remarks.String
	}
	d.RepairStatus = domain.RepairStatus(status)
	d.StageCompleted = domain.StageState(stage)
	return &d, nil
}

func (r *PostgresProductionRepo) GetDaily(ctx context.Context, siteID, lineName, date string) (*domain.DailyProduction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+dailyColumns+`
		FROM daily_production
		WHERE site_id = $1 AND line_name = $2 AND production_date = $3::date`,
		siteID, lineName, date)
	d, err := scanDaily(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get daily production: %w", err)
	}
	return d, nil
}

func (r *PostgresProductionRepo) CreateDaily(ctx context.Context, row *domain.DailyProduction) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.StageCompleted == "" {
		row.StageCompleted = domain.StageOpen
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_production (
			id, site_id, line_name, production_date,
			production_data, erosion_data, remarks,
			campaign_no, repair_status, minor_repair_tier, stage_completed
		) VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11)`,
		row.ID, row.SiteID, row.LineName, row.ProductionDate,
		row.ProductionData, row.ErosionData, row.Remarks,
		row.CampaignNo, string(row.RepairStatus), row.MinorRepairTier, string(row.StageCompleted),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("daily production already recorded for %s/%s on %s",
				row.SiteID, row.LineName, row.ProductionDate)
		}
		return fmt.Errorf("failed to insert daily production: %w", err)
	}
	return nil
}

func (r *PostgresProductionRepo) UpdateDailyMeasurements(ctx context.Context, id string, production, erosion float64, remarks string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE daily_production
		SET production_data = $1, erosion_data = $2, remarks = $3, updated_at = NOW()
		WHERE id = $4 AND stage_completed = 'open'`,
		production, erosion, remarks, id)
	if err != nil {
		return fmt.Errorf("failed to update daily production: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Completedf("daily production row is completed and can no longer be edited")
	}
	return nil
}

func (r *PostgresProductionRepo) CompleteDailyForDate(ctx context.Context, siteID, date string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE daily_production
		SET stage_completed = 'completed', updated_at = NOW()
		WHERE site_id = $1 AND production_date = $2::date AND stage_completed = 'open'`,
		siteID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to complete daily production: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected, nil
}

func (r *PostgresProductionRepo) queryDaily(ctx context.Context, query string, args ...interface{}) ([]domain.DailyProduction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily production: %w", err)
	}
	defer rows.Close()

	var result []domain.DailyProduction
	for rows.Next() {
		d, err := scanDaily(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily production: %w", err)
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily production: %w", err)
	}
	return result, nil
}

func (r *PostgresProductionRepo) RangeBySite(ctx context.Context, siteID, from, to string) ([]domain.DailyProduction, error) {
	return r.queryDaily(ctx, `
		SELECT `+dailyColumns+`
		FROM daily_production
		WHERE site_id = $1 AND production_date >= $2::date AND production_date <= $3::date
		ORDER BY production_date, line_name`,
		siteID, from, to)
}

func (r *PostgresProductionRepo) ByCampaign(ctx context.Context, siteID, lineName, campaignNo string) ([]domain.DailyProduction, error) {
	return r.queryDaily(ctx, `
		SELECT `+dailyColumns+`
		FROM daily_production
		WHERE site_id = $1 AND line_name = $2 AND campaign_no = $3
		ORDER BY production_date`,
		siteID, lineName, campaignNo)
}

func (r *PostgresProductionRepo) DistinctCampaigns(ctx context.Context, siteID, lineName string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT campaign_no
		FROM daily_production
		WHERE site_id = $1 AND line_name = $2`,
		siteID, lineName)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}
	return campaigns, nil
}
