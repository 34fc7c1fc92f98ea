package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sitetrack/internal/domain"

	"github.com/google/uuid"
)

// PostgresReadingsRepo implements ReadingsRepo.
type PostgresReadingsRepo struct {
	db *sql.DB
}

func NewPostgresReadingsRepo(db *sql.DB) *PostgresReadingsRepo {
	return &PostgresReadingsRepo{db: db}
}

var _ ReadingsRepo = (*PostgresReadingsRepo)(nil)

const readingColumns = `
	id, site_id, line_name, to_char(reading_date, 'YYYY-MM-DD'),
	shift_code, sensor_name, reading,
	campaign_no, repair_status, minor_repair_tier, stage_completed,
	created_at, updated_at`

func scanReading(scan func(dest ...any) error) (*domain.SensorReading, error) {
	var sr domain.SensorReading
	var status, stage string
	err := scan(
		&sr.ID, &sr.SiteID, &sr.LineName, &sr.ReadingDate,
		&sr.ShiftCode, &sr.SensorName, &sr.Reading,
		&sr.CampaignNo, &status, &sr.MinorRepairTier, &stage,
		&sr.CreatedAt, &sr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	sr.RepairStatus = domain.RepairStatus(status)
	sr.StageCompleted = domain.StageState(stage)
	return &sr, nil
}

func (r *PostgresReadingsRepo) Get(ctx context.Context, siteID, lineName, date, shift, sensorName string) (*domain.SensorReading, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+readingColumns+`
		FROM sensor_readings
		WHERE site_id = $1 AND line_name = $2 AND reading_date = $3::date
		  AND shift_code = $4 AND sensor_name = $5`,
		siteID, lineName, date, shift, sensorName)
	sr, err := scanReading(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sensor reading: %w", err)
	}
	return sr, nil
}

func (r *PostgresReadingsRepo) Create(ctx context.Context, row *domain.SensorReading) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.StageCompleted == "" {
		row.StageCompleted = domain.StageOpen
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sensor_readings (
			id, site_id, line_name, reading_date, shift_code, sensor_name, reading,
			campaign_no, repair_status, minor_repair_tier, stage_completed
		) VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11)`,
		row.ID, row.SiteID, row.LineName, row.ReadingDate, row.ShiftCode, row.SensorName, row.Reading,
		row.CampaignNo, string(row.RepairStatus), row.MinorRepairTier, string(row.StageCompleted),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("reading already recorded for sensor %q on %s shift %s",
				row.SensorName, row.ReadingDate, row.ShiftCode)
		}
		return fmt.Errorf("failed to insert sensor reading: %w", err)
	}
	return nil
}

func (r *PostgresReadingsRepo) UpdateReading(ctx context.Context, id string, reading float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sensor_readings
		SET reading = $1, updated_at = NOW()
		WHERE id = $2 AND stage_completed = 'open'`,
		reading, id)
	if err != nil {
		return fmt.Errorf("failed to update sensor reading: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Completedf("sensor reading is completed and can no longer be edited")
	}
	return nil
}

func (r *PostgresReadingsRepo) CompleteForShift(ctx context.Context, siteID, lineName, date, shift string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sensor_readings
		SET stage_completed = 'completed', updated_at = NOW()
		WHERE site_id = $1 AND line_name = $2 AND reading_date = $3::date
		  AND shift_code = $4 AND stage_completed = 'open'`,
		siteID, lineName, date, shift)
	if err != nil {
		return 0, fmt.Errorf("failed to complete sensor readings: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected, nil
}

func (r *PostgresReadingsRepo) Range(ctx context.Context, siteID, lineName, from, to string) ([]domain.SensorReading, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+readingColumns+`
		FROM sensor_readings
		WHERE site_id = $1 AND line_name = $2
		  AND reading_date >= $3::date AND reading_date <= $4::date
		ORDER BY reading_date, shift_code, sensor_name`,
		siteID, lineName, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sensor readings: %w", err)
	}
	defer rows.Close()

	var result []domain.SensorReading
	for rows.Next() {
		sr, err := scanReading(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sensor reading: %w", err)
		}
		result = append(result, *sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sensor readings: %w", err)
	}
	return result, nil
}
