package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sitetrack/internal/domain"

	"github.com/google/uuid"
)

// PostgresSitesRepo implements SitesRepo on the shared relational store.
type PostgresSitesRepo struct {
	db *sql.DB
}

func NewPostgresSitesRepo(db *sql.DB) *PostgresSitesRepo {
	return &PostgresSitesRepo{db: db}
}

var _ SitesRepo = (*PostgresSitesRepo)(nil)

// CreateSite inserts the site and cascades into lines and sensors inside a
// single transaction, so a conflict on any row leaves no partial state.
func (r *PostgresSitesRepo) CreateSite(ctx context.Context, site *domain.Site) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sites (
			site_id, customer_name, location, runner_id,
			campaign_no, repair_status, minor_repair_tier, line_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		site.SiteID, site.CustomerName, site.Location, site.RunnerID,
		site.CampaignNo, string(site.RepairStatus), site.MinorRepairTier, len(site.ProductionLines),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("site already exists for this combination (site_id: %s)", site.SiteID)
		}
		return fmt.Errorf("failed to insert site: %w", err)
	}

	for li := range site.ProductionLines {
		line := &site.ProductionLines[li]
		if line.LineID == "" {
			line.LineID = uuid.New().String()
		}
		line.SiteID = site.SiteID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO production_lines (
				line_id, site_id, line_name, spg_sensor_count, mudgun_sensor_count,
				campaign_no, repair_status, minor_repair_tier
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			line.LineID, line.SiteID, line.LineName, line.SPGSensorCount, line.MudgunSensorCount,
			line.CampaignNo, string(line.RepairStatus), line.MinorRepairTier,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.Conflictf("production line %q already exists for site %s", line.LineName, site.SiteID)
			}
			return fmt.Errorf("failed to insert production line %q: %w", line.LineName, err)
		}

		for si := range line.Sensors {
			s := &line.Sensors[si]
			if s.SensorID == "" {
				s.SensorID = uuid.New().String()
			}
			s.SiteID = site.SiteID
			s.LineID = line.LineID

			_, err = tx.ExecContext(ctx, `
				INSERT INTO sensors (sensor_id, site_id, line_id, sensor_name, sensor_type)
				VALUES ($1, $2, $3, $4, $5)`,
				s.SensorID, s.SiteID, s.LineID, s.SensorName, string(s.SensorType),
			)
			if err != nil {
				return fmt.Errorf("failed to insert sensor %q: %w", s.SensorName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit site create: %w", err)
	}
	return nil
}

func (r *PostgresSitesRepo) scanSite(row *sql.Row) (*domain.Site, error) {
	var s domain.Site
	var status string
	err := row.Scan(
		&s.SiteID, &s.CustomerName, &s.Location, &s.RunnerID,
		&s.CampaignNo, &status, &s.MinorRepairTier, &s.LineCount,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.RepairStatus = domain.RepairStatus(status)
	return &s, nil
}

const siteColumns = `
	site_id, customer_name, location, runner_id,
	campaign_no, repair_status, minor_repair_tier, line_count,
	created_at, updated_at`

func (r *PostgresSitesRepo) GetSite(ctx context.Context, siteID string) (*domain.Site, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE site_id = $1`, siteID)
	site, err := r.scanSite(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	lines, err := r.linesBySite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	site.ProductionLines = lines
	return site, nil
}

func (r *PostgresSitesRepo) linesBySite(ctx context.Context, siteID string) ([]domain.ProductionLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT line_id, site_id, line_name, spg_sensor_count, mudgun_sensor_count,
		       campaign_no, repair_status, minor_repair_tier
		FROM production_lines
		WHERE site_id = $1
		ORDER BY line_name`, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query production lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.ProductionLine
	for rows.Next() {
		var l domain.ProductionLine
		var status string
		if err := rows.Scan(
			&l.LineID, &l.SiteID, &l.LineName, &l.SPGSensorCount, &l.MudgunSensorCount,
			&l.CampaignNo, &status, &l.MinorRepairTier,
		); err != nil {
			return nil, fmt.Errorf("failed to scan production line: %w", err)
		}
		l.RepairStatus = domain.RepairStatus(status)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate production lines: %w", err)
	}

	for i := range lines {
		sensors, err := r.sensorsByLineID(ctx, lines[i].LineID)
		if err != nil {
			return nil, err
		}
		lines[i].Sensors = sensors
	}
	return lines, nil
}

func (r *PostgresSitesRepo) sensorsByLineID(ctx context.Context, lineID string) ([]domain.Sensor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sensor_id, site_id, line_id, sensor_name, sensor_type
		FROM sensors
		WHERE line_id = $1
		ORDER BY sensor_name`, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sensors: %w", err)
	}
	defer rows.Close()

	var sensors []domain.Sensor
	for rows.Next() {
		var s domain.Sensor
		var typ string
		if err := rows.Scan(&s.SensorID, &s.SiteID, &s.LineID, &s.SensorName, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan sensor: %w", err)
		}
		s.SensorType = domain.SensorType(typ)
		sensors = append(sensors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sensors: %w", err)
	}
	return sensors, nil
}

func (r *PostgresSitesRepo) ListSites(ctx context.Context, page, size int) ([]*domain.Site, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sites`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sites: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	offset := (page - 1) * size

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+siteColumns+` FROM sites ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	var sites []*domain.Site
	for rows.Next() {
		var s domain.Site
		var status string
		if err := rows.Scan(
			&s.SiteID, &s.CustomerName, &s.Location, &s.RunnerID,
			&s.CampaignNo, &status, &s.MinorRepairTier, &s.LineCount,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan site: %w", err)
		}
		s.RepairStatus = domain.RepairStatus(status)
		sites = append(sites, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate sites: %w", err)
	}
	return sites, total, nil
}

func (r *PostgresSitesRepo) FindByBusinessKey(ctx context.Context, customer, location, runner string) (*domain.Site, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites
		 WHERE customer_name = $1 AND location = $2 AND runner_id = $3
		 LIMIT 1`,
		customer, location, runner)
	site, err := r.scanSite(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find site by business key: %w", err)
	}
	return site, nil
}

func (r *PostgresSitesRepo) LastSiteIDForKey(ctx context.Context, customer, location, runner string) (string, error) {
	var siteID string
	err := r.db.QueryRowContext(ctx, `
		SELECT site_id FROM sites
		WHERE customer_name = $1 AND location = $2 AND runner_id = $3
		ORDER BY created_at DESC
		LIMIT 1`,
		customer, location, runner,
	).Scan(&siteID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get last site id: %w", err)
	}
	return siteID, nil
}

func (r *PostgresSitesRepo) LastRunnerID(ctx context.Context) (string, error) {
	var runnerID string
	err := r.db.QueryRowContext(ctx, `
		SELECT runner_id FROM sites
		WHERE runner_id LIKE 'RUNNER-%'
		ORDER BY created_at DESC
		LIMIT 1`,
	).Scan(&runnerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get last runner id: %w", err)
	}
	return runnerID, nil
}

func (r *PostgresSitesRepo) GetLine(ctx context.Context, siteID, lineName string) (*domain.ProductionLine, error) {
	var l domain.ProductionLine
	var status string
	err := r.db.QueryRowContext(ctx, `
		SELECT line_id, site_id, line_name, spg_sensor_count, mudgun_sensor_count,
		       campaign_no, repair_status, minor_repair_tier
		FROM production_lines
		WHERE site_id = $1 AND line_name = $2`,
		siteID, lineName,
	).Scan(
		&l.LineID, &l.SiteID, &l.LineName, &l.SPGSensorCount, &l.MudgunSensorCount,
		&l.CampaignNo, &status, &l.MinorRepairTier,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get production line: %w", err)
	}
	l.RepairStatus = domain.RepairStatus(status)
	return &l, nil
}

func (r *PostgresSitesRepo) LineCount(ctx context.Context, siteID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM production_lines WHERE site_id = $1`, siteID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count production lines: %w", err)
	}
	return n, nil
}

func (r *PostgresSitesRepo) SensorsByLine(ctx context.Context, siteID, lineName string) ([]domain.Sensor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.sensor_id, s.site_id, s.line_id, s.sensor_name, s.sensor_type
		FROM sensors s
		JOIN production_lines pl ON s.line_id = pl.line_id
		WHERE pl.site_id = $1 AND pl.line_name = $2
		ORDER BY s.sensor_name`,
		siteID, lineName)
	if err != nil {
		return nil, fmt.Errorf("failed to query sensors by line: %w", err)
	}
	defer rows.Close()

	var sensors []domain.Sensor
	for rows.Next() {
		var s domain.Sensor
		var typ string
		if err := rows.Scan(&s.SensorID, &s.SiteID, &s.LineID, &s.SensorName, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan sensor: %w", err)
		}
		s.SensorType = domain.SensorType(typ)
		sensors = append(sensors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sensors: %w", err)
	}
	return sensors, nil
}

// UpdateLineRepairState writes the new repair context to the line and keeps
// the site's current-campaign fields in sync, in one transaction.
func (r *PostgresSitesRepo) UpdateLineRepairState(ctx context.Context, siteID, lineName string, status domain.RepairStatus, tier int, campaignNo string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE production_lines
		SET repair_status = $1, minor_repair_tier = $2, campaign_no = $3, updated_at = NOW()
		WHERE site_id = $4 AND line_name = $5`,
		string(status), tier, campaignNo, siteID, lineName)
	if err != nil {
		return fmt.Errorf("failed to update production line repair state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("production line %q not found for site %s", lineName, siteID)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sites
		SET repair_status = $1, minor_repair_tier = $2, campaign_no = $3, updated_at = NOW()
		WHERE site_id = $4`,
		string(status), tier, campaignNo, siteID)
	if err != nil {
		return fmt.Errorf("failed to update site repair state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit repair state update: %w", err)
	}
	return nil
}
