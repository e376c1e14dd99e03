package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sensoringest"
)

// SiteSQLite stores the static site catalog used to enrich uploaded files.
type SiteSQLite struct {
	db *sql.DB
}

func NewSiteSQLite(db *sql.DB) *SiteSQLite {
	return &SiteSQLite{db: db}
}

var _ SiteRepo = (*SiteSQLite)(nil)

const (
	selectSiteSQL = `SELECT id, site_key, name, latitude, longitude, elevation_m, sampling_interval_min FROM sites WHERE id = ?`

	upsertSiteSQL = `
		INSERT INTO sites (id, site_key, name, latitude, longitude, elevation_m, sampling_interval_min)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			site_key=excluded.site_key,
			name=excluded.name,
			latitude=excluded.latitude,
			longitude=excluded.longitude,
			elevation_m=excluded.elevation_m,
			sampling_interval_min=excluded.sampling_interval_min
	`

	selectColumnsSQL = `SELECT site_key, field, units, aliases FROM site_columns WHERE site_key = ? ORDER BY field ASC`
	deleteColumnsSQL = `DELETE FROM site_columns WHERE site_key = ?`
	insertColumnSQL  = `INSERT INTO site_columns (site_key, field, units, aliases) VALUES (?, ?, ?, ?)`
)

// GetSite returns the site with the given normalized id. Returns (nil, nil) if not found.
func (r *SiteSQLite) GetSite(ctx context.Context, id string) (*sensoringest.Site, error) {
	var (
		s        sensoringest.Site
		lat, lon sql.NullFloat64
		elev     sql.NullFloat64
		interval sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, selectSiteSQL, id).
		Scan(&s.ID, &s.Key, &s.Name, &lat, &lon, &elev, &interval)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select site %q: %w", id, err)
	}
	s.Latitude, s.Longitude, s.ElevationM = lat.Float64, lon.Float64, elev.Float64
	s.SamplingIntervalMinutes = int(interval.Int64)
	return &s, nil
}

// ListColumns returns the column metadata recorded for a site key.
func (r *SiteSQLite) ListColumns(ctx context.Context, siteKey string) ([]sensoringest.SiteColumn, error) {
	rows, err := r.db.QueryContext(ctx, selectColumnsSQL, siteKey)
	if err != nil {
		return nil, fmt.Errorf("list columns for %q: %w", siteKey, err)
	}
	defer rows.Close()

	var out []sensoringest.SiteColumn
	for rows.Next() {
		var (
			c              sensoringest.SiteColumn
			units, aliases sql.NullString
		)
		if err := rows.Scan(&c.SiteKey, &c.Field, &units, &aliases); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		c.Units = units.String
		c.Aliases = splitAliases(aliases.String)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertSite inserts or updates a site.
func (r *SiteSQLite) UpsertSite(ctx context.Context, s sensoringest.Site) error {
	var interval *int
	if s.SamplingIntervalMinutes > 0 {
		interval = &s.SamplingIntervalMinutes
	}
	_, err := r.db.ExecContext(ctx, upsertSiteSQL,
		s.ID, s.Key, s.Name, s.Latitude, s.Longitude, s.ElevationM, interval)
	if err != nil {
		return fmt.Errorf("upsert site %q: %w", s.ID, err)
	}
	return nil
}

// ReplaceColumns swaps the column metadata of a site key in one transaction.
func (r *SiteSQLite) ReplaceColumns(ctx context.Context, siteKey string, cols []sensoringest.SiteColumn) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin columns transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteColumnsSQL, siteKey); err != nil {
		return fmt.Errorf("clear columns for %q: %w", siteKey, err)
	}
	for _, c := range cols {
		if _, err := tx.ExecContext(ctx, insertColumnSQL, siteKey, c.Field, c.Units, strings.Join(c.Aliases, ",")); err != nil {
			return fmt.Errorf("insert column %q for %q: %w", c.Field, siteKey, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit columns for %q: %w", siteKey, err)
	}
	return nil
}

func splitAliases(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
