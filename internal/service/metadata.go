package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sensoringest"
	"sensoringest/internal/ingest"
	"sensoringest/internal/logger"
	"sensoringest/internal/qa"
	"sensoringest/internal/repository"
)

// ErrSiteNotFound means the catalog has no entry, or no column metadata, for a file's site.
// It is not fatal: the file is still certified with the metadata it carries.
var ErrSiteNotFound = errors.New("site not found in catalog")

// Station columns appended from the catalog.
const (
	colSiteName  = "SiteName"
	colLatitude  = "Latitude"
	colLongitude = "Longitude"
	colElevation = "Elevation (m)"
	colInterval  = "Sampling Interval (min)"
	colAliases   = "Aliases"

	siteIDColumn = "SiteId"
)

type MetadataService struct {
	siteRepo repository.SiteRepo
	opts     ingest.Options
	log      *logger.Logger
}

func NewMetadataService(siteRepo repository.SiteRepo, opts ingest.Options, log *logger.Logger) *MetadataService {
	return &MetadataService{siteRepo: siteRepo, opts: opts, log: log.Named("metadata")}
}

// normalizeSiteID lowercases and replaces spaces with underscores.
func normalizeSiteID(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// Merge adds catalog fields to the station table and renames variables to their standard
// field names. Frames that were merged before are left alone.
func (s *MetadataService) Merge(ctx context.Context, frames *sensoringest.Frames) error {
	station := &frames.Station
	if station.Column(colSiteName) >= 0 {
		return nil
	}
	idCol := station.Column(siteIDColumn)
	if idCol < 0 && len(station.Columns) > 1 {
		idCol = 1
	}
	rawID := station.Cell(0, idCol)
	if rawID == "" {
		return fmt.Errorf("%w: station table has no site id", ErrSiteNotFound)
	}

	site, err := s.siteRepo.GetSite(ctx, normalizeSiteID(rawID))
	if err != nil {
		return err
	}
	if site == nil {
		s.log.Infow("metadata_site_not_found", "site_id", rawID)
		return fmt.Errorf("%w: %q", ErrSiteNotFound, rawID)
	}

	station.Columns = append(station.Columns, colSiteName, colLatitude, colLongitude, colElevation)
	if len(station.Rows) == 0 {
		station.Rows = [][]string{make([]string, len(station.Columns)-4)}
	}
	station.Rows[0] = append(station.Rows[0],
		site.Name,
		strconv.FormatFloat(site.Latitude, 'f', -1, 64),
		strconv.FormatFloat(site.Longitude, 'f', -1, 64),
		strconv.FormatFloat(site.ElevationM, 'f', -1, 64),
	)
	if site.SamplingIntervalMinutes > 0 {
		station.Columns = append(station.Columns, colInterval)
		station.Rows[0] = append(station.Rows[0], strconv.Itoa(site.SamplingIntervalMinutes))
		frames.Data.SamplingInterval = qa.StationInterval(*station, frames.Data.SamplingInterval)
	}
	s.log.Infow("metadata_site_merged", "site_id", rawID, "site_key", site.Key)

	cols, err := s.siteRepo.ListColumns(ctx, site.Key)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		s.log.Infow("metadata_columns_not_found", "site_id", rawID, "site_key", site.Key)
		return fmt.Errorf("%w: no column metadata for site key %q", ErrSiteNotFound, site.Key)
	}

	missing := s.renameVariables(frames, cols)
	if missing > 0 {
		s.log.Infow("metadata_incomplete", "site_id", rawID, "columns_without_metadata", missing)
	}
	return nil
}

// renameVariables maps file variable names onto catalog field names, taking units from
// the catalog, and returns how many variables had no catalog entry.
func (s *MetadataService) renameVariables(frames *sensoringest.Frames, cols []sensoringest.SiteColumn) int {
	byName := make(map[string]sensoringest.SiteColumn)
	for _, c := range cols {
		byName[c.Field] = c
		for _, a := range c.Aliases {
			if _, ok := byName[a]; !ok {
				byName[a] = c
			}
		}
	}

	meta := &frames.Meta
	nameCol := 0
	unitsCol := -1
	if len(s.opts.DescriptionColumns) > 1 {
		nameCol = max(meta.Column(s.opts.DescriptionColumns[0]), 0)
		unitsCol = meta.Column(s.opts.DescriptionColumns[1])
	}
	meta.Columns = append(meta.Columns, colAliases)

	renames := make(map[string]string)
	taken := make(map[string]bool, len(frames.Data.Variables))
	for _, v := range frames.Data.Variables {
		taken[v] = true
	}
	missing := 0
	for i := range meta.Rows {
		row := meta.Rows[i]
		for len(row) < len(meta.Columns)-1 {
			row = append(row, "")
		}
		name := meta.Cell(i, nameCol)
		c, ok := byName[name]
		if !ok {
			missing++
			meta.Rows[i] = append(row, "")
			continue
		}
		if c.Field != name && !taken[c.Field] {
			renames[name] = c.Field
			taken[c.Field] = true
			row[nameCol] = c.Field
		}
		if unitsCol >= 0 && unitsCol < len(row) && c.Units != "" {
			row[unitsCol] = c.Units
		}
		var aliases []string
		for _, a := range c.Aliases {
			if a != c.Field {
				aliases = append(aliases, a)
			}
		}
		meta.Rows[i] = append(row, strings.Join(aliases, ","))
	}

	if len(renames) == 0 {
		return missing
	}
	for i, v := range frames.Data.Variables {
		if to, ok := renames[v]; ok {
			frames.Data.Variables[i] = to
		}
	}
	for i := range frames.Data.Samples {
		vals := frames.Data.Samples[i].Values
		for from, to := range renames {
			if v, ok := vals[from]; ok {
				delete(vals, from)
				vals[to] = v
			}
		}
	}
	return missing
}

// ImportCatalog stores sites and replaces the column metadata of every site key in cols.
func (s *MetadataService) ImportCatalog(ctx context.Context, sites []sensoringest.Site, cols []sensoringest.SiteColumn) error {
	for _, site := range sites {
		site.ID = normalizeSiteID(site.ID)
		if site.ID == "" || site.Key == "" {
			return fmt.Errorf("catalog: site %q needs an id and a key", site.Name)
		}
		if err := s.siteRepo.UpsertSite(ctx, site); err != nil {
			return err
		}
	}

	byKey := make(map[string][]sensoringest.SiteColumn)
	var keys []string
	for _, c := range cols {
		if _, ok := byKey[c.SiteKey]; !ok {
			keys = append(keys, c.SiteKey)
		}
		byKey[c.SiteKey] = append(byKey[c.SiteKey], c)
	}
	for _, k := range keys {
		if err := s.siteRepo.ReplaceColumns(ctx, k, byKey[k]); err != nil {
			return err
		}
	}
	s.log.Infow("metadata_catalog_imported", "sites", len(sites), "site_keys", len(keys), "columns", len(cols))
	return nil
}
