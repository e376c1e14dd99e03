package ingest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"sensoringest"
)

// Worksheets and headers of a site catalog workbook.
const (
	CatalogSitesSheet   = "Sites"
	CatalogColumnsSheet = "Columns"

	catSiteID    = "SiteId"
	catSiteKey   = "SiteKey"
	catSiteName  = "SiteName"
	catLatitude  = "Latitude"
	catLongitude = "Longitude"
	catElevation = "Elevation (m)"
	catInterval  = "Sampling Interval (min)"
	catField     = "Field"
	catUnits     = "Units"
	catAliases   = "Aliases"
)

// ReadCatalog decodes the static site catalog. The Sites worksheet has one row per
// station; the Columns worksheet has one row per variable with comma-separated aliases.
// Headers are matched by name, so column order is free.
func ReadCatalog(content []byte) ([]sensoringest.Site, []sensoringest.SiteColumn, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: catalog: %v", ErrMalformedFile, err)
	}
	defer func() { _ = f.Close() }()

	sites, err := readTable(f, CatalogSitesSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog %s: %w", CatalogSitesSheet, err)
	}
	if err := requireColumns(sites, catSiteID, catSiteKey); err != nil {
		return nil, nil, err
	}
	cols, err := readTable(f, CatalogColumnsSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog %s: %w", CatalogColumnsSheet, err)
	}
	if err := requireColumns(cols, catSiteKey, catField); err != nil {
		return nil, nil, err
	}

	var outSites []sensoringest.Site
	for i := range sites.Rows {
		cell := func(name string) string { return strings.TrimSpace(sites.Cell(i, sites.Column(name))) }
		if cell(catSiteID) == "" {
			continue
		}
		s := sensoringest.Site{ID: cell(catSiteID), Key: cell(catSiteKey), Name: cell(catSiteName)}
		line := i + 2
		if s.Latitude, err = catalogFloat(cell(catLatitude), line); err != nil {
			return nil, nil, err
		}
		if s.Longitude, err = catalogFloat(cell(catLongitude), line); err != nil {
			return nil, nil, err
		}
		if s.ElevationM, err = catalogFloat(cell(catElevation), line); err != nil {
			return nil, nil, err
		}
		if raw := cell(catInterval); raw != "" {
			if s.SamplingIntervalMinutes, err = strconv.Atoi(raw); err != nil {
				return nil, nil, fmt.Errorf("%w: catalog sites row %d: interval %q", ErrMalformedFile, line, raw)
			}
		}
		outSites = append(outSites, s)
	}

	var outCols []sensoringest.SiteColumn
	for i := range cols.Rows {
		cell := func(name string) string { return strings.TrimSpace(cols.Cell(i, cols.Column(name))) }
		if cell(catField) == "" {
			continue
		}
		c := sensoringest.SiteColumn{SiteKey: cell(catSiteKey), Field: cell(catField), Units: cell(catUnits)}
		for _, a := range strings.Split(cell(catAliases), ",") {
			if a = strings.TrimSpace(a); a != "" {
				c.Aliases = append(c.Aliases, a)
			}
		}
		outCols = append(outCols, c)
	}
	return outSites, outCols, nil
}

func requireColumns(t sensoringest.Table, names ...string) error {
	for _, n := range names {
		if t.Column(n) < 0 {
			return fmt.Errorf("%w: catalog is missing column %q", ErrMalformedFile, n)
		}
	}
	return nil
}

func catalogFloat(raw string, line int) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: catalog sites row %d: %q is not a number", ErrMalformedFile, line, raw)
	}
	return v, nil
}
