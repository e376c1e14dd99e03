package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func catalogBook(t *testing.T, sites, cols [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	require.NoError(t, f.SetSheetName("Sheet1", CatalogSitesSheet))
	for i, row := range sites {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(CatalogSitesSheet, cell, &row))
	}
	if cols != nil {
		_, err := f.NewSheet(CatalogColumnsSheet)
		require.NoError(t, err)
		for i, row := range cols {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(CatalogColumnsSheet, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadCatalog(t *testing.T) {
	content := catalogBook(t,
		[][]interface{}{
			{"SiteKey", "SiteId", "SiteName", "Latitude", "Longitude", "Elevation (m)", "Sampling Interval (min)"},
			{"BC01", "bear_creek", "Bear Creek", 45.5, -122.25, 120, 10},
			{"OK02", "oak", "Oak Flat", "", "", "", ""},
			{"", "", "", "", "", "", ""},
		},
		[][]interface{}{
			{"SiteKey", "Field", "Units", "Aliases"},
			{"BC01", "AirTemperature", "degC", "AirTemperature, Temp ,AirT"},
			{"BC01", "RH", "%", ""},
		})

	sites, cols, err := ReadCatalog(content)
	require.NoError(t, err)

	require.Len(t, sites, 2)
	assert.Equal(t, "bear_creek", sites[0].ID)
	assert.Equal(t, "BC01", sites[0].Key)
	assert.Equal(t, 45.5, sites[0].Latitude)
	assert.Equal(t, -122.25, sites[0].Longitude)
	assert.Equal(t, 120.0, sites[0].ElevationM)
	assert.Equal(t, 10, sites[0].SamplingIntervalMinutes)
	assert.Zero(t, sites[1].SamplingIntervalMinutes)

	require.Len(t, cols, 2)
	assert.Equal(t, []string{"AirTemperature", "Temp", "AirT"}, cols[0].Aliases)
	assert.Nil(t, cols[1].Aliases)
	assert.Equal(t, "%", cols[1].Units)
}

func TestReadCatalog_Errors(t *testing.T) {
	_, _, err := ReadCatalog([]byte("not a workbook"))
	assert.True(t, errors.Is(err, ErrMalformedFile))

	noColumnsSheet := catalogBook(t, [][]interface{}{{"SiteId", "SiteKey"}, {"a", "A"}}, nil)
	_, _, err = ReadCatalog(noColumnsSheet)
	assert.True(t, errors.Is(err, ErrMalformedFile))

	noKey := catalogBook(t, [][]interface{}{{"SiteId"}, {"a"}}, [][]interface{}{{"SiteKey", "Field"}})
	_, _, err = ReadCatalog(noKey)
	assert.ErrorContains(t, err, `"SiteKey"`)

	badNumber := catalogBook(t,
		[][]interface{}{{"SiteId", "SiteKey", "Latitude"}, {"a", "A", "north"}},
		[][]interface{}{{"SiteKey", "Field"}})
	_, _, err = ReadCatalog(badNumber)
	assert.True(t, errors.Is(err, ErrMalformedFile))
	assert.ErrorContains(t, err, "row 2")
}
