package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensoringest"
	"sensoringest/internal/config"
)

func testOptions() Options {
	return Options{
		TimestampColumn:    "TIMESTAMP",
		SequenceColumn:     "RECORD",
		TimestampLayout:    "2006-01-02 15:04:05",
		NAValues:           []string{"NAN"},
		NARepresentation:   "#N/A",
		StationColumns:     []string{"Format", "SiteId", "DataLoggerModel", "Interval"},
		DescriptionColumns: []string{"Name", "Units", "Process"},
		Sheets:             config.WorksheetNames{Data: "Data", Meta: "Columns", Station: "Site", Notes: "Notes"},
		NotesColumns:       []string{"Start of issue", "End of issue", "Field", "Data omitted?", "Description"},
		DataloggerExts:     []string{".dat", ".csv"},
		ExcelExts:          []string{".xlsx"},
		DefaultInterval:    15 * time.Minute,
	}
}

const toa5 = `"TOA5","Site One","CR1000","10"
"TIMESTAMP","RECORD","AirTC_Avg","RH"
"TS","RN","Deg C","%"
"","","Avg","Smp"
"2024-03-01 00:00:00",10,1.5,80
"2024-03-01 00:10:00",11,"NAN",81.25
"2024-03-01 00:20:00",12,2,
`

func ts(s string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04:05", s)
	return t
}

func TestLoad_TOA5(t *testing.T) {
	frames, err := Load("station.dat", []byte(toa5), testOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"AirTC_Avg", "RH"}, frames.Data.Variables)
	require.Equal(t, 3, frames.Data.Len())
	assert.Equal(t, 10*time.Minute, frames.Data.SamplingInterval)
	assert.Nil(t, frames.Notes)

	s := frames.Data.Samples[1]
	assert.Equal(t, ts("2024-03-01 00:10:00"), s.Timestamp)
	assert.Equal(t, int64(11), s.SequenceNumber)
	assert.False(t, s.Value("AirTC_Avg").Valid)
	assert.Equal(t, sensoringest.Reading(81.25), s.Value("RH"))
	assert.False(t, frames.Data.Samples[2].Value("RH").Valid)

	assert.Equal(t, []string{"Name", "Units", "Process"}, frames.Meta.Columns)
	assert.Equal(t, []string{"AirTC_Avg", "Deg C", "Avg"}, frames.Meta.Rows[0])
	assert.Equal(t, "Site One", frames.Station.Cell(0, frames.Station.Column("SiteId")))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("notes.txt", []byte("x"), testOptions())
	var unsupported *UnsupportedFileTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".txt", unsupported.Ext)
	assert.True(t, errors.Is(err, ErrUnsupportedFileType))

	_, err = Load("short.dat", []byte("a,b\n"), testOptions())
	assert.ErrorIs(t, err, ErrMalformedFile)

	bad := toa5 + "\"not a time\",13,1,1\n"
	_, err = Load("bad.dat", []byte(bad), testOptions())
	assert.ErrorIs(t, err, ErrMalformedFile)
	assert.Contains(t, err.Error(), "bad.dat")

	_, err = Load("broken.xlsx", []byte("not a zip"), testOptions())
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestWorkbook_RoundTrip(t *testing.T) {
	opts := testOptions()
	frames, err := Load("station.dat", []byte(toa5), opts)
	require.NoError(t, err)

	placeholder := sensoringest.Sample{
		Timestamp:      ts("2024-03-01 00:30:00"),
		SequenceNumber: 3,
		Values:         map[string]sensoringest.Value{},
		Placeholder:    true,
	}
	frames.Data.Samples = append(frames.Data.Samples, placeholder)
	frames.Notes = &sensoringest.QAReport{Issues: []sensoringest.Issue{
		{Start: ts("2024-03-01 00:10:00"), End: ts("2024-03-01 00:10:00"), Field: "AirTC_Avg", DataOmitted: true, Description: "Unknown"},
		{Start: placeholder.Timestamp, End: placeholder.Timestamp, Field: "All", DataOmitted: true, Description: "Unknown; 1 NA-filled record inserted and RECORD renumbered."},
	}}

	raw, err := WriteWorkbook(frames, opts)
	require.NoError(t, err)

	back, err := Load("certified.xlsx", raw, opts)
	require.NoError(t, err)

	assert.Equal(t, frames.Data.Variables, back.Data.Variables)
	require.Equal(t, 4, back.Data.Len())
	for i := 0; i < 3; i++ {
		assert.Equal(t, frames.Data.Samples[i], back.Data.Samples[i])
	}
	last := back.Data.Samples[3]
	assert.True(t, last.Placeholder)
	assert.False(t, last.Value("RH").Valid)
	assert.False(t, back.Data.Samples[1].Placeholder)

	require.NotNil(t, back.Notes)
	assert.Equal(t, frames.Notes.Issues, back.Notes.Issues)
	assert.True(t, frames.Meta.Equal(back.Meta))
	assert.True(t, frames.Station.Equal(back.Station))
	assert.Equal(t, 10*time.Minute, back.Data.SamplingInterval)
}

func TestWorkbook_EmptyNotesMeansCertified(t *testing.T) {
	opts := testOptions()
	frames, err := Load("station.dat", []byte(toa5), opts)
	require.NoError(t, err)

	raw, err := WriteWorkbook(frames, opts)
	require.NoError(t, err)
	back, err := Load("certified.xlsx", raw, opts)
	require.NoError(t, err)

	require.NotNil(t, back.Notes)
	assert.Empty(t, back.Notes.Issues)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "RECORD", opts.SequenceColumn)
	assert.Equal(t, 15*time.Minute, opts.DefaultInterval)
	assert.Equal(t, "Columns", opts.Sheets.Meta)
}

func TestDecodeNotes_LinkColumnAnywhere(t *testing.T) {
	opts := testOptions()
	rows := [][]string{
		{"Start of issue", "Link", "End of issue", "Field", "Data omitted?", "Description"},
		{"2024-05-01 00:15:00", "Data", "2024-05-01 00:30:00", "All", "Yes", "Unknown; 2 NA-filled records inserted and RECORD renumbered."},
		{},
	}
	report, err := decodeNotes(rows, opts)
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	is := report.Issues[0]
	assert.Equal(t, ts("2024-05-01 00:15:00"), is.Start)
	assert.Equal(t, ts("2024-05-01 00:30:00"), is.End)
	assert.Equal(t, sensoringest.FieldAll, is.Field)
	assert.True(t, is.DataOmitted)
}
