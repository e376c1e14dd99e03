package qa

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensoringest"
)

func TestResolveDuplicates_ExactRepeat(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	ds := series([]string{"Temp", "RH"}, []int{0, 1, 2, 2, 3, 4}, full)

	issues, out, err := e.ResolveDuplicates(ds)
	require.NoError(t, err)

	assert.Equal(t, 5, out.Len())
	require.Len(t, issues, 1)
	assert.Equal(t, at(2), issues[0].Start)
	assert.Equal(t, at(2), issues[0].End)
	assert.Equal(t, sensoringest.FieldAll, issues[0].Field)
	assert.False(t, issues[0].DataOmitted)
	assert.Contains(t, issues[0].Description, "1 duplicate")
	assert.Equal(t, 6, ds.Len(), "input must not be modified")
}

func TestResolveDuplicates_AdjacentRepeatsGroupIntoOneIssue(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	ds := series([]string{"Temp"}, []int{0, 1, 1, 2, 2, 2, 5, 7, 7}, full)

	issues, out, err := e.ResolveDuplicates(ds)
	require.NoError(t, err)

	assert.Equal(t, 5, out.Len())
	require.Len(t, issues, 2)
	assert.Equal(t, at(1), issues[0].Start)
	assert.Equal(t, at(2), issues[0].End)
	assert.Equal(t, "Repeated samples; 3 duplicates removed.", issues[0].Description)
	assert.Equal(t, at(7), issues[1].Start)
	assert.Equal(t, "Repeated samples; 1 duplicate removed.", issues[1].Description)
}

func TestResolveDuplicates_MissingValuesCompareEqual(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	none := func(string, int) *float64 { return nil }
	ds := series([]string{"Temp"}, []int{0, 0}, none)

	issues, out, err := e.ResolveDuplicates(ds)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Len(t, issues, 1)
}

func TestResolveDuplicates_Conflict(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	ds := series([]string{"Temp"}, []int{0, 1, 2}, full)
	ds.Samples = append(ds.Samples, sensoringest.Sample{
		Timestamp: at(1),
		Values:    map[string]sensoringest.Value{"Temp": sensoringest.Reading(99)},
	})

	issues, out, err := e.ResolveDuplicates(ds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataConflict))

	var conflict *DataConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []time.Time{at(1)}, conflict.Timestamps)
	assert.Contains(t, err.Error(), "2024-03-01 00:15:00")
	assert.Nil(t, issues)
	assert.Equal(t, 4, out.Len(), "no row may be dropped on conflict")
}

func TestResolveDuplicates_PresentVersusMissingIsConflict(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	ds := series([]string{"Temp"}, []int{0}, full)
	ds.Samples = append(ds.Samples, sensoringest.Sample{
		Timestamp: at(0),
		Values:    map[string]sensoringest.Value{"Temp": sensoringest.Missing},
	})

	_, _, err := e.ResolveDuplicates(ds)
	assert.ErrorIs(t, err, ErrDataConflict)
}
