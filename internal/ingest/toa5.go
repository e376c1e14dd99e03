package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"sensoringest"
)

const toa5HeaderRows = 4

// readTOA5 decodes a Campbell TOA5 file: a station line, variable names, units and
// processing lines, then one line per sample.
func readTOA5(content []byte, opts Options) (sensoringest.Frames, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return sensoringest.Frames{}, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	if len(records) < toa5HeaderRows {
		return sensoringest.Frames{}, fmt.Errorf("%w: expected %d header lines, got %d",
			ErrMalformedFile, toa5HeaderRows, len(records))
	}

	station := sensoringest.Table{Columns: append([]string(nil), opts.StationColumns...)}
	row := make([]string, len(opts.StationColumns))
	copy(row, records[0])
	station.Rows = [][]string{row}

	header := records[1]
	tsCol := indexOfFold(header, opts.TimestampColumn, 0)
	seqCol := indexOfFold(header, opts.SequenceColumn, 1)

	var (
		vars    []string
		varCols []int
	)
	for i, h := range header {
		if i == tsCol || i == seqCol {
			continue
		}
		vars = append(vars, h)
		varCols = append(varCols, i)
	}

	meta := sensoringest.Table{Columns: append([]string(nil), opts.DescriptionColumns...)}
	for k, col := range varCols {
		desc := []string{vars[k], field(records[2], col), field(records[3], col)}
		if n := len(meta.Columns); n > 0 && n < len(desc) {
			desc = desc[:n]
		}
		meta.Rows = append(meta.Rows, desc)
	}

	ds := sensoringest.Dataset{Variables: vars}
	for n, rec := range records[toa5HeaderRows:] {
		line := n + toa5HeaderRows + 1
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		ts, err := opts.parseTime(field(rec, tsCol))
		if err != nil {
			return sensoringest.Frames{}, fmt.Errorf("%w: line %d: timestamp %q", ErrMalformedFile, line, field(rec, tsCol))
		}
		s := sensoringest.Sample{Timestamp: ts, Values: make(map[string]sensoringest.Value, len(vars))}
		if seq, err := strconv.ParseInt(strings.TrimSpace(field(rec, seqCol)), 10, 64); err == nil {
			s.SequenceNumber = seq
		}
		for k, col := range varCols {
			v, err := parseValue(field(rec, col), opts)
			if err != nil {
				return sensoringest.Frames{}, fmt.Errorf("%w: line %d, %s: %v", ErrMalformedFile, line, vars[k], err)
			}
			s.Values[vars[k]] = v
		}
		ds.Samples = append(ds.Samples, s)
	}

	return sensoringest.Frames{Data: ds, Meta: meta, Station: station}, nil
}

func parseValue(raw string, opts Options) (sensoringest.Value, error) {
	if opts.isNA(raw) {
		return sensoringest.Missing, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return sensoringest.Missing, err
	}
	return sensoringest.Reading(f), nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// indexOfFold finds name in header ignoring case, falling back to def.
func indexOfFold(header []string, name string, def int) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return def
}
