package ingest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"sensoringest"
)

const (
	linkColumn   = "Link"
	minColWidth  = 8
	maxColWidth  = 60
	omittedValue = "yes"
)

// readWorkbook decodes a workbook written by WriteWorkbook, possibly edited by hand.
func readWorkbook(content []byte, opts Options) (sensoringest.Frames, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return sensoringest.Frames{}, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	defer f.Close()

	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}
	for _, name := range []string{opts.Sheets.Data, opts.Sheets.Meta, opts.Sheets.Station} {
		if !sheets[name] {
			return sensoringest.Frames{}, fmt.Errorf("%w: worksheet %q not found", ErrMalformedFile, name)
		}
	}

	dataRows, err := f.GetRows(opts.Sheets.Data, excelize.Options{RawCellValue: true})
	if err != nil {
		return sensoringest.Frames{}, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	ds, err := decodeDataSheet(dataRows, opts)
	if err != nil {
		return sensoringest.Frames{}, err
	}

	meta, err := readTable(f, opts.Sheets.Meta)
	if err != nil {
		return sensoringest.Frames{}, err
	}
	station, err := readTable(f, opts.Sheets.Station)
	if err != nil {
		return sensoringest.Frames{}, err
	}

	frames := sensoringest.Frames{Data: ds, Meta: meta, Station: station}
	if sheets[opts.Sheets.Notes] {
		rows, err := f.GetRows(opts.Sheets.Notes)
		if err != nil {
			return sensoringest.Frames{}, fmt.Errorf("%w: %v", ErrMalformedFile, err)
		}
		notes, err := decodeNotes(rows, opts)
		if err != nil {
			return sensoringest.Frames{}, err
		}
		frames.Notes = notes
		restorePlaceholders(&frames.Data, notes)
	}
	return frames, nil
}

func decodeDataSheet(rows [][]string, opts Options) (sensoringest.Dataset, error) {
	if len(rows) == 0 {
		return sensoringest.Dataset{}, fmt.Errorf("%w: data worksheet is empty", ErrMalformedFile)
	}
	header := rows[0]
	tsCol := indexOfFold(header, opts.TimestampColumn, 0)
	seqCol := indexOfFold(header, opts.SequenceColumn, 1)

	var (
		vars    []string
		varCols []int
	)
	for i, h := range header {
		if i == tsCol || i == seqCol || strings.TrimSpace(h) == "" {
			continue
		}
		vars = append(vars, h)
		varCols = append(varCols, i)
	}

	ds := sensoringest.Dataset{Variables: vars}
	for n, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		ts, err := opts.parseTime(field(row, tsCol))
		if err != nil {
			return sensoringest.Dataset{}, fmt.Errorf("%w: data row %d: timestamp %q", ErrMalformedFile, n+2, field(row, tsCol))
		}
		s := sensoringest.Sample{Timestamp: ts, Values: make(map[string]sensoringest.Value, len(vars))}
		if seq, err := strconv.ParseInt(strings.TrimSpace(field(row, seqCol)), 10, 64); err == nil {
			s.SequenceNumber = seq
		}
		for k, col := range varCols {
			v, err := parseValue(field(row, col), opts)
			if err != nil {
				return sensoringest.Dataset{}, fmt.Errorf("%w: data row %d, %s: %v", ErrMalformedFile, n+2, vars[k], err)
			}
			s.Values[vars[k]] = v
		}
		ds.Samples = append(ds.Samples, s)
	}
	return ds, nil
}

func readTable(f *excelize.File, sheet string) (sensoringest.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return sensoringest.Table{}, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	if len(rows) == 0 {
		return sensoringest.Table{}, nil
	}
	t := sensoringest.Table{Columns: rows[0]}
	for _, r := range rows[1:] {
		row := make([]string, len(t.Columns))
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// decodeNotes reads the issue list. Columns are positional once the Link column, wherever
// it sits, is removed; anything after the fifth column is ignored.
func decodeNotes(rows [][]string, opts Options) (*sensoringest.QAReport, error) {
	report := &sensoringest.QAReport{}
	if len(rows) <= 1 {
		return report, nil
	}
	link := indexOfFold(rows[0], linkColumn, -1)
	for n, row := range rows[1:] {
		if link >= 0 && link < len(row) {
			row = append(append([]string(nil), row[:link]...), row[link+1:]...)
		}
		if len(row) == 0 {
			continue
		}
		start, err := opts.parseTime(field(row, 0))
		if err != nil {
			return nil, fmt.Errorf("%w: notes row %d: start %q", ErrMalformedFile, n+2, field(row, 0))
		}
		end, err := opts.parseTime(field(row, 1))
		if err != nil {
			return nil, fmt.Errorf("%w: notes row %d: end %q", ErrMalformedFile, n+2, field(row, 1))
		}
		report.Issues = append(report.Issues, sensoringest.Issue{
			Start:       start,
			End:         end,
			Field:       field(row, 2),
			DataOmitted: strings.EqualFold(strings.TrimSpace(field(row, 3)), omittedValue),
			Description: field(row, 4),
		})
	}
	return report, nil
}

// restorePlaceholders marks samples inserted by an earlier gap fill. A workbook has no
// place for the flag, so it is recovered from the carried missing-sample issues.
func restorePlaceholders(ds *sensoringest.Dataset, notes *sensoringest.QAReport) {
	var spans []sensoringest.AnalysisRange
	for _, is := range notes.Issues {
		if is.Field == sensoringest.FieldAll && is.DataOmitted {
			spans = append(spans, sensoringest.AnalysisRange{Start: is.Start, End: is.End})
		}
	}
	if len(spans) == 0 {
		return
	}
	for i := range ds.Samples {
		s := &ds.Samples[i]
		if !allMissing(*s) {
			continue
		}
		for k := range spans {
			if spans[k].Contains(s.Timestamp) {
				s.Placeholder = true
				break
			}
		}
	}
}

func allMissing(s sensoringest.Sample) bool {
	for _, v := range s.Values {
		if v.Valid {
			return false
		}
	}
	return true
}

// WriteWorkbook encodes certified frames as a workbook with data, column, site and notes
// worksheets. Each note links to the data row where the issue starts.
func WriteWorkbook(frames sensoringest.Frames, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), opts.Sheets.Data); err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	for _, name := range []string{opts.Sheets.Meta, opts.Sheets.Station, opts.Sheets.Notes} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("workbook: add %q: %w", name, err)
		}
	}

	dataHeader, dataRows, rowOf := encodeData(frames.Data, opts)
	if err := writeSheet(f, opts.Sheets.Data, dataHeader, dataRows); err != nil {
		return nil, err
	}
	if err := writeSheet(f, opts.Sheets.Meta, frames.Meta.Columns, tableRows(frames.Meta)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, opts.Sheets.Station, frames.Station.Columns, tableRows(frames.Station)); err != nil {
		return nil, err
	}

	notesHeader := append(append([]string(nil), opts.NotesColumns...), linkColumn)
	var notesRows [][]interface{}
	if frames.Notes != nil {
		for _, is := range frames.Notes.Issues {
			row := []interface{}{
				is.Start.Format(opts.timeLayout()),
				is.End.Format(opts.timeLayout()),
				is.Field,
				is.Omitted(),
				is.Description,
			}
			if r, ok := rowOf[is.Start.Unix()]; ok {
				row = append(row, excelize.Cell{
					Formula: fmt.Sprintf(`HYPERLINK("#'%s'!A%d","%s")`, opts.Sheets.Data, r, opts.Sheets.Data),
					Value:   opts.Sheets.Data,
				})
			}
			notesRows = append(notesRows, row)
		}
	}
	if err := writeSheet(f, opts.Sheets.Notes, notesHeader, notesRows); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeData renders the data sheet and maps each timestamp to its 1-based sheet row.
func encodeData(ds sensoringest.Dataset, opts Options) ([]string, [][]interface{}, map[int64]int) {
	header := append([]string{opts.TimestampColumn, opts.SequenceColumn}, ds.Variables...)
	rows := make([][]interface{}, 0, len(ds.Samples))
	rowOf := make(map[int64]int, len(ds.Samples))
	for i, s := range ds.Samples {
		row := make([]interface{}, 0, len(header))
		row = append(row, s.Timestamp.Format(opts.timeLayout()), s.SequenceNumber)
		for _, v := range ds.Variables {
			if val := s.Value(v); val.Valid {
				row = append(row, val.Float64)
			} else {
				row = append(row, opts.NARepresentation)
			}
		}
		rows = append(rows, row)
		if _, ok := rowOf[s.Timestamp.Unix()]; !ok {
			rowOf[s.Timestamp.Unix()] = i + 2
		}
	}
	return header, rows, rowOf
}

func tableRows(t sensoringest.Table) [][]interface{} {
	out := make([][]interface{}, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]interface{}, len(r))
		for j, c := range r {
			row[j] = c
		}
		out[i] = row
	}
	return out
}

// writeSheet streams header and rows into sheet with column widths fitted to content.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, v := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := len(cellText(v)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("workbook: %s: %w", sheet, err)
	}
	for i, w := range widths {
		w += 2
		if w < minColWidth {
			w = minColWidth
		}
		if w > maxColWidth {
			w = maxColWidth
		}
		if err := sw.SetColWidth(i+1, i+1, float64(w)); err != nil {
			return fmt.Errorf("workbook: %s: %w", sheet, err)
		}
	}

	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := sw.SetRow("A1", head); err != nil {
		return fmt.Errorf("workbook: %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("workbook: %s: %w", sheet, err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("workbook: %s: %w", sheet, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("workbook: %s: %w", sheet, err)
	}
	return nil
}

func cellText(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case excelize.Cell:
		return fmt.Sprint(x.Value)
	default:
		return fmt.Sprint(x)
	}
}
