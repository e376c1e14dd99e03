package qa

import (
	"sort"
	"time"

	"sensoringest"
)

const (
	descVariableAdded   = "New variable name introduced."
	descVariableDropped = "Variable name dropped."
)

// Append combines two decoded files into one series and returns the window the next
// RunQA call must inspect for dropouts.
//
// base is normally the previously certified file being extended and newer the freshly
// loaded one, but either may hold the older data. The row order and column layout of
// the result do not depend on which is which: rows are sorted by timestamp, the
// chronologically later file's column layout wins, and a column it dropped is placed
// just before the next column both files keep. Meta and station tables always come
// from newer.
//
// Neither input is modified. The combined dataset still needs RunQA.
func (e *Engine) Append(base, newer sensoringest.Frames) (sensoringest.Frames, sensoringest.AnalysisRange, error) {
	if base.Data.Len() == 0 || newer.Data.Len() == 0 {
		return sensoringest.Frames{}, sensoringest.AnalysisRange{}, ErrEmptyDataset
	}
	if !sharesVariable(base.Data.Variables, newer.Data.Variables) {
		return sensoringest.Frames{}, sensoringest.AnalysisRange{}, &SchemaMismatchError{
			BaseVariables: append([]string(nil), base.Data.Variables...),
			NewVariables:  append([]string(nil), newer.Data.Variables...),
		}
	}

	baseFirst := base.Data.First()
	older, later := base.Data, newer.Data
	if newer.Data.First().Before(baseFirst) {
		older, later = newer.Data, base.Data
		e.log.Warnw("append_order_reversed",
			"detail", "data in the new file is older than the base; column order follows the later data")
	}
	olderLast := older.Last()
	laterFirst := later.First()

	layout, added, dropped := reconcileColumns(older.Variables, later.Variables)

	interval := later.SamplingInterval
	if interval <= 0 {
		interval = older.SamplingInterval
	}
	if older.SamplingInterval > 0 && later.SamplingInterval > 0 &&
		older.SamplingInterval != later.SamplingInterval {
		e.log.Warnw("append_interval_mismatch",
			"older", older.SamplingInterval.String(), "later", later.SamplingInterval.String())
	}

	samples := make([]sensoringest.Sample, 0, base.Data.Len()+newer.Data.Len())
	for _, s := range newer.Data.Samples {
		samples = append(samples, s.Clone())
	}
	for _, s := range base.Data.Samples {
		samples = append(samples, s.Clone())
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return lessSample(samples[i], samples[j], layout)
	})
	data := sensoringest.Dataset{Variables: layout, Samples: samples, SamplingInterval: interval}
	data.Renumber()

	if !base.Meta.Equal(newer.Meta) {
		e.log.Warnw("append_meta_mismatch", "action", "keeping the newer column metadata")
	}
	if !base.Station.Equal(newer.Station) {
		e.log.Warnw("append_station_mismatch", "action", "keeping the newer station data")
	}

	rng := sensoringest.AnalysisRange{End: maxTime(olderLast, laterFirst)}
	var notes []sensoringest.Issue
	if base.Notes != nil {
		// Both sides are certified: only the transition needs another look.
		rng.Start = minTime(olderLast, laterFirst)
		notes = append(notes, base.Notes.Issues...)
	} else {
		rng.Start = baseFirst
	}
	if newer.Notes != nil {
		notes = append(notes, newer.Notes.Issues...)
	}
	for _, col := range added {
		notes = append(notes, schemaIssue(laterFirst, col, descVariableAdded))
	}
	for _, col := range dropped {
		notes = append(notes, schemaIssue(laterFirst, col, descVariableDropped))
	}

	e.log.Infow("append_combined",
		"samples", data.Len(), "added", len(added), "dropped", len(dropped),
		"qa_start", rng.Start, "qa_end", rng.End)

	return sensoringest.Frames{
		Data:    data,
		Meta:    newer.Meta.Clone(),
		Station: newer.Station.Clone(),
		Notes:   &sensoringest.QAReport{Issues: notes},
	}, rng, nil
}

func schemaIssue(at time.Time, col, desc string) sensoringest.Issue {
	return sensoringest.Issue{Start: at, End: at, Field: col, DataOmitted: false, Description: desc}
}

func sharesVariable(a, b []string) bool {
	in := toSet(b)
	for _, v := range a {
		if _, ok := in[v]; ok {
			return true
		}
	}
	return false
}

// reconcileColumns lays out the combined columns: later's order, with each column only
// older has moved to just before the next older column that later kept. Dropped columns
// with no kept column after them stay at the end in older's order.
func reconcileColumns(older, later []string) (layout, added, dropped []string) {
	inLater, inOlder := toSet(later), toSet(older)

	layout = append([]string(nil), later...)
	for _, col := range older {
		if _, ok := inLater[col]; !ok {
			dropped = append(dropped, col)
			layout = append(layout, col)
		}
	}
	for _, col := range later {
		if _, ok := inOlder[col]; !ok {
			added = append(added, col)
		}
	}

	for _, col := range dropped {
		idx := indexOf(older, col) + 1
		for idx < len(older) {
			if _, ok := inLater[older[idx]]; ok {
				break
			}
			idx++
		}
		if idx >= len(older) {
			continue
		}
		layout = removeAt(layout, indexOf(layout, col))
		layout = insertAt(layout, indexOf(layout, older[idx]), col)
	}
	return layout, added, dropped
}

// lessSample orders by timestamp, then by values so that rows sharing a timestamp
// land in the same order whichever file they came from.
func lessSample(a, b sensoringest.Sample, layout []string) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	for _, v := range layout {
		x, y := a.Value(v), b.Value(v)
		if x.Valid != y.Valid {
			return !x.Valid
		}
		if x.Valid && x.Float64 != y.Float64 {
			return x.Float64 < y.Float64
		}
	}
	return !a.Placeholder && b.Placeholder
}

func toSet(ss []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		m[s] = struct{}{}
	}
	return m
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return -1
}

func removeAt(ss []string, i int) []string {
	return append(ss[:i], ss[i+1:]...)
}

func insertAt(ss []string, i int, s string) []string {
	ss = append(ss, "")
	copy(ss[i+1:], ss[i:])
	ss[i] = s
	return ss
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
