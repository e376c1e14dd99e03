package sensoringest

import (
	"sort"
	"time"
)

// FieldAll marks an issue that affects every variable of a sample.
const FieldAll = "All"

// Issue is one reported, timestamped anomaly: a contiguous run of one kind of problem.
type Issue struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Field       string    `json:"field"`
	DataOmitted bool      `json:"data_omitted"`
	Description string    `json:"description"`
}

// Omitted renders DataOmitted the way the notes worksheet shows it.
func (i Issue) Omitted() string {
	if i.DataOmitted {
		return "Yes"
	}
	return "No"
}

// Equal compares every field; timestamps are compared as instants.
func (i Issue) Equal(o Issue) bool {
	return i.Start.Equal(o.Start) &&
		i.End.Equal(o.End) &&
		i.Field == o.Field &&
		i.DataOmitted == o.DataOmitted &&
		i.Description == o.Description
}

// QAReport is the ordered list of issues found for one logical series.
type QAReport struct {
	Issues []Issue `json:"issues"`
}

// Len returns the number of issues.
func (r *QAReport) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Issues)
}

// Clone returns a copy that shares nothing with r. A nil report clones to nil.
func (r *QAReport) Clone() *QAReport {
	if r == nil {
		return nil
	}
	return &QAReport{Issues: append([]Issue(nil), r.Issues...)}
}

// Extend returns a report holding r's issues followed by extra, sorted by (Start, End)
// with exact duplicate records removed. r is left untouched.
func (r *QAReport) Extend(extra ...Issue) QAReport {
	all := make([]Issue, 0, r.Len()+len(extra))
	if r != nil {
		all = append(all, r.Issues...)
	}
	all = append(all, extra...)

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Start.Equal(all[j].Start) {
			return all[i].Start.Before(all[j].Start)
		}
		return all[i].End.Before(all[j].End)
	})

	out := make([]Issue, 0, len(all))
	for _, is := range all {
		dup := false
		for _, kept := range out {
			if kept.Equal(is) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, is)
		}
	}
	return QAReport{Issues: out}
}

// AnalysisRange is an inclusive [Start, End] window of timestamps.
type AnalysisRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window. A nil range contains everything.
func (r *AnalysisRange) Contains(t time.Time) bool {
	if r == nil {
		return true
	}
	return !t.Before(r.Start) && !t.After(r.End)
}
