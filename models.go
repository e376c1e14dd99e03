package sensoringest

import (
	"reflect"
	"time"
)

// Run modes.
const (
	ModeSingle = "SINGLE"
	ModeAppend = "APPEND"
	ModeBatch  = "BATCH"
)

// Run outcomes.
const (
	OutcomeCertified = "CERTIFIED"
	OutcomeBlocked   = "BLOCKED"  // duplicate timestamps with conflicting values
	OutcomeRejected  = "REJECTED" // undecodable file or schema mismatch
	OutcomeSkipped   = "SKIPPED"  // file already carried QA notes
)

// Table is a small descriptive worksheet: column metadata or station info.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Equal reports whether both tables hold the same header and cells.
func (t Table) Equal(o Table) bool {
	return reflect.DeepEqual(t.Columns, o.Columns) && reflect.DeepEqual(t.Rows, o.Rows)
}

// Column returns the index of the named column, or -1.
func (t Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row, col; out-of-range cells are empty.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	if t.Rows != nil {
		out.Rows = make([][]string, len(t.Rows))
		for i, r := range t.Rows {
			out.Rows[i] = append([]string(nil), r...)
		}
	}
	return out
}

// Frames is everything decoded from one uploaded file.
type Frames struct {
	Data    Dataset
	Meta    Table     // one row per variable: name, units, processing
	Station Table     // one row of site and logger info
	Notes   *QAReport // nil when the file has never been certified
}

// Operator is a person allowed to certify uploads.
type Operator struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
}

// CertificationRun is one entry of the certification audit log.
type CertificationRun struct {
	RunID       string    `json:"run_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Mode        string    `json:"mode"`    // SINGLE | APPEND | BATCH
	Outcome     string    `json:"outcome"` // CERTIFIED | BLOCKED | REJECTED | SKIPPED
	FileName    string    `json:"file_name"`
	OperatorID  int       `json:"operator_id,omitempty"`
	Samples     int       `json:"samples"`
	IssueCount  int       `json:"issue_count"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}

// Site is one station in the static site catalog. ID is the normalized logger site id
// (lowercase, spaces replaced by underscores); Key links it to its column metadata.
type Site struct {
	ID                      string  `json:"id"`
	Key                     string  `json:"key"`
	Name                    string  `json:"name"`
	Latitude                float64 `json:"latitude"`
	Longitude               float64 `json:"longitude"`
	ElevationM              float64 `json:"elevation_m"`
	SamplingIntervalMinutes int     `json:"sampling_interval_minutes,omitempty"`
}

// SiteColumn is the standard description of one variable recorded at a site.
type SiteColumn struct {
	SiteKey string   `json:"site_key"`
	Field   string   `json:"field"`
	Units   string   `json:"units"`
	Aliases []string `json:"aliases"`
}
