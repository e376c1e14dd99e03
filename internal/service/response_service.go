package service

import (
	"time"

	"sensoringest"
)

// Upload is one file received for certification.
type Upload struct {
	Name    string
	Content []byte
}

// Certificate is the result of certifying one upload or one append.
type Certificate struct {
	RunID            string                      `json:"run_id"`
	FileName         string                      `json:"file_name"`
	Mode             string                      `json:"mode"`
	Outcome          string                      `json:"outcome"`
	AlreadyCertified bool                        `json:"already_certified"`
	DuplicatesFound  bool                        `json:"duplicates_found"`
	DropoutsFound    bool                        `json:"dropouts_found"`
	GapsFound        bool                        `json:"gaps_found"`
	Samples          int                         `json:"samples"`
	Range            *sensoringest.AnalysisRange `json:"qa_range,omitempty"`
	Notes            *sensoringest.QAReport      `json:"notes,omitempty"`
	Frames           sensoringest.Frames         `json:"-"`
}

// BatchItem is the per-file result of a batch run. Err is set when the file was not certified.
type BatchItem struct {
	Index       int          `json:"index"`
	FileName    string       `json:"file_name"`
	Certificate *Certificate `json:"certificate,omitempty"`
	Err         error        `json:"-"`
	Error       string       `json:"error,omitempty"`
}

// RunFilter supports history filtering by time range and outcome.
type RunFilter struct {
	From    time.Time // inclusive; zero means no lower bound
	To      time.Time // inclusive; zero means no upper bound
	Outcome string    // "", "CERTIFIED", "BLOCKED", "REJECTED", "SKIPPED"
}
