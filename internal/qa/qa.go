package qa

import (
	"sensoringest"
)

// Result is the outcome of one QA pass.
type Result struct {
	DuplicatesFound bool
	DropoutsFound   bool
	GapsFound       bool
	// Issue counts per check, before merging with the carried report.
	DuplicateIssues int
	DropoutIssues   int
	GapIssues       int
	Report          sensoringest.QAReport
	Dataset         sensoringest.Dataset
}

// RunQA checks a dataset and returns the corrected copy with its report.
//
// Duplicates and gaps are always checked over the whole dataset; rng, when given,
// restricts only the dropout check. Issues are appended to carried (if any), sorted by
// start and end, with exact repeats removed. A *DataConflictError is returned unchanged.
func (e *Engine) RunQA(ds sensoringest.Dataset, carried *sensoringest.QAReport, rng *sensoringest.AnalysisRange) (Result, error) {
	if ds.SamplingInterval <= 0 {
		ds.SamplingInterval = e.opts.DefaultInterval
	}

	dupIssues, deduped, err := e.ResolveDuplicates(ds)
	if err != nil {
		return Result{}, err
	}

	dropIssues := DetectDropouts(deduped, rng)
	if len(dropIssues) == 0 {
		e.log.Debugw("qa_no_missing_values")
	}

	gapIssues, fixed, err := e.FillGaps(deduped)
	if err != nil {
		return Result{}, err
	}

	issues := make([]sensoringest.Issue, 0, len(dupIssues)+len(dropIssues)+len(gapIssues))
	issues = append(issues, dupIssues...)
	issues = append(issues, dropIssues...)
	issues = append(issues, gapIssues...)

	return Result{
		DuplicatesFound: len(dupIssues) > 0,
		DropoutsFound:   len(dropIssues) > 0,
		GapsFound:       len(gapIssues) > 0,
		DuplicateIssues: len(dupIssues),
		DropoutIssues:   len(dropIssues),
		GapIssues:       len(gapIssues),
		Report:          carried.Extend(issues...),
		Dataset:         fixed,
	}, nil
}
