package qa

import (
	"fmt"
	"time"

	"sensoringest"
)

// ResolveDuplicates drops repeated samples whose values are identical and reports each
// run of repeated timestamps. If any repeated timestamp carries different values it
// returns a *DataConflictError naming all of them and leaves ds untouched.
//
// SequenceNumber is ignored when comparing samples.
func (e *Engine) ResolveDuplicates(ds sensoringest.Dataset) ([]sensoringest.Issue, sensoringest.Dataset, error) {
	sorted := ds.Clone()
	sorted.SortByTime()
	vars := variableUnion(sorted)

	var (
		kept      = make([]sensoringest.Sample, 0, len(sorted.Samples))
		repeated  []time.Time
		removed   []int
		conflicts []time.Time
	)
	for i := 0; i < len(sorted.Samples); {
		j := i + 1
		for j < len(sorted.Samples) && sorted.Samples[j].Timestamp.Equal(sorted.Samples[i].Timestamp) {
			j++
		}
		group := sorted.Samples[i:j]
		if len(group) > 1 {
			if identical(group, vars) {
				repeated = append(repeated, group[0].Timestamp)
				removed = append(removed, len(group)-1)
			} else {
				conflicts = append(conflicts, group[0].Timestamp)
			}
		}
		kept = append(kept, group[0])
		i = j
	}

	if len(conflicts) > 0 {
		e.log.Infow("qa_duplicate_conflict", "timestamps", len(conflicts))
		return nil, ds, &DataConflictError{Timestamps: conflicts}
	}
	if len(repeated) == 0 {
		return nil, sorted, nil
	}

	var issues []sensoringest.Issue
	for _, r := range groupRuns(repeated, sorted.SamplingInterval) {
		n := 0
		for k := r.lo; k <= r.hi; k++ {
			n += removed[k]
		}
		issues = append(issues, sensoringest.Issue{
			Start:       r.start,
			End:         r.end,
			Field:       sensoringest.FieldAll,
			DataOmitted: false,
			Description: fmt.Sprintf("Repeated samples; %d duplicate%s removed.", n, plural(n)),
		})
	}

	e.log.Infow("qa_duplicates_removed", "original", len(sorted.Samples), "deduplicated", len(kept))
	sorted.Samples = kept
	return issues, sorted, nil
}

// identical reports whether every sample in the group has the same value for every variable.
func identical(group []sensoringest.Sample, vars []string) bool {
	first := group[0]
	for _, s := range group[1:] {
		for _, v := range vars {
			if !sameValue(first.Value(v), s.Value(v)) {
				return false
			}
		}
	}
	return true
}

// sameValue compares two readings exactly; two missing readings are equal.
func sameValue(a, b sensoringest.Value) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Float64 == b.Float64
}

// variableUnion returns the layout followed by any value keys the layout does not name.
func variableUnion(ds sensoringest.Dataset) []string {
	seen := make(map[string]struct{}, len(ds.Variables))
	out := make([]string, 0, len(ds.Variables))
	for _, v := range ds.Variables {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	for _, s := range ds.Samples {
		for k := range s.Values {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				out = append(out, k)
			}
		}
	}
	return out
}
