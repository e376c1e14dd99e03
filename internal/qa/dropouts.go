package qa

import (
	"sort"
	"time"

	"sensoringest"
)

// dropoutDescription is used for every dropout: the cause cannot be inferred from the data.
const dropoutDescription = "Unknown"

// DetectDropouts reports each run of missing values per variable. When rng is not nil only
// samples inside it are inspected, so data certified by an earlier run is not reported twice.
// Placeholder samples inserted by FillGaps are gaps, not dropouts, and are skipped.
func DetectDropouts(ds sensoringest.Dataset, rng *sensoringest.AnalysisRange) []sensoringest.Issue {
	order := make([]int, len(ds.Samples))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ds.Samples[order[a]].Timestamp.Before(ds.Samples[order[b]].Timestamp)
	})

	var issues []sensoringest.Issue
	for _, v := range ds.Variables {
		var missing []time.Time
		for _, idx := range order {
			s := ds.Samples[idx]
			if s.Placeholder || !rng.Contains(s.Timestamp) {
				continue
			}
			if !s.Value(v).Valid {
				missing = append(missing, s.Timestamp)
			}
		}
		for _, r := range groupRuns(missing, ds.SamplingInterval) {
			issues = append(issues, sensoringest.Issue{
				Start:       r.start,
				End:         r.end,
				Field:       v,
				DataOmitted: true,
				Description: dropoutDescription,
			})
		}
	}
	return issues
}
