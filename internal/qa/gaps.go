package qa

import (
	"fmt"
	"time"

	"sensoringest"
)

// FillGaps puts the dataset on a strictly regular grid from its first to its last
// timestamp, inserting a placeholder sample (every variable missing) at each grid point
// that has no sample. SequenceNumber is renumbered from zero afterwards.
//
// The grid is anchored at the earliest timestamp. Samples that fall between grid points
// cannot be placed and are dropped with a warning.
func (e *Engine) FillGaps(ds sensoringest.Dataset) ([]sensoringest.Issue, sensoringest.Dataset, error) {
	interval := ds.SamplingInterval
	if interval <= 0 {
		return nil, ds, fmt.Errorf("fill gaps: %w (got %s)", ErrInvalidInterval, interval)
	}

	out := ds.Clone()
	if len(out.Samples) == 0 {
		return nil, out, nil
	}
	out.SortByTime()

	first := out.Samples[0].Timestamp
	last := out.Samples[len(out.Samples)-1].Timestamp
	steps := int64(last.Sub(first) / interval)
	if steps+1 > int64(e.opts.MaxGridSamples) {
		return nil, ds, fmt.Errorf("fill gaps: %w: %d points from %s to %s",
			ErrGridTooLarge, steps+1, first.Format(conflictTimeLayout), last.Format(conflictTimeLayout))
	}

	onGrid := make(map[int64]sensoringest.Sample, len(out.Samples))
	offGrid, repeated := 0, 0
	for _, s := range out.Samples {
		off := s.Timestamp.Sub(first)
		if off%interval != 0 {
			offGrid++
			continue
		}
		k := int64(off / interval)
		if _, ok := onGrid[k]; ok {
			repeated++
			continue
		}
		onGrid[k] = s
	}
	if offGrid > 0 {
		e.log.Warnw("qa_off_grid_samples_dropped", "count", offGrid, "interval", interval.String())
	}
	if repeated > 0 {
		e.log.Warnw("qa_repeated_samples_dropped", "count", repeated)
	}

	grid := make([]sensoringest.Sample, 0, steps+1)
	var inserted []time.Time
	for k := int64(0); k <= steps; k++ {
		if s, ok := onGrid[k]; ok {
			grid = append(grid, s)
			continue
		}
		ts := first.Add(time.Duration(k) * interval)
		grid = append(grid, sensoringest.Sample{
			Timestamp:   ts,
			Values:      map[string]sensoringest.Value{},
			Placeholder: true,
		})
		inserted = append(inserted, ts)
	}
	out.Samples = grid
	out.Renumber()

	var issues []sensoringest.Issue
	for _, r := range groupRuns(inserted, interval) {
		n := r.size()
		issues = append(issues, sensoringest.Issue{
			Start:       r.start,
			End:         r.end,
			Field:       sensoringest.FieldAll,
			DataOmitted: true,
			Description: fmt.Sprintf("Unknown; %d NA-filled record%s inserted and %s renumbered.",
				n, plural(n), e.opts.SequenceColumn),
		})
	}
	if len(inserted) > 0 {
		e.log.Infow("qa_missing_samples_filled", "inserted", len(inserted), "runs", len(issues))
	}
	return issues, out, nil
}
