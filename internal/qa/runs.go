package qa

import "time"

// run is a maximal sequence of timestamps each exactly one interval after the previous.
// lo and hi index the input slice, inclusive.
type run struct {
	start, end time.Time
	lo, hi     int
}

func (r run) size() int { return r.hi - r.lo + 1 }

// groupRuns splits ascending timestamps into interval-adjacent runs.
func groupRuns(ts []time.Time, interval time.Duration) []run {
	if len(ts) == 0 {
		return nil
	}
	var out []run
	cur := run{start: ts[0], end: ts[0], lo: 0, hi: 0}
	for i := 1; i < len(ts); i++ {
		if ts[i].Sub(ts[i-1]) == interval {
			cur.end = ts[i]
			cur.hi = i
			continue
		}
		out = append(out, cur)
		cur = run{start: ts[i], end: ts[i], lo: i, hi: i}
	}
	return append(out, cur)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
