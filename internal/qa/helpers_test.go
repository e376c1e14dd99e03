package qa

import (
	"testing"
	"time"

	"sensoringest"
)

const step = 15 * time.Minute

var t0 = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func at(i int) time.Time { return t0.Add(time.Duration(i) * step) }

// series builds a dataset with one sample per index in idx; vals maps variable to a
// value generator (nil means missing).
func series(vars []string, idx []int, val func(v string, i int) *float64) sensoringest.Dataset {
	ds := sensoringest.Dataset{Variables: vars, SamplingInterval: step}
	for n, i := range idx {
		s := sensoringest.Sample{Timestamp: at(i), SequenceNumber: int64(n), Values: map[string]sensoringest.Value{}}
		for _, v := range vars {
			if f := val(v, i); f != nil {
				s.Values[v] = sensoringest.Reading(*f)
			} else {
				s.Values[v] = sensoringest.Missing
			}
		}
		ds.Samples = append(ds.Samples, s)
	}
	return ds
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func full(v string, i int) *float64 {
	f := float64(i) + float64(len(v))/10
	return &f
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return New(Options{DefaultInterval: step})
}
