package sensoringest

import (
	"sort"
	"time"
)

// Value is one optional numeric reading. Valid is false when the logger recorded no reading.
type Value struct {
	Float64 float64
	Valid   bool
}

// Reading returns a present Value.
func Reading(f float64) Value { return Value{Float64: f, Valid: true} }

// Missing is the absent Value.
var Missing = Value{}

// Sample is one time-stamped reading across all monitored variables.
type Sample struct {
	Timestamp      time.Time
	SequenceNumber int64
	Values         map[string]Value
	Placeholder    bool // inserted to fill a gap in the time grid
}

// Value returns the reading for a variable; an absent key is Missing.
func (s Sample) Value(variable string) Value {
	if s.Values == nil {
		return Missing
	}
	return s.Values[variable]
}

// Clone returns a deep copy of the sample.
func (s Sample) Clone() Sample {
	out := s
	if s.Values != nil {
		out.Values = make(map[string]Value, len(s.Values))
		for k, v := range s.Values {
			out.Values[k] = v
		}
	}
	return out
}

// Dataset is an ordered series of samples on a nominal sampling grid.
// Variables holds the column layout, excluding the timestamp and record columns.
type Dataset struct {
	Variables        []string
	Samples          []Sample
	SamplingInterval time.Duration
}

// Len returns the number of samples.
func (d Dataset) Len() int { return len(d.Samples) }

// Clone returns a deep copy; the engine never mutates the caller's dataset.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Variables:        append([]string(nil), d.Variables...),
		Samples:          make([]Sample, len(d.Samples)),
		SamplingInterval: d.SamplingInterval,
	}
	for i, s := range d.Samples {
		out.Samples[i] = s.Clone()
	}
	return out
}

// Timestamps returns the sample timestamps in dataset order.
func (d Dataset) Timestamps() []time.Time {
	out := make([]time.Time, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = s.Timestamp
	}
	return out
}

// First and Last return the earliest and latest timestamps. Both are zero for an empty dataset.
func (d Dataset) First() time.Time {
	var first time.Time
	for i, s := range d.Samples {
		if i == 0 || s.Timestamp.Before(first) {
			first = s.Timestamp
		}
	}
	return first
}

func (d Dataset) Last() time.Time {
	var last time.Time
	for i, s := range d.Samples {
		if i == 0 || s.Timestamp.After(last) {
			last = s.Timestamp
		}
	}
	return last
}

// SortByTime orders samples by timestamp, keeping the relative order of equal timestamps.
func (d *Dataset) SortByTime() {
	sort.SliceStable(d.Samples, func(i, j int) bool {
		return d.Samples[i].Timestamp.Before(d.Samples[j].Timestamp)
	})
}

// Renumber reassigns SequenceNumber densely from zero in the current sample order.
func (d *Dataset) Renumber() {
	for i := range d.Samples {
		d.Samples[i].SequenceNumber = int64(i)
	}
}

// HasVariable reports whether name is part of the column layout.
func (d Dataset) HasVariable(name string) bool {
	for _, v := range d.Variables {
		if v == name {
			return true
		}
	}
	return false
}
