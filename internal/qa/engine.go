// Package qa certifies sensor time series: it resolves duplicate samples, reports
// dropouts in individual variables, fills gaps in the sampling grid and stitches two
// capture sessions into one series.
//
// Every operation works on copies. The engine holds no mutable state, so one Engine
// may serve any number of goroutines.
package qa

import (
	"time"

	"sensoringest/internal/logger"
)

const (
	defaultSequenceColumn = "RECORD"
	defaultMaxGridSamples = 5_000_000
)

// Options configures an Engine.
type Options struct {
	// DefaultInterval applies to datasets that carry no sampling interval of their own.
	DefaultInterval time.Duration
	// SequenceColumn names the record-number column in issue descriptions.
	SequenceColumn string
	// MaxGridSamples bounds the size of a gap-filled dataset.
	MaxGridSamples int
	Logger         *logger.Logger
}

// Engine runs QA and append operations.
type Engine struct {
	opts Options
	log  *logger.Logger
}

// New returns an engine with defaults applied to zero-valued options.
func New(opts Options) *Engine {
	if opts.SequenceColumn == "" {
		opts.SequenceColumn = defaultSequenceColumn
	}
	if opts.MaxGridSamples <= 0 {
		opts.MaxGridSamples = defaultMaxGridSamples
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{opts: opts, log: log.Named("qa")}
}
