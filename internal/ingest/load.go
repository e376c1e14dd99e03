// Package ingest decodes uploaded station files into frames and encodes certified frames
// back into a workbook.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"sensoringest"
	"sensoringest/internal/config"
	"sensoringest/internal/qa"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrMalformedFile       = errors.New("malformed file")
)

// UnsupportedFileTypeError names an upload whose extension no decoder handles.
type UnsupportedFileTypeError struct {
	Name string
	Ext  string
}

// Error implements the error interface
func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("%s: file type %q is not supported", e.Name, e.Ext)
}

// Is implements errors.Is support
func (e *UnsupportedFileTypeError) Is(target error) bool {
	return target == ErrUnsupportedFileType
}

// Options carries every layout setting the decoders and the workbook writer need.
type Options struct {
	TimestampColumn    string
	SequenceColumn     string
	TimestampLayout    string
	NAValues           []string
	NARepresentation   string
	StationColumns     []string
	DescriptionColumns []string
	Sheets             config.WorksheetNames
	NotesColumns       []string
	DataloggerExts     []string
	ExcelExts          []string
	DefaultInterval    time.Duration
}

// OptionsFromConfig maps loaded settings onto decoder options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	interval, err := cfg.DefaultSamplingInterval()
	if err != nil {
		return Options{}, err
	}
	return Options{
		TimestampColumn:    cfg.Metadata.TimestampColumn,
		SequenceColumn:     cfg.Metadata.SequenceNumberColumn,
		TimestampLayout:    cfg.Metadata.TimestampLayout,
		NAValues:           cfg.Metadata.NAValues,
		NARepresentation:   cfg.Output.DataNARepresentation,
		StationColumns:     cfg.Metadata.StationColumns,
		DescriptionColumns: cfg.Metadata.VariableDescriptionColumns,
		Sheets:             cfg.Output.WorksheetNames,
		NotesColumns:       cfg.Output.NotesColumns,
		DataloggerExts:     cfg.Input.DataloggerFileExtensions,
		ExcelExts:          cfg.Input.ExcelFileExtensions,
		DefaultInterval:    interval,
	}, nil
}

// Load decodes one uploaded file, choosing the decoder by extension.
// The sampling interval is taken from the station table when it names one.
func Load(name string, content []byte, opts Options) (sensoringest.Frames, error) {
	ext := strings.ToLower(filepath.Ext(name))

	var (
		frames sensoringest.Frames
		err    error
	)
	switch {
	case hasExt(opts.DataloggerExts, ext):
		frames, err = readTOA5(content, opts)
	case hasExt(opts.ExcelExts, ext):
		frames, err = readWorkbook(content, opts)
	default:
		return sensoringest.Frames{}, &UnsupportedFileTypeError{Name: name, Ext: ext}
	}
	if err != nil {
		return sensoringest.Frames{}, fmt.Errorf("%s: %w", name, err)
	}

	frames.Data.SamplingInterval = qa.StationInterval(frames.Station, opts.DefaultInterval)
	return frames, nil
}

func hasExt(list []string, ext string) bool {
	for _, e := range list {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func (o Options) timeLayout() string {
	if o.TimestampLayout == "" {
		return "2006-01-02 15:04:05"
	}
	return o.TimestampLayout
}

func (o Options) parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := time.ParseInLocation(o.timeLayout(), raw, time.UTC); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// isNA reports whether a raw cell stands for a missing reading.
func (o Options) isNA(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || (o.NARepresentation != "" && raw == o.NARepresentation) {
		return true
	}
	for _, na := range o.NAValues {
		if strings.EqualFold(raw, na) {
			return true
		}
	}
	return false
}
