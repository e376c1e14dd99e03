// Package config loads application settings with viper: a YAML file, environment
// overrides prefixed INGEST_, and built-in defaults for everything else.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "INGEST"

// Application holds process-level settings.
type Application struct {
	LogLevel         string        `mapstructure:"log_level"`
	LoggingDirectory string        `mapstructure:"logging_directory"`
	Port             string        `mapstructure:"port"`
	DBPath           string        `mapstructure:"db_path"`
	JWTSigningKey    string        `mapstructure:"jwt_signing_key"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	BatchParallelism int           `mapstructure:"batch_parallelism"`
	MaxUploadBytes   int64         `mapstructure:"max_upload_bytes"`
}

// Input lists the accepted upload file extensions.
type Input struct {
	DataloggerFileExtensions []string `mapstructure:"datalogger_file_extensions"`
	ExcelFileExtensions      []string `mapstructure:"excel_file_extensions"`
}

// WorksheetNames maps each frame to its worksheet in a certified workbook.
type WorksheetNames struct {
	Data    string `mapstructure:"data"`
	Meta    string `mapstructure:"meta"`
	Station string `mapstructure:"station"`
	Notes   string `mapstructure:"notes"`
}

// Output configures the generated workbook.
type Output struct {
	WorksheetNames       WorksheetNames `mapstructure:"worksheet_names"`
	DataNARepresentation string         `mapstructure:"data_na_representation"`
	NotesColumns         []string       `mapstructure:"notes_columns"`
}

// Metadata describes the standard index columns and the descriptive rows of a datalogger file.
type Metadata struct {
	TimestampColumn            string   `mapstructure:"timestamp_column"`
	SequenceNumberColumn       string   `mapstructure:"sequence_number_column"`
	SamplingInterval           string   `mapstructure:"sampling_interval"`
	TimestampLayout            string   `mapstructure:"timestamp_layout"`
	NAValues                   []string `mapstructure:"na_values"`
	VariableDescriptionColumns []string `mapstructure:"variable_description_columns"`
	StationColumns             []string `mapstructure:"station_columns"`
}

// Config is the full settings tree.
type Config struct {
	Application Application `mapstructure:"application"`
	Input       Input       `mapstructure:"input"`
	Output      Output      `mapstructure:"output"`
	Metadata    Metadata    `mapstructure:"metadata"`
}

var errMissingKey = errors.New("config: required setting is empty")

// setDefaults registers every default so an absent config file still yields a usable Config.
func setDefaults(v *viper.Viper) {
	v.SetDefault("application.log_level", "info")
	v.SetDefault("application.logging_directory", "./logs")
	v.SetDefault("application.port", "8080")
	v.SetDefault("application.db_path", "sensoringest.db")
	v.SetDefault("application.jwt_signing_key", "change-me")
	v.SetDefault("application.token_ttl", time.Hour)
	v.SetDefault("application.batch_parallelism", 4)
	v.SetDefault("application.max_upload_bytes", 64<<20)

	v.SetDefault("input.datalogger_file_extensions", []string{".dat", ".csv"})
	v.SetDefault("input.excel_file_extensions", []string{".xlsx"})

	v.SetDefault("output.worksheet_names.data", "Data")
	v.SetDefault("output.worksheet_names.meta", "Columns")
	v.SetDefault("output.worksheet_names.station", "Site")
	v.SetDefault("output.worksheet_names.notes", "Notes")
	v.SetDefault("output.data_na_representation", "#N/A")
	v.SetDefault("output.notes_columns", []string{"Start of issue", "End of issue", "Field", "Data omitted?", "Description"})

	v.SetDefault("metadata.timestamp_column", "TIMESTAMP")
	v.SetDefault("metadata.sequence_number_column", "RECORD")
	v.SetDefault("metadata.sampling_interval", "15m")
	v.SetDefault("metadata.timestamp_layout", "2006-01-02 15:04:05")
	v.SetDefault("metadata.na_values", []string{"NAN"})
	v.SetDefault("metadata.variable_description_columns", []string{"Name", "Units", "Process"})
	v.SetDefault("metadata.station_columns", []string{
		"Format", "SiteId", "DataLoggerModel", "SerialNumber",
		"DataLoggerOsVersion", "ProgramName", "ProgramSignature", "TableName",
	})
}

// Load reads the config file at path (skipped when empty) and applies env overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the engine cannot run without.
func (c *Config) Validate() error {
	if c.Metadata.TimestampColumn == "" {
		return fmt.Errorf("%w: metadata.timestamp_column", errMissingKey)
	}
	if c.Metadata.SequenceNumberColumn == "" {
		return fmt.Errorf("%w: metadata.sequence_number_column", errMissingKey)
	}
	if _, err := c.DefaultSamplingInterval(); err != nil {
		return err
	}
	if len(c.Output.NotesColumns) != 5 {
		return fmt.Errorf("config: output.notes_columns needs 5 names, got %d", len(c.Output.NotesColumns))
	}
	if c.Application.BatchParallelism < 1 {
		c.Application.BatchParallelism = 1
	}
	return nil
}

// DefaultSamplingInterval parses metadata.sampling_interval. Both Go durations ("15m")
// and the pandas-style "15min" used by older config files are accepted.
func (c *Config) DefaultSamplingInterval() (time.Duration, error) {
	s := strings.TrimSpace(c.Metadata.SamplingInterval)
	s = strings.Replace(s, "min", "m", 1)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: metadata.sampling_interval %q: %w", c.Metadata.SamplingInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: metadata.sampling_interval must be positive, got %s", d)
	}
	return d, nil
}
