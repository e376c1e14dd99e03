package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Metadata.TimestampColumn != "TIMESTAMP" || cfg.Metadata.SequenceNumberColumn != "RECORD" {
		t.Fatalf("unexpected key columns: %+v", cfg.Metadata)
	}
	if cfg.Output.WorksheetNames.Notes != "Notes" {
		t.Fatalf("notes worksheet = %q", cfg.Output.WorksheetNames.Notes)
	}
	d, err := cfg.DefaultSamplingInterval()
	if err != nil || d != 15*time.Minute {
		t.Fatalf("DefaultSamplingInterval = %v, %v", d, err)
	}
	if cfg.Application.TokenTTL != time.Hour {
		t.Fatalf("token ttl = %v", cfg.Application.TokenTTL)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := []byte("application:\n  port: \"9090\"\nmetadata:\n  sampling_interval: 10min\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("INGEST_APPLICATION_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Application.Port != "9090" {
		t.Fatalf("port = %q", cfg.Application.Port)
	}
	if cfg.Application.LogLevel != "debug" {
		t.Fatalf("env override not applied: %q", cfg.Application.LogLevel)
	}
	d, err := cfg.DefaultSamplingInterval()
	if err != nil || d != 10*time.Minute {
		t.Fatalf("pandas-style interval not accepted: %v, %v", d, err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "no timestamp column", mutate: func(c *Config) { c.Metadata.TimestampColumn = "" }, wantErr: true},
		{name: "bad interval", mutate: func(c *Config) { c.Metadata.SamplingInterval = "soon" }, wantErr: true},
		{name: "negative interval", mutate: func(c *Config) { c.Metadata.SamplingInterval = "-5m" }, wantErr: true},
		{name: "short notes header", mutate: func(c *Config) { c.Output.NotesColumns = []string{"a"} }, wantErr: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := &Config{
				Output: Output{NotesColumns: []string{"a", "b", "c", "d", "e"}},
				Metadata: Metadata{
					TimestampColumn:      "TIMESTAMP",
					SequenceNumberColumn: "RECORD",
					SamplingInterval:     "15m",
				},
			}
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err = %v; wantErr %v", err, tc.wantErr)
			}
		})
	}
}
