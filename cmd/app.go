package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"sensoringest/internal/config"
	"sensoringest/internal/ingest"
	"sensoringest/internal/logger"
	"sensoringest/internal/metrics"
	"sensoringest/internal/repository"
	"sensoringest/internal/repository/db"
	"sensoringest/internal/service"
)

// app holds what every command shares once the root command has parsed its flags.
type app struct {
	configFile string
	logLevel   string

	cfg  *config.Config
	opts ingest.Options
	log  *logger.Logger
}

func newApp() *app { return &app{} }

func (a *app) execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "sensoringest",
		Short:   "Sensor time-series QA and certification",
		Version: version,
		Long: `sensoringest certifies environmental datalogger downloads.

It removes duplicate records, reports sensor dropouts, fills gaps in the
sampling grid and appends new downloads to previously certified workbooks.
Run it as an HTTP service with "serve" or on local files with "certify" and "append".`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default configs/config.yml when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides the config)")

	root.AddCommand(
		a.serveCommand(),
		a.certifyCommand(),
		a.appendCommand(),
		a.sitesCommand(),
	)
	return root
}

// setup loads the configuration and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.configFile
	if path == "" && fileExists(defaultConfigPath) {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Application.LogLevel = a.logLevel
	}
	opts, err := ingest.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	log, err := logger.Init(logger.Options{
		Level:     cfg.Application.LogLevel,
		Directory: cfg.Application.LoggingDirectory,
	})
	if err != nil {
		return err
	}

	a.cfg, a.opts, a.log = cfg, opts, log
	a.log.Debugw("config_loaded", "file", path, "command", cmd.Name())
	return nil
}

// runtime is the wired application: database, repositories, services and metrics.
type runtime struct {
	db       *sql.DB
	services *service.Service
	metrics  *metrics.Recorder
}

func (a *app) wire() (*runtime, error) {
	conn, err := db.InitDB(a.cfg.Application.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", a.cfg.Application.DBPath, err)
	}
	rec := metrics.New()
	services := service.NewService(repository.NewRepository(conn), service.Deps{
		Ingest:      a.opts,
		Recorder:    rec,
		Logger:      a.log,
		SigningKey:  a.cfg.Application.JWTSigningKey,
		TokenTTL:    a.cfg.Application.TokenTTL,
		Parallelism: a.cfg.Application.BatchParallelism,
	})
	return &runtime{db: conn, services: services, metrics: rec}, nil
}

func (r *runtime) close(log *logger.Logger) {
	if err := r.db.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
	_ = log.Sync()
}
