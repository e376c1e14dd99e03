package service

import (
	"context"
	"time"

	"sensoringest"
	"sensoringest/internal/ingest"
	"sensoringest/internal/logger"
	"sensoringest/internal/qa"
	"sensoringest/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Certification certifies single uploads and appends new data to certified files.
type Certification interface {
	Certify(ctx context.Context, up Upload, operatorID int) (Certificate, error)
	Append(ctx context.Context, base, newer Upload, operatorID int) (Certificate, error)
	Encode(c Certificate) ([]byte, error)
}

// Batch certifies many uploads in parallel.
type Batch interface {
	CertifyBatch(ctx context.Context, uploads []Upload, operatorID int, progress func(BatchItem)) ([]BatchItem, error)
}

// RunLog exposes the certification audit log with filtering access.
type RunLog interface {
	List(ctx context.Context, f RunFilter) ([]sensoringest.CertificationRun, error)
}

// Metadata enriches decoded files from the static site catalog.
type Metadata interface {
	Merge(ctx context.Context, frames *sensoringest.Frames) error
	ImportCatalog(ctx context.Context, sites []sensoringest.Site, cols []sensoringest.SiteColumn) error
}

// Recorder receives certification measurements. A nil Recorder is allowed.
type Recorder interface {
	CertificationDone(mode, outcome string, samples int)
	IssuesFound(kind string, n int)
}

// Deps carries everything the services need besides the repositories.
type Deps struct {
	Engine     *qa.Engine
	Ingest     ingest.Options
	Recorder   Recorder
	Logger     *logger.Logger
	SigningKey string
	TokenTTL   time.Duration
	// Parallelism bounds concurrent certifications in a batch.
	Parallelism int
}

// Service aggregates all sub-services.
type Service struct {
	Certification
	Batch
	RunLog
	Metadata
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Engine == nil {
		deps.Engine = qa.New(qa.Options{
			DefaultInterval: deps.Ingest.DefaultInterval,
			SequenceColumn:  deps.Ingest.SequenceColumn,
			Logger:          deps.Logger,
		})
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}

	meta := NewMetadataService(repos.SiteRepo, deps.Ingest, deps.Logger)
	cert := NewCertificationService(deps.Engine, meta, repos.RunRepo, deps.Ingest, deps.Recorder, deps.Logger)
	return &Service{
		Certification: cert,
		Batch:         NewBatchService(cert, deps.Parallelism),
		RunLog:        NewRunLogService(repos.RunRepo),
		Metadata:      meta,
		Authorization: NewAuthService(repos.Auth, deps.SigningKey, deps.TokenTTL),
	}
}

type nopRecorder struct{}

func (nopRecorder) CertificationDone(string, string, int) {}
func (nopRecorder) IssuesFound(string, int)              {}
