package repository

import (
	"context"
	"database/sql"
	"time"

	"sensoringest"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*sensoringest.Operator, error)
}

type RunRepo interface {
	Append(ctx context.Context, run sensoringest.CertificationRun) error
	List(ctx context.Context, from, to time.Time, outcome string) ([]sensoringest.CertificationRun, error)
}

type SiteRepo interface {
	GetSite(ctx context.Context, id string) (*sensoringest.Site, error)
	ListColumns(ctx context.Context, siteKey string) ([]sensoringest.SiteColumn, error)
	UpsertSite(ctx context.Context, s sensoringest.Site) error
	ReplaceColumns(ctx context.Context, siteKey string, cols []sensoringest.SiteColumn) error
}

type Repository struct {
	RunRepo  RunRepo
	SiteRepo SiteRepo
	Auth     Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		RunRepo:  NewRunSQLite(db),
		SiteRepo: NewSiteSQLite(db),
		Auth:     NewOperatorRepository(db),
	}
}
