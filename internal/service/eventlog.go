package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"sensoringest"
	"sensoringest/internal/repository"
)

type RunLogService struct {
	runRepo repository.RunRepo
}

func NewRunLogService(runRepo repository.RunRepo) *RunLogService {
	return &RunLogService{runRepo: runRepo}
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	ErrInvalidOutcome   = errors.New("invalid outcome: must be CERTIFIED, BLOCKED, REJECTED or SKIPPED")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeOutcome trims spaces and uppercases the outcome filter.
func normalizeOutcome(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func validOutcome(s string) bool {
	switch s {
	case "", sensoringest.OutcomeCertified, sensoringest.OutcomeBlocked,
		sensoringest.OutcomeRejected, sensoringest.OutcomeSkipped:
		return true
	}
	return false
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f RunFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	outcome := normalizeOutcome(f.Outcome)
	if !validOutcome(outcome) {
		return time.Time{}, time.Time{}, "", ErrInvalidOutcome
	}
	return from, to, outcome, nil
}

func (s *RunLogService) List(ctx context.Context, f RunFilter) ([]sensoringest.CertificationRun, error) {
	from, to, outcome, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.runRepo.List(ctx, from, to, outcome)
}
