package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sensoringest"
	"sensoringest/internal/ingest"
	"sensoringest/internal/logger"
	"sensoringest/internal/qa"
	"sensoringest/internal/repository"
)

// Issue kinds reported to the Recorder.
const (
	kindDuplicate = "duplicate"
	kindDropout   = "dropout"
	kindGap       = "gap"
	kindSchema    = "schema"
)

type CertificationService struct {
	engine   *qa.Engine
	meta     Metadata
	runRepo  repository.RunRepo
	opts     ingest.Options
	recorder Recorder
	log      *logger.Logger
}

func NewCertificationService(engine *qa.Engine, meta Metadata, runRepo repository.RunRepo,
	opts ingest.Options, recorder Recorder, log *logger.Logger) *CertificationService {
	return &CertificationService{
		engine:   engine,
		meta:     meta,
		runRepo:  runRepo,
		opts:     opts,
		recorder: recorder,
		log:      log.Named("certify"),
	}
}

// Certify decodes one upload and runs QA on it. A file that already carries notes was
// certified before and is returned unchanged with outcome SKIPPED.
// Every call records a run, including failed ones.
func (s *CertificationService) Certify(ctx context.Context, up Upload, operatorID int) (Certificate, error) {
	return s.certify(ctx, up, operatorID, sensoringest.ModeSingle)
}

func (s *CertificationService) certify(ctx context.Context, up Upload, operatorID int, mode string) (Certificate, error) {
	cert := Certificate{FileName: up.Name, Mode: mode}

	frames, err := s.load(ctx, up)
	if err != nil {
		cert.Outcome = sensoringest.OutcomeRejected
		s.finish(ctx, &cert, operatorID, err)
		return cert, err
	}

	if frames.Notes != nil {
		cert.Outcome = sensoringest.OutcomeSkipped
		cert.AlreadyCertified = true
		cert.Frames = frames
		cert.Notes = frames.Notes
		cert.Samples = frames.Data.Len()
		s.finish(ctx, &cert, operatorID, nil)
		return cert, nil
	}

	res, err := s.engine.RunQA(frames.Data, nil, nil)
	if err != nil {
		cert.Outcome = outcomeFor(err)
		s.finish(ctx, &cert, operatorID, err)
		return cert, err
	}
	s.applyResult(&cert, &frames, res)
	s.finish(ctx, &cert, operatorID, nil)
	return cert, nil
}

// Append certifies newer if needed, stitches it onto base and runs QA on the combined
// series. Dropouts are only checked where the two files meet, unless base was never
// certified.
func (s *CertificationService) Append(ctx context.Context, base, newer Upload, operatorID int) (Certificate, error) {
	cert := Certificate{FileName: newer.Name, Mode: sensoringest.ModeAppend}
	fail := func(err error) (Certificate, error) {
		cert.Outcome = outcomeFor(err)
		s.finish(ctx, &cert, operatorID, err)
		return cert, err
	}

	newFrames, err := s.load(ctx, newer)
	if err != nil {
		return fail(err)
	}
	if newFrames.Notes == nil {
		res, err := s.engine.RunQA(newFrames.Data, nil, nil)
		if err != nil {
			return fail(fmt.Errorf("%s: %w", newer.Name, err))
		}
		newFrames.Data = res.Dataset
		newFrames.Notes = &res.Report
	}

	baseFrames, err := s.load(ctx, base)
	if err != nil {
		return fail(err)
	}

	combined, rng, err := s.engine.Append(baseFrames, newFrames)
	if err != nil {
		if errors.Is(err, qa.ErrSchemaMismatch) {
			s.recorder.IssuesFound(kindSchema, 1)
		}
		return fail(fmt.Errorf("append %s to %s: %w", newer.Name, base.Name, err))
	}
	if schema := combined.Notes.Len() - baseFrames.Notes.Len() - newFrames.Notes.Len(); schema > 0 {
		s.recorder.IssuesFound(kindSchema, schema)
	}

	res, err := s.engine.RunQA(combined.Data, combined.Notes, &rng)
	if err != nil {
		return fail(err)
	}
	cert.Range = &rng
	s.applyResult(&cert, &combined, res)
	s.finish(ctx, &cert, operatorID, nil)
	return cert, nil
}

// Encode renders a certificate's frames as a workbook.
func (s *CertificationService) Encode(c Certificate) ([]byte, error) {
	return ingest.WriteWorkbook(c.Frames, s.opts)
}

func (s *CertificationService) load(ctx context.Context, up Upload) (sensoringest.Frames, error) {
	frames, err := ingest.Load(up.Name, up.Content, s.opts)
	if err != nil {
		return sensoringest.Frames{}, err
	}
	if err := s.meta.Merge(ctx, &frames); err != nil {
		if !errors.Is(err, ErrSiteNotFound) {
			return sensoringest.Frames{}, fmt.Errorf("%s: merge metadata: %w", up.Name, err)
		}
		s.log.Infow("certify_limited_metadata", "file", up.Name, "reason", err.Error())
	}
	return frames, nil
}

func (s *CertificationService) applyResult(cert *Certificate, frames *sensoringest.Frames, res qa.Result) {
	frames.Data = res.Dataset
	report := res.Report
	frames.Notes = &report

	cert.Outcome = sensoringest.OutcomeCertified
	cert.DuplicatesFound = res.DuplicatesFound
	cert.DropoutsFound = res.DropoutsFound
	cert.GapsFound = res.GapsFound
	cert.Samples = res.Dataset.Len()
	cert.Notes = frames.Notes
	cert.Frames = *frames

	s.recorder.IssuesFound(kindDuplicate, res.DuplicateIssues)
	s.recorder.IssuesFound(kindDropout, res.DropoutIssues)
	s.recorder.IssuesFound(kindGap, res.GapIssues)
}

// finish records the run in the audit log. A failure to record is logged, not returned:
// the certification itself already succeeded or failed on its own terms.
func (s *CertificationService) finish(ctx context.Context, cert *Certificate, operatorID int, cause error) {
	meta := map[string]any{
		"duplicates_found": cert.DuplicatesFound,
		"dropouts_found":   cert.DropoutsFound,
		"gaps_found":       cert.GapsFound,
	}
	if cert.Range != nil {
		meta["qa_range"] = cert.Range
	}
	run := sensoringest.CertificationRun{
		RunID:       uuid.NewString(),
		Mode:        cert.Mode,
		Outcome:     cert.Outcome,
		FileName:    cert.FileName,
		OperatorID:  operatorID,
		Samples:     cert.Samples,
		IssueCount:  cert.Notes.Len(),
		Description: describe(cert, cause),
		Metadata:    meta,
	}
	cert.RunID = run.RunID

	if err := s.runRepo.Append(ctx, run); err != nil {
		s.log.Errorw("certify_record_run_failed", "file", cert.FileName, "err", err)
	}
	s.recorder.CertificationDone(cert.Mode, cert.Outcome, cert.Samples)
	s.log.Infow("certify_done", "file", cert.FileName, "mode", cert.Mode, "outcome", cert.Outcome,
		"samples", cert.Samples, "issues", run.IssueCount)
}

func outcomeFor(err error) string {
	if errors.Is(err, qa.ErrDataConflict) {
		return sensoringest.OutcomeBlocked
	}
	return sensoringest.OutcomeRejected
}

func describe(cert *Certificate, cause error) string {
	switch {
	case cause != nil:
		return cause.Error()
	case cert.AlreadyCertified:
		return "file already carries QA notes; not re-certified"
	}
	var found []string
	if cert.DuplicatesFound {
		found = append(found, "duplicates removed")
	}
	if cert.DropoutsFound {
		found = append(found, "dropouts reported")
	}
	if cert.GapsFound {
		found = append(found, "gaps filled")
	}
	if len(found) == 0 {
		return "no issues found"
	}
	return strings.Join(found, "; ")
}
