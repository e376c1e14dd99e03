package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sensoringest"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite { return &RunSQLite{db: db} }

const insertRunSQL = `
		INSERT INTO certification_runs
			(id, occurred_at, mode, outcome, file_name, operator_id, samples, issue_count, description, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

// occurredAtLayout is how occurred_at is stored; filter bounds are bound in the
// same form so the text comparison stays inclusive.
const occurredAtLayout = "2006-01-02 15:04:05"

const selectRunsSQL = `SELECT id, occurred_at, mode, outcome, file_name, operator_id, samples, issue_count, description, meta FROM certification_runs`

// Append records a certification run. An empty RunID or zero OccurredAt is filled in.
func (r *RunSQLite) Append(ctx context.Context, run sensoringest.CertificationRun) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.OccurredAt.IsZero() {
		run.OccurredAt = time.Now().UTC()
	} else {
		run.OccurredAt = run.OccurredAt.UTC()
	}

	var metaPtr *string
	if run.Metadata != nil {
		if b, err := json.Marshal(run.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}
	var operator *int
	if run.OperatorID != 0 {
		operator = &run.OperatorID
	}

	_, err := r.db.ExecContext(ctx, insertRunSQL,
		run.RunID,
		run.OccurredAt.Format(occurredAtLayout),
		strings.ToUpper(strings.TrimSpace(run.Mode)),
		strings.ToUpper(strings.TrimSpace(run.Outcome)),
		run.FileName,
		operator,
		run.Samples,
		run.IssueCount,
		run.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return nil
}

// List returns runs filtered by [from, to] (inclusive) and/or outcome, oldest first.
func (r *RunSQLite) List(ctx context.Context, from, to time.Time, outcome string) ([]sensoringest.CertificationRun, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(occurredAtLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(occurredAtLayout))
	}
	if outcome = strings.ToUpper(strings.TrimSpace(outcome)); outcome != "" {
		conds = append(conds, "outcome = ?")
		args = append(args, outcome)
	}

	q := selectRunsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]sensoringest.CertificationRun, 0, 64)
	for rows.Next() {
		var (
			run      sensoringest.CertificationRun
			operator sql.NullInt64
			metaStr  sql.NullString
		)
		if err := rows.Scan(&run.RunID, &run.OccurredAt, &run.Mode, &run.Outcome, &run.FileName,
			&operator, &run.Samples, &run.IssueCount, &run.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.OccurredAt = run.OccurredAt.UTC()
		run.OperatorID = int(operator.Int64)

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				run.Metadata = v
			} else {
				run.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
