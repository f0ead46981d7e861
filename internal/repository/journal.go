// Package repository persists the processing journal: one row per processed
// document, written best-effort after the pipeline finishes. The journal
// answers two questions: what happened to a given document, and has this
// content been processed before.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hiraoka-dev/millsheet-renamer/constants"
)

// Entry is one journal row.
type Entry struct {
	ID           int64
	BatchID      uuid.UUID
	SourcePath   string
	RenamedPath  string
	Date         string
	Material     string
	Dimensions   string
	Manufacturer string
	ChargeNo     string
	Checksum     string
	Status       constants.DocStatus
	ErrorText    string
	CreatedAt    time.Time
}

// Journal records processing outcomes and answers dedupe queries.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	// SeenSource reports whether content with this checksum has already been
	// processed to completion. The path is only used for logging.
	SeenSource(ctx context.Context, path, checksum string) (bool, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

// queries holds the driver-specific SQL; sqlite uses ? placeholders,
// postgres uses $N.
type queries struct {
	insert string
	recent string
	seen   string
}

// sqlJournal implements Journal over database/sql for both drivers.
type sqlJournal struct {
	db      *sql.DB
	logger  *slog.Logger
	q       queries
	closeFn func() error
}

func (j *sqlJournal) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx, j.q.insert,
		e.BatchID.String(),
		e.SourcePath,
		e.RenamedPath,
		e.Date,
		e.Material,
		e.Dimensions,
		e.Manufacturer,
		e.ChargeNo,
		e.Checksum,
		string(e.Status),
		e.ErrorText,
		e.CreatedAt,
	)
	if err != nil {
		j.logger.Error("journal.record.failed", "source_path", e.SourcePath, "error", err)
		return fmt.Errorf("record journal entry: %w", err)
	}
	j.logger.Debug("journal.record.ok", "source_path", e.SourcePath, "status", e.Status)
	return nil
}

func (j *sqlJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := j.db.QueryContext(ctx, j.q.recent, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var batchID, status string
		if err := rows.Scan(
			&e.ID,
			&batchID,
			&e.SourcePath,
			&e.RenamedPath,
			&e.Date,
			&e.Material,
			&e.Dimensions,
			&e.Manufacturer,
			&e.ChargeNo,
			&e.Checksum,
			&status,
			&e.ErrorText,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		if id, perr := uuid.Parse(batchID); perr == nil {
			e.BatchID = id
		}
		e.Status = constants.DocStatus(status)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (j *sqlJournal) SeenSource(ctx context.Context, path, checksum string) (bool, error) {
	if checksum == "" {
		return false, nil
	}
	var seen bool
	if err := j.db.QueryRowContext(ctx, j.q.seen, checksum).Scan(&seen); err != nil {
		return false, fmt.Errorf("query journal for checksum: %w", err)
	}
	if seen {
		j.logger.Debug("journal.seen", "path", path, "checksum", checksum)
	}
	return seen, nil
}

func (j *sqlJournal) HealthCheck(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

func (j *sqlJournal) Close() error {
	err := j.db.Close()
	if j.closeFn != nil {
		if cerr := j.closeFn(); err == nil {
			err = cerr
		}
	}
	return err
}

// seenFilter is shared by both drivers: only completed documents count as
// already processed, so a FAILED document is retried on the next encounter.
func seenFilter() string {
	return fmt.Sprintf("status IN ('%s','%s')", constants.DocStatusRenamed, constants.DocStatusFallback)
}
