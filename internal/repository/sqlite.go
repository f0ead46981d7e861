package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS journal (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	batch_id     TEXT NOT NULL,
	source_path  TEXT NOT NULL,
	renamed_path TEXT NOT NULL DEFAULT '',
	cert_date    TEXT NOT NULL DEFAULT '',
	material     TEXT NOT NULL DEFAULT '',
	dimensions   TEXT NOT NULL DEFAULT '',
	manufacturer TEXT NOT NULL DEFAULT '',
	charge_no    TEXT NOT NULL DEFAULT '',
	checksum     TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	error_text   TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journal_checksum ON journal (checksum);
`

// OpenSQLite opens (or creates) a local journal. The zero-ops default:
// a single file next to the documents, no server to run. DSN accepts
// anything the driver does, including ":memory:".
func OpenSQLite(ctx context.Context, dsn string, logger *slog.Logger) (Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite journal: %w", err)
	}
	// One connection: serializes writers and keeps :memory: databases
	// from evaporating between pool connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	logger.Info("journal opened", "driver", "sqlite", "dsn", dsn)

	return &sqlJournal{
		db:     db,
		logger: logger,
		q: queries{
			insert: `INSERT INTO journal
				(batch_id, source_path, renamed_path, cert_date, material, dimensions, manufacturer, charge_no, checksum, status, error_text, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			recent: `SELECT id, batch_id, source_path, renamed_path, cert_date, material, dimensions, manufacturer, charge_no, checksum, status, error_text, created_at
				FROM journal ORDER BY id DESC LIMIT ?`,
			seen: `SELECT EXISTS(SELECT 1 FROM journal WHERE checksum = ? AND ` + seenFilter() + `)`,
		},
	}, nil
}
