package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresConfig tunes the shared pgx pool.
type PostgresConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS journal (
	id           BIGSERIAL PRIMARY KEY,
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
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journal_checksum ON journal (checksum);
`

// OpenPostgres creates a pgx pool, wraps it for database/sql, and ensures
// the journal schema. Meant for shared deployments where several machines
// feed one journal.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to journal database", "driver", "postgres")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse journal DSN", "error", err)
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "millsheet-renamer"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to journal database", "error", err)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		logger.Error("journal database ping failed", "error", err)
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	// Wrap the pool as *sql.DB so the journal queries are driver-agnostic.
	db := stdlib.OpenDBFromPool(pool)
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		_ = db.Close()
		pool.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	logger.Info("successfully connected to journal database")

	return &sqlJournal{
		db:     db,
		logger: logger,
		q: queries{
			insert: `INSERT INTO journal
				(batch_id, source_path, renamed_path, cert_date, material, dimensions, manufacturer, charge_no, checksum, status, error_text, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			recent: `SELECT id, batch_id, source_path, renamed_path, cert_date, material, dimensions, manufacturer, charge_no, checksum, status, error_text, created_at
				FROM journal ORDER BY id DESC LIMIT $1`,
			seen: `SELECT EXISTS(SELECT 1 FROM journal WHERE checksum = $1 AND ` + seenFilter() + `)`,
		},
		closeFn: func() error {
			pool.Close()
			return nil
		},
	}, nil
}
