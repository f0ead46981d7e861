package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hiraoka-dev/millsheet-renamer/internal/common"
)

// Open picks the journal backend from configuration.
func Open(ctx context.Context, cfg common.JournalConfig, logger *slog.Logger) (Journal, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(ctx, cfg.DSN, logger)
	case "postgres":
		return OpenPostgres(ctx, PostgresConfig{
			DSN:              cfg.DSN,
			MaxConns:         cfg.MaxConns,
			MinConns:         cfg.MinConns,
			MaxConnLifetime:  cfg.MaxConnLifetime,
			MaxConnIdleTime:  cfg.MaxConnIdleTime,
			DialTimeout:      cfg.DialTimeout,
			StatementTimeout: cfg.StatementTimeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported journal driver %q", cfg.Driver)
	}
}
