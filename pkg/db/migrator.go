package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies goose migrations from dir inside migrations to the pool's
// database, tracking applied versions in migrationTable.
//
// The pgx pool is bridged to database/sql because goose expects the standard
// library interface. The bridge shares the underlying connections, so it is
// not closed here.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, dir, migrationTable string, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLoggerAdapter{log})
	goose.SetTableName(migrationTable)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	// Error level only - goose returns an error that propagates up, and
	// avoiding os.Exit(1) allows proper shutdown and cleanup.
	g.log.Error(fmt.Sprintf(format, args...))
}
