// Package db manages the PostgreSQL connection pool behind the
// Postgres-backed storage.
//
// Connect opens a pgxpool with retry and exponential backoff, Migrate
// applies embedded goose migrations, and Shutdown produces a cleanup
// function for graceful teardown.
//
//	pool, err := db.Connect(ctx, db.Config{ConnectionString: url})
//	if err != nil {
//	    return err
//	}
//	defer db.Shutdown(pool)(ctx)
//
// Configuration is env-tagged for parsing with config.FromEnv.
package db
