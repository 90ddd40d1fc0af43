// Package pg connects to PostgreSQL with pgx/v5 and applies schema
// migrations with goose/v3.
//
// Connect builds a pgxpool.Pool from Config and retries the initial ping.
// Healthcheck wraps Ping for the readiness endpoint. Migrate runs goose
// against the same pool through pgx's database/sql bridge, reading either the
// migrations embedded in the binary or a directory named by
// PG_MIGRATIONS_PATH.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, migrations.FS, log); err != nil {
//		return err
//	}
package pg
