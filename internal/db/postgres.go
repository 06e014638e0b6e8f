package db

import (
	"context"
	_ "embed"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations.sql
var migrations string

// Connect opens a pgx pool against the given database URL. Numeric columns
// scan into shopspring decimals on every pooled connection.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return pool, nil
}

// Migrate applies the embedded schema. Every statement is idempotent
// (CREATE TABLE IF NOT EXISTS) so this runs at each startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, migrations); err != nil {
		return fmt.Errorf("failed to execute migrations: %w", err)
	}
	return nil
}

// ClearTempTables drops transient state on startup: pending signups do not
// survive a restart, and expired sessions and day-old unresolved payment
// references are garbage.
func ClearTempTables(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, "DELETE FROM temp_users"); err != nil {
		return fmt.Errorf("failed to clear temp_users: %w", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM sessions WHERE expires_at <= NOW()"); err != nil {
		return fmt.Errorf("failed to clear expired sessions: %w", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM khalti_temp_payments WHERE created_at < NOW() - INTERVAL '1 day'"); err != nil {
		return fmt.Errorf("failed to clear stale payment references: %w", err)
	}
	return nil
}
