package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gym-wars/internal/config"
)

// PostgresBackend stores each collection document as one JSONB row.
type PostgresBackend struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresBackend opens a connection pool and runs migrations.
func NewPostgresBackend(ctx context.Context, cfg *config.PostgresConfig, logger *slog.Logger) (*PostgresBackend, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	b := &PostgresBackend{pool: pool, logger: logger}
	if err := b.RunMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return b, nil
}

// RunMigrations executes database migrations
func (b *PostgresBackend) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS collections (
			name VARCHAR(64) PRIMARY KEY,
			body JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS collection_writes (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(64) NOT NULL,
			bytes INT NOT NULL,
			written_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_writes_name ON collection_writes(name, written_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := b.pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	b.logger.Info("database migrations completed")
	return nil
}

// Read implements Backend.
func (b *PostgresBackend) Read(ctx context.Context, name string) ([]byte, error) {
	var body string
	err := b.pool.QueryRow(ctx, `SELECT body::text FROM collections WHERE name = $1`, name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting collection: %w", err)
	}
	return []byte(body), nil
}

// Write implements Backend. The document and its write log entry are
// committed together.
func (b *PostgresBackend) Write(ctx context.Context, name string, data []byte) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	upsert := `
		INSERT INTO collections (name, body, updated_at)
		VALUES ($1, $2::jsonb, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := tx.Exec(ctx, upsert, name, string(data)); err != nil {
		return fmt.Errorf("upserting collection: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO collection_writes (name, bytes) VALUES ($1, $2)`, name, len(data)); err != nil {
		return fmt.Errorf("recording write: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

// Close closes the database connection pool
func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
