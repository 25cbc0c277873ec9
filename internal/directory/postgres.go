package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cipherchat/pkg/logger"
)

// PostgresStore keeps published keys in Postgres so signups survive relay
// restarts. Room and message state stays in memory regardless; only the
// directory persists.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Connected to directory database")
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS directory_keys (
			user_label TEXT PRIMARY KEY,
			public_key BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create directory schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Publish(ctx context.Context, userLabel string, publicKey []byte) error {
	query := `
		INSERT INTO directory_keys (user_label, public_key, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_label) DO UPDATE
		SET public_key = EXCLUDED.public_key, updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, userLabel, publicKey); err != nil {
		return fmt.Errorf("failed to publish key for %s: %w", userLabel, err)
	}
	return nil
}

func (s *PostgresStore) Lookup(ctx context.Context, userLabel string) ([]byte, error) {
	query := `SELECT public_key FROM directory_keys WHERE user_label = $1`

	var publicKey []byte
	err := s.pool.QueryRow(ctx, query, userLabel).Scan(&publicKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up key for %s: %w", userLabel, err)
	}
	return publicKey, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

var _ Store = (*PostgresStore)(nil)
