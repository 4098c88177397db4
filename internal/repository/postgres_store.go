package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"evote-api/pkg/database"
)

// PostgresStore persists election snapshots in a single key-value table.
// Multi-key writes run inside one transaction.
type PostgresStore struct {
	db *database.PostgresDB
}

// NewPostgresStore creates a Postgres-backed snapshot store and ensures the
// snapshot table exists.
func NewPostgresStore(ctx context.Context, db *database.PostgresDB) (*PostgresStore, error) {
	if err := db.EnsureSnapshotSchema(ctx); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

// Load retrieves a snapshot by logical name.
func (s *PostgresStore) Load(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.Pool.QueryRow(ctx,
		`SELECT value FROM election_snapshots WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load snapshot %q: %w", key, err)
	}
	return value, true, nil
}

// Save replaces a single snapshot.
func (s *PostgresStore) Save(ctx context.Context, key, value string) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO election_snapshots (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", key, err)
	}
	return nil
}

// SaveAll replaces several snapshots in one transaction.
func (s *PostgresStore) SaveAll(ctx context.Context, snapshots map[string]string) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for key, value := range snapshots {
		if _, err := tx.Exec(ctx, `
			INSERT INTO election_snapshots (key, value, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			key, value); err != nil {
			return fmt.Errorf("failed to save snapshot %q: %w", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshot transaction: %w", err)
	}
	return nil
}

// Delete removes a snapshot.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Pool.Exec(ctx,
		`DELETE FROM election_snapshots WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", key, err)
	}
	return nil
}

// Health pings the backend.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}
