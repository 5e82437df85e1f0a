package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	user_id    TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, key)
)`

// PostgresStore keeps every user's entries in the kv_entries table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the kv_entries table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create kv_entries: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID, key string) ([]byte, error) {
	if err := checkArgs(userID, key); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE user_id = $1 AND key = $2`,
		userID, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, userID, key string, value []byte) error {
	if err := checkArgs(userID, key); err != nil {
		return err
	}

	query := `
		INSERT INTO kv_entries (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, userID, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) SetIfAbsent(ctx context.Context, userID, key string, value []byte) (bool, error) {
	if err := checkArgs(userID, key); err != nil {
		return false, err
	}

	query := `
		INSERT INTO kv_entries (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, userID, key, value)
	if err != nil {
		return false, fmt.Errorf("failed to set %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to set %s: %w", key, err)
	}
	return n == 1, nil
}

func (s *PostgresStore) Keys(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv_entries WHERE user_id = $1 ORDER BY created_at, key`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
