package postgres

import (
	"context"
	"database/sql"
	"errors"

	"suratapi/internal/repository"
)

// KVPostgres is a PostgreSQL implementation of repository.KVStore backed by
// a single kv_store table. It uses database/sql with parameterized queries
// and contains no business logic.
type KVPostgres struct {
	db *sql.DB
}

// NewKVPostgres creates a new KVPostgres store.
func NewKVPostgres(db *sql.DB) *KVPostgres {
	return &KVPostgres{db: db}
}

var _ repository.KVStore = (*KVPostgres)(nil)

// Get returns the value stored under key.
func (r *KVPostgres) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv_store WHERE key = $1`
	var value []byte
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

// Set upserts the value under key as a single whole-value replace.
func (r *KVPostgres) Set(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	_, err := r.db.ExecContext(ctx, q, key, value)
	return err
}

// Remove deletes the value under key. It does not return an error if the row
// does not exist.
func (r *KVPostgres) Remove(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_store WHERE key = $1`
	res, err := r.db.ExecContext(ctx, q, key)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
