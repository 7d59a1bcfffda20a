package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MySQLStore implements the key-value store port on a single kv_store table.
// It is the durable-store alternative to Redis; the serialization format is
// identical, only the backing medium differs.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// EnsureSchema creates the kv_store table if it does not exist yet.
func (m *MySQLStore) EnsureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(64) PRIMARY KEY,
			v MEDIUMBLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}

	return nil
}

func (m *MySQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := m.db.QueryRowContext(ctx,
		`SELECT v FROM kv_store WHERE k = ?`, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query kv_store: %w", err)
	}

	return value, true, nil
}

func (m *MySQLStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO kv_store (k, v) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert kv_store: %w", err)
	}

	return nil
}
