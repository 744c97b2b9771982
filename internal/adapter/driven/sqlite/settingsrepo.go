package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SettingsStore = (*SettingsRepo)(nil)

// SettingsRepo is the SQLite implementation of the SettingsStore port interface.
// When constructed with a key, values are encrypted with AES-256-GCM before
// write and decrypted after read.
type SettingsRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil stores values in plaintext.
}

// NewSettingsRepo creates a new SettingsRepo. key must be 32 bytes for
// AES-256-GCM, or nil to store plaintext.
func NewSettingsRepo(db *DB, key []byte) *SettingsRepo {
	return &SettingsRepo{db: db, key: key}
}

// Get retrieves the value stored under key. Returns (nil, nil) if absent.
func (r *SettingsRepo) Get(ctx context.Context, ns model.Namespace, key string) ([]byte, error) {
	const query = `SELECT value, encrypted FROM settings WHERE namespace = ? AND key = ?`

	var (
		stored    string
		encrypted bool
	)
	err := r.db.Reader.QueryRowContext(ctx, query, string(ns), key).Scan(&stored, &encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get setting %s/%s: %w", ns, key, err)
	}

	if !encrypted {
		return []byte(stored), nil
	}
	if r.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	plaintext, err := decrypt(r.key, stored)
	if err != nil {
		return nil, fmt.Errorf("decrypt setting %s/%s: %w", ns, key, err)
	}
	return plaintext, nil
}

// Set stores or replaces the value under key.
func (r *SettingsRepo) Set(ctx context.Context, ns model.Namespace, key string, value []byte) error {
	stored := string(value)
	encrypted := r.key != nil
	if encrypted {
		var err error
		stored, err = encrypt(r.key, value)
		if err != nil {
			return fmt.Errorf("encrypt setting %s/%s: %w", ns, key, err)
		}
	}

	const query = `
		INSERT INTO settings (namespace, key, value, encrypted, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace, key) DO UPDATE SET
			value = excluded.value,
			encrypted = excluded.encrypted,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.Writer.ExecContext(ctx, query, string(ns), key, stored, encrypted); err != nil {
		return fmt.Errorf("set setting %s/%s: %w", ns, key, err)
	}
	return nil
}

// Delete removes key from the namespace.
func (r *SettingsRepo) Delete(ctx context.Context, ns model.Namespace, key string) error {
	const query = `DELETE FROM settings WHERE namespace = ? AND key = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, string(ns), key); err != nil {
		return fmt.Errorf("delete setting %s/%s: %w", ns, key, err)
	}
	return nil
}

// Clear removes every key in the namespace.
func (r *SettingsRepo) Clear(ctx context.Context, ns model.Namespace) error {
	const query = `DELETE FROM settings WHERE namespace = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, string(ns)); err != nil {
		return fmt.Errorf("clear namespace %s: %w", ns, err)
	}
	return nil
}

// Close closes the underlying database.
func (r *SettingsRepo) Close() error {
	return r.db.Close()
}
