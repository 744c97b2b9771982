// Package bolt implements the SettingsStore port on a bbolt file, one bucket
// per namespace.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SettingsStore = (*Store)(nil)

// Store is the bbolt implementation of the SettingsStore port interface.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt file at path and makes sure a bucket
// exists for every known namespace.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, ns := range model.Namespaces {
			if _, err := tx.CreateBucketIfNotExists([]byte(ns)); err != nil {
				return fmt.Errorf("create %s bucket: %w", ns, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Get returns a copy of the value stored under key, or (nil, nil) if absent.
func (s *Store) Get(_ context.Context, ns model.Namespace, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ns))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			// Values are only valid for the life of the transaction.
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get setting %s/%s: %w", ns, key, err)
	}
	return out, nil
}

// Set stores or replaces the value under key.
func (s *Store) Set(_ context.Context, ns model.Namespace, key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(ns))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("set setting %s/%s: %w", ns, key, err)
	}
	return nil
}

// Delete removes key from the namespace.
func (s *Store) Delete(_ context.Context, ns model.Namespace, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ns))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete setting %s/%s: %w", ns, key, err)
	}
	return nil
}

// Clear drops and recreates the namespace bucket.
func (s *Store) Clear(_ context.Context, ns model.Namespace) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(ns)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket([]byte(ns))
		return err
	})
	if err != nil {
		return fmt.Errorf("clear namespace %s: %w", ns, err)
	}
	return nil
}

// Close closes the bbolt file.
func (s *Store) Close() error {
	return s.db.Close()
}
