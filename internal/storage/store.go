// Package storage provides the local persistent key-value store backing
// the cart, order history, and resolver/profile caches.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	defaultDirName  = ".khana"
	defaultFileName = "state.db"
	envStatePath    = "KHANA_STATE_PATH"
)

// Bucket names used by the client.
const (
	BucketCart     = "cart"
	BucketOrders   = "orders"
	BucketLocation = "location"
	BucketProfiles = "profiles"
)

// ErrClosed is returned when the store is used after Close.
var ErrClosed = errors.New("state store is closed")

// Store is a bolt-backed string-keyed byte store.
type Store struct {
	db *bolt.DB
}

// NewStore opens the state database using env overrides or defaults.
func NewStore() (*Store, error) {
	if path := os.Getenv(envStatePath); path != "" {
		return Open(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return Open(filepath.Join(home, defaultDirName, defaultFileName))
}

// Open opens or creates the state database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Get returns the value stored under bucket/key, or nil when absent.
func (s *Store) Get(bucket, key string) ([]byte, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		if stored := b.Get([]byte(key)); stored != nil {
			value = append([]byte(nil), stored...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", bucket, key, err)
	}
	return value, nil
}

// Put stores value under bucket/key, creating the bucket when needed.
func (s *Store) Put(bucket, key string, value []byte) error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", bucket, key, err)
	}
	return nil
}

// List returns every value stored in bucket, in key order. A missing
// bucket yields an empty result.
func (s *Store) List(bucket string) ([][]byte, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	var values [][]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			values = append(values, append([]byte(nil), v...))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", bucket, err)
	}
	return values, nil
}

// Delete removes bucket/key; deleting an absent key is not an error.
func (s *Store) Delete(bucket, key string) error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}
