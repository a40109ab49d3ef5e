package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/swipemart/syncengine/internal/storage"
)

// bucketEngine единственный bucket со всеми ключами движка
var bucketEngine = []byte("engine")

// Storage represents BoltDB key-value store implementation
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	// Инициализируем bucket
	if err := s.initBucket(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return s, nil
}

// Get retrieves a value by key
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var value []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketEngine)
		if bucket == nil {
			return storage.ErrKeyNotFound
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrKeyNotFound
		}

		// Срез bbolt валиден только внутри транзакции - копируем
		value = make([]byte, len(data))
		copy(value, data)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores or replaces the value under key
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketEngine)
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		if err := bucket.Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to put value: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketEngine)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})

	if err != nil {
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

// initBucket создает bucket движка если он не существует
func (s *Storage) initBucket() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketEngine); err != nil {
			return fmt.Errorf("failed to create engine bucket: %w", err)
		}
		return nil
	})
}
