package leveldb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const bundlePrefix = "bundle:"

var (
	ErrBundleNotFound = errors.New("bundle not found")
	ErrCorruptBundle  = errors.New("corrupt bundle record")
)

// Storage keeps exported archives between the upload that produced them
// and their download.
type Storage struct {
	db *leveldb.DB
}

func New(path string) (*Storage, error) {
	const op = "storage.leveldb.New"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func bundleKey(id string) []byte {
	return []byte(bundlePrefix + id)
}

// Records are stored as an 8 byte big-endian unix nano creation time
// followed by the archive bytes.
func encodeBundle(data []byte, createdAt time.Time) []byte {
	value := make([]byte, 8+len(data))
	binary.BigEndian.PutUint64(value[:8], uint64(createdAt.UnixNano()))
	copy(value[8:], data)
	return value
}

func decodeBundle(value []byte) ([]byte, time.Time, error) {
	if len(value) < 8 {
		return nil, time.Time{}, ErrCorruptBundle
	}
	createdAt := time.Unix(0, int64(binary.BigEndian.Uint64(value[:8])))
	return value[8:], createdAt, nil
}

func (s *Storage) SaveBundle(ctx context.Context, id string, data []byte, createdAt time.Time) error {
	const op = "storage.leveldb.SaveBundle"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.Put(bundleKey(id), encodeBundle(data, createdAt), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) GetBundle(ctx context.Context, id string) ([]byte, error) {
	const op = "storage.leveldb.GetBundle"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	value, err := s.db.Get(bundleKey(id), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBundleNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, _, err := decodeBundle(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (s *Storage) DeleteBundle(ctx context.Context, id string) error {
	const op = "storage.leveldb.DeleteBundle"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.Delete(bundleKey(id), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PurgeExpired deletes bundles created more than ttl before now and returns
// how many were removed. Corrupt records are removed as well.
func (s *Storage) PurgeExpired(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	const op = "storage.leveldb.PurgeExpired"

	batch := new(leveldb.Batch)
	cutoff := now.Add(-ttl)

	iter := s.db.NewIterator(util.BytesPrefix([]byte(bundlePrefix)), nil)
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			iter.Release()
			return 0, fmt.Errorf("%s: %w", op, err)
		}

		_, createdAt, err := decodeBundle(iter.Value())
		if err != nil || createdAt.Before(cutoff) {
			key := make([]byte, len(iter.Key()))
			copy(key, iter.Key())
			batch.Delete(key)
		}
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if batch.Len() == 0 {
		return 0, nil
	}
	if err := s.db.Write(batch, nil); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return batch.Len(), nil
}
