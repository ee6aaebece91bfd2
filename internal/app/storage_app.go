package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"kwscan/internal/lib/logger/sl"
	"kwscan/internal/storage/leveldb"
)

type StorageApp struct {
	log     *slog.Logger
	storage *leveldb.Storage
	wg      sync.WaitGroup
	stop    context.CancelFunc
}

func NewStorageApp(log *slog.Logger, storagePath string) (*StorageApp, error) {
	storage, err := leveldb.New(storagePath)
	if err != nil {
		return nil, err
	}
	return &StorageApp{log: log, storage: storage}, nil
}

// StartJanitor purges bundles older than ttl every interval until ctx is
// done or Stop is called.
func (s *StorageApp) StartJanitor(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		return
	}

	ctx, s.stop = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.purge(ctx, now, ttl)
			}
		}
	}()
}

func (s *StorageApp) purge(ctx context.Context, now time.Time, ttl time.Duration) {
	removed, err := s.storage.PurgeExpired(ctx, now, ttl)
	if err != nil {
		s.log.Error("Failed to purge bundles", sl.Err(err))
		return
	}
	if removed > 0 {
		s.log.Info("expired bundles purged", "count", removed)
	}
}

func (s *StorageApp) Stop() error {
	if s.stop != nil {
		s.stop()
	}
	s.wg.Wait()
	return s.storage.Close()
}

func (s *StorageApp) Storage() *leveldb.Storage {
	return s.storage
}
