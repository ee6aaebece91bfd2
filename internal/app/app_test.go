package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kwscan/config"
	"kwscan/internal/domain/models"
	"kwscan/internal/services/batch"
	"kwscan/internal/services/report"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{Env: "local", StoragePath: filepath.Join(t.TempDir(), "bundles.db")}
	cfg.Matching.Threshold = 80
	cfg.Matching.AccentFolding = "marks"
	cfg.Extraction.Workers = 2
	cfg.Export.Format = "csv"
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewBatchService(t *testing.T) {
	service, err := NewBatchService(testLogger(), testConfig(t))
	require.NoError(t, err)

	result, err := service.Run(context.Background(), batch.Request{
		Keywords:      []string{"Café"},
		Documents:     []models.RawDocument{{Name: "menu.txt", Data: []byte("le cafe du coin")}},
		Normalization: models.NormalizationOptions{IgnoreCase: true, IgnoreAccents: true},
	})
	require.NoError(t, err)

	assert.True(t, result.Table.Result(0, 0).Matched)
	require.Len(t, result.Bundle.Artifacts, 2)
	assert.Equal(t, report.TableFileCSV, result.Bundle.Artifacts[0].Name)
}

func TestNewBatchServiceRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Matching.AccentFolding = "phonetic"
	_, err := NewBatchService(testLogger(), cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Export.Format = "pdf"
	_, err = NewBatchService(testLogger(), cfg)
	assert.Error(t, err)
}

func TestStorageJanitor(t *testing.T) {
	storageApp, err := NewStorageApp(testLogger(), filepath.Join(t.TempDir(), "bundles.db"))
	require.NoError(t, err)

	ctx := context.Background()
	store := storageApp.Storage()
	require.NoError(t, store.SaveBundle(ctx, "old", []byte("zip"), time.Now().Add(-time.Hour)))
	require.NoError(t, store.SaveBundle(ctx, "fresh", []byte("zip"), time.Now().Add(time.Hour)))

	storageApp.StartJanitor(ctx, 10*time.Millisecond, time.Minute)

	require.Eventually(t, func() bool {
		_, err := store.GetBundle(ctx, "old")
		return err != nil
	}, time.Second, 10*time.Millisecond)

	_, err = store.GetBundle(ctx, "fresh")
	assert.NoError(t, err)

	require.NoError(t, storageApp.Stop())
}
