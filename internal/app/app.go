package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"kwscan/config"
	"kwscan/internal/api"
	"kwscan/internal/lib/logger/sl"
	"kwscan/internal/services/batch"
	"kwscan/internal/services/extractor"
	"kwscan/internal/services/normalizer"
	"kwscan/internal/services/report"
)

type App struct {
	log        *slog.Logger
	cfg        *config.Config
	Batch      *batch.Service
	StorageApp *StorageApp
	HTTPServer *http.Server
}

// NewBatchService builds the matching pipeline described by cfg.
func NewBatchService(log *slog.Logger, cfg *config.Config) (*batch.Service, error) {
	const op = "app.NewBatchService"

	folder, err := normalizer.NewFolder(cfg.Matching.AccentFolding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exporter, err := report.New(report.Format(cfg.Export.Format))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return batch.New(
		log,
		extractor.NewRegistry(log),
		normalizer.New(folder),
		exporter,
		cfg.Extraction.Workers,
	), nil
}

func New(
	log *slog.Logger,
	cfg *config.Config,
) *App {
	storageApp, err := NewStorageApp(log, cfg.StoragePath)
	if err != nil {
		panic(err)
	}

	batchService, err := NewBatchService(log, cfg)
	if err != nil {
		panic(err)
	}

	server := api.NewServer(log, batchService, storageApp.Storage(), api.Options{
		AllowedExtensions: cfg.HTTPServer.AllowedExtensions,
		DefaultThreshold:  cfg.Matching.Threshold,
		AutoJunk:          cfg.Matching.AutoJunk,
		MaxUploadBytes:    cfg.HTTPServer.MaxUploadMB << 20,
		StaticDir:         cfg.HTTPServer.StaticDir,
	})

	return &App{
		log:        log,
		cfg:        cfg,
		Batch:      batchService,
		StorageApp: storageApp,
		HTTPServer: &http.Server{
			Addr:         cfg.HTTPServer.Address,
			Handler:      server.Router(),
			ReadTimeout:  cfg.HTTPServer.Timeout,
			WriteTimeout: cfg.HTTPServer.Timeout,
			IdleTimeout:  cfg.HTTPServer.IdleTimeout,
		},
	}
}

// Run starts the bundle janitor and serves HTTP until Stop is called.
func (a *App) Run(ctx context.Context) error {
	const op = "app.Run"

	a.StorageApp.StartJanitor(ctx, a.cfg.Export.PurgeInterval, a.cfg.Export.BundleTTL)

	a.log.Info("http server started", "address", a.HTTPServer.Addr)
	if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop(ctx context.Context) {
	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.log.Error("Failed to stop http server", sl.Err(err))
	}

	a.Batch.Metrics().PrintMetrics(a.log)

	if err := a.StorageApp.Stop(); err != nil {
		a.log.Error("Failed to close database", sl.Err(err))
	}
}
