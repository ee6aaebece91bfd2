package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kwscan/config"
	"kwscan/internal/app"
	"kwscan/internal/lib/logger/sl"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload and download HTTP service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env, os.Stdout)
	log.Info("kwscan", "env", cfg.Env)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	application := app.New(log, cfg)
	log.Info("Database initialised", "path", cfg.StoragePath)

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run(ctx)
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	var runErr error
	select {
	case <-stop:
	case runErr = <-errCh:
		if runErr != nil {
			log.Error("http server failed", sl.Err(runErr))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer shutdownCancel()

	application.Stop(shutdownCtx)
	log.Info("Gracefully stopped")

	return runErr
}
