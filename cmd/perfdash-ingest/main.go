package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/config"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/ingest"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.SetupLogger(cfg.LogFile, cfg.Log.Level, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.CloseFile()

	store := ingest.NewStore(cfg.Ingest.DataFile)
	srv := &http.Server{
		Addr:              cfg.Ingest.Addr(),
		Handler:           ingest.NewServer(store, cfg.Ingest.WebDir, logger.With("component", "ingest")).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ingest server listening",
			"addr", srv.Addr,
			"data_file", store.Path(),
			"web_dir", cfg.Ingest.WebDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("ingest server failed", "err", err)
		logging.CloseFile()
		os.Exit(1)
	}

	logger.Info("shutting down ingest server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
