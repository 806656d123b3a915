package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/ItemVault_Go/internal/bootstrap"
	"github.com/osse101/ItemVault_Go/internal/config"
	"github.com/osse101/ItemVault_Go/internal/server"
	"github.com/osse101/ItemVault_Go/internal/session"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ItemVault exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if warnings, err := config.ValidateEnvWithWarnings(); err != nil {
		slog.Warn(bootstrap.LogMsgEnvWarning, "error", err)
	} else {
		for _, w := range warnings {
			slog.Warn(bootstrap.LogMsgEnvWarning, "warning", w)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.InitializeStores(ctx, cfg)
	if err != nil {
		return err
	}

	metadata, err := bootstrap.LoadItemMetadata(ctx, cfg)
	if err != nil {
		stores.Close()
		return err
	}

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		stores.Close()
		return err
	}

	registry := session.NewRegistry(session.Config{
		Store:    stores.Items,
		Accounts: stores.Accounts,
		Metadata: metadata,
		Bus:      events.Publisher,
	})

	workers, sched, err := bootstrap.InitializeJobs(cfg, registry)
	if err != nil {
		bootstrap.GracefulShutdown(context.Background(), bootstrap.ShutdownComponents{
			Sessions: registry,
			Events:   events,
			Stores:   stores,
		})
		return err
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Readiness:      append(stores.ReadinessChecks(), events.ReadinessChecks()...),
	}, registry, metadata)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err = <-serverErr:
		slog.Error("Server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:    srv,
		Scheduler: sched,
		Workers:   workers,
		Sessions:  registry,
		Events:    events,
		Stores:    stores,
	})
	return err
}
