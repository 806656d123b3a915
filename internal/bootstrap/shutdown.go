package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/ItemVault_Go/internal/scheduler"
	"github.com/osse101/ItemVault_Go/internal/server"
	"github.com/osse101/ItemVault_Go/internal/session"
	"github.com/osse101/ItemVault_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil components are skipped.
type ShutdownComponents struct {
	Server    *server.Server
	Scheduler *scheduler.Scheduler
	Workers   *worker.Pool
	Sessions  *session.Registry
	Events    *EventSystem
	Stores    *Stores
}

// GracefulShutdown stops the application in dependency order:
//  1. HTTP server (stop accepting new commands)
//  2. Scheduler and workers (no autosave racing the final save)
//  3. Sessions (save and unload every character)
//  4. Event publisher and NATS (flush the notifications the saves produced)
//  5. Database pool
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	if c.Server != nil {
		slog.Info(LogMsgShuttingDownServer)
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Scheduler != nil {
		slog.Info(LogMsgStoppingScheduler)
		c.Scheduler.Stop()
	}
	if c.Workers != nil {
		c.Workers.Stop()
	}

	if c.Sessions != nil {
		slog.Info(LogMsgClosingSessions, "sessions", c.Sessions.Len())
		if err := c.Sessions.CloseAll(ctx); err != nil {
			slog.Error(LogMsgSessionCloseFailed, "error", err)
		}
	}

	if c.Events != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.Events.Publisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
		if c.Events.NATS != nil {
			if err := c.Events.NATS.Drain(); err != nil {
				slog.Error(LogMsgNATSDrainFailed, "error", err)
			}
		}
	}

	if c.Stores != nil {
		c.Stores.Close()
	}

	slog.Info(LogMsgServerStopped)
}
