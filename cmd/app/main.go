package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"deepbook_go/internal/app"
	"deepbook_go/internal/infra/sui"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Background manager version/balance sync
	go bootstrap.SyncManagers(ctx)

	client := bootstrap.Client
	defer client.Close()

	// 5. Event stream: external fills invalidate cached balances
	cfg := bootstrap.Config
	if cfg.Network.WSURL != "" {
		packageID := bootstrap.Registry.Packages().DeepbookPackageID
		eventsWorker := sui.NewEventsWorker(cfg.Network.WSURL, packageID, client.InvalidateOnEvent)
		if err := eventsWorker.Connect(ctx); err != nil {
			slog.Error("Failed to connect event stream", slog.Any("error", err))
		}
		defer eventsWorker.Disconnect()
		slog.InfoContext(ctx, "✅ EventsWorker started", slog.String("package", packageID))
	}

	slog.InfoContext(ctx, "✨ Deepbook client fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}
