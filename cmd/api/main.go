// Package main implements the fleetgraph API server. It loads the
// fleet collections, builds the relationship graph, and serves it over
// HTTP, with optional file watching and an optional NATS collection
// feed.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/asmortongpt/fleetgraph/engine/ingest"
	"github.com/asmortongpt/fleetgraph/engine/linking"
	"github.com/asmortongpt/fleetgraph/pkg/config"
	"github.com/asmortongpt/fleetgraph/pkg/mid"
	"github.com/asmortongpt/fleetgraph/pkg/natsutil"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	flags := pflag.NewFlagSet("fleetgraph-api", pflag.ExitOnError)
	flags.Int("port", 8080, "HTTP listen port")
	flags.String("data_dir", "./data", "directory holding the collection JSON files")
	flags.Bool("watch", false, "rebuild the graph when collection files change")
	flags.String("nats_url", "", "NATS server URL (empty disables the feed)")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Load collections and build the graph ---
	loader := ingest.NewLoader(cfg.DataDir, logger)
	collections, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load collections: %w", err)
	}

	engine := linking.New(linking.Options{
		LaborRate:            cfg.LaborRate,
		RecentWorkOrderLimit: cfg.RecentWorkOrders,
		FuelHistoryLimit:     cfg.FuelHistory,
	})
	engine.SetCollections(collections)
	logger.Info("graph built",
		"edges", engine.EdgeCount(),
		"counts", engine.EntityCounts(),
	)

	// --- Optional file watcher ---
	if cfg.Watch {
		watcher := ingest.NewWatcher(loader, engine, logger)
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
	}

	// --- Optional NATS collection feed ---
	if cfg.NATSURL != "" {
		nc, err := natsutil.Connect(cfg.NATSURL, "fleetgraph-api")
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Close()

		feed := ingest.NewFeed(nc, engine, collections, logger)
		if err := feed.Start(); err != nil {
			return fmt.Errorf("start feed: %w", err)
		}
		defer feed.Stop()
	}

	// --- Build HTTP server ---
	srv := &server{engine: engine, log: logger}

	handler := mid.Chain(srv.router(),
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(cfg.RateLimitRPS, int(cfg.RateLimitRPS)*2),
		mid.OTel("fleetgraph-api"),
	)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}
