// Package main provides indexerd - a minimal chain indexing daemon.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/weave-gw/chain-index-core/internal/chainsource"
	"github.com/weave-gw/chain-index-core/internal/config"
	"github.com/weave-gw/chain-index-core/internal/storage"
	"github.com/weave-gw/chain-index-core/pkg/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

func main() {
	var (
		dataDir       = flag.String("data-dir", "~/.chain-index", "Data directory")
		pollInterval  = flag.Duration("poll-interval", 5*time.Second, "Delay between height polls once caught up")
		logLevel      = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		showVersion   = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	log := logging.New(&logging.Config{
		Level:      *logLevel,
		TimeFormat: time.TimeOnly,
	})
	logging.SetDefault(log)

	if *showVersion {
		log.Infof("indexerd %s (commit: %s)", version, commit)
		os.Exit(0)
	}

	cfg, err := config.Load(*dataDir)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	cfg.Logging.Level = *logLevel
	log.Info("Config loaded", "path", config.ConfigPath(*dataDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", "error", err)
	}
	defer store.Close()
	log.Info("Storage initialized", "path", cfg.Storage.DataDir)

	// The chain source is an external collaborator (HTTP client, retry
	// logic) out of scope for this core; indexerd wires in whatever
	// concrete Source the deployment provides. There is none here, so
	// this wiring demo uses an empty fake and simply idles, showing the
	// shape of the orchestration loop without fabricating chain data.
	source := chainsource.NewFake()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("Shutdown signal received")
		cancel()
	}()

	log.Info("indexerd started", "version", version)
	runIndexLoop(ctx, log, store, source, *pollInterval)
	log.Info("indexerd stopped")
}

// runIndexLoop polls the chain source for the next unindexed height,
// ingests it, and sleeps when caught up. It is deliberately simple:
// the orchestration policy (backoff, concurrency, batch fetch) belongs
// to the surrounding API-layer process, not the indexing core.
func runIndexLoop(ctx context.Context, log *logging.Logger, store *storage.Storage, source chainsource.Source, pollInterval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		maxHeight, err := store.GetMaxHeight()
		if err != nil {
			log.Error("Failed to read max indexed height", "error", err)
			sleepOrDone(ctx, pollInterval)
			continue
		}

		nextHeight := maxHeight + 1

		data, err := source.GetBlockAndTxsByHeight(ctx, nextHeight)
		if err != nil {
			log.Debug("No new block available", "height", nextHeight, "error", err)
			sleepOrDone(ctx, pollInterval)
			continue
		}

		if err := store.SaveBlockAndTxs(data.Block, data.Txs, data.MissingTxIDs); err != nil {
			log.Error("Failed to save block", "height", nextHeight, "error", err)
			sleepOrDone(ctx, pollInterval)
			continue
		}

		log.Info("Indexed block", "height", nextHeight, "txs", len(data.Txs), "missing", len(data.MissingTxIDs))
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
