package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"open-invite/console"
	"open-invite/moderation"
	"open-invite/observability"
	"open-invite/repositories"
	"open-invite/repositories/storage"
	"open-invite/runtime"
	"open-invite/runtime/workers"
	"open-invite/search"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages their lifecycle, and centralizes
// error reporting, so that every defer (database close, index close) runs
// before the process exits and the wiring stays testable apart from main.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	consoleCfg, err := console.LoadConfig()
	if err != nil {
		return fmt.Errorf("console config error: %w", err)
	}

	// 2. Archive database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Title moderation
	blacklist, err := runtime.LoadEmbeddedBlacklist()
	if err != nil {
		return fmt.Errorf("blacklist loading failed: %w", err)
	}
	log.Info(fmt.Sprintf("%d censored words loaded [%s]",
		len(blacklist.Words), strings.Join(blacklist.Languages, ",")))

	moderator, err := moderation.NewModerator(blacklist.Words, []rune(config.CharReplacement)[0], log)
	if err != nil {
		return fmt.Errorf("moderator setup failed: %w", err)
	}

	// 4. Discovery index
	index, err := search.NewSessionIndex(log)
	if err != nil {
		return fmt.Errorf("session index setup failed: %w", err)
	}
	defer func() {
		_ = index.Close()
	}()

	// 5. Engine wiring
	monitoring := observability.NewMonitoringManager(log)
	registry := runtime.NewSessionRegistry(log, config.MaxSessionSize)
	renderer := console.NewRenderer(consoleCfg.Colours)
	directory := console.NewDirectory(strings.Split(consoleCfg.Members, ","))

	coordinator := runtime.NewCoordinator(
		log, registry, renderer, directory, moderator, index, monitoring,
		config.MaxSessionSize, config.DefaultSessionSize, config.BufferSize,
		config.DefaultTitle,
	)

	archive := repositories.NewArchiveRepository(db, log)
	fanout := workers.NewEventFanout(log, coordinator.Events(), config.SinkTimeout,
		storage.NewArchiveSink(archive, log))

	sweeper := workers.NewSessionSweeper(log, coordinator,
		config.CleanupInterval, config.MinSessionLifetime, config.MaxSessionLifetime)
	heartbeat := workers.NewHeartbeatWorker(log, monitoring, coordinator, config.HeartbeatInterval)
	gateway := console.NewGateway(log, coordinator, directory, sweeper, consoleCfg.HostName)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 7. Supervision
	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	supervisor.Add(fanout, sweeper, heartbeat, gateway)

	log.Info("Starting open-invite engine",
		"max_session_size", config.MaxSessionSize,
		"cleanup_interval", config.CleanupInterval)
	supervisor.Run(ctx)

	log.Info("Program stopped cleanly")
	return nil
}
