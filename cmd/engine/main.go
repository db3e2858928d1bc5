package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/rickgao/payments-engine/internal/config"
	"github.com/rickgao/payments-engine/internal/database"
	"github.com/rickgao/payments-engine/internal/engine"
	"github.com/rickgao/payments-engine/internal/router"
	"github.com/rickgao/payments-engine/internal/source"
	"github.com/rickgao/payments-engine/internal/version"
	"github.com/rickgao/payments-engine/internal/writer"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	unordered := flag.Bool("unordered", false, "emit accounts in completion order")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [transactions.csv]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// stdout carries the CSV dump, so logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	if err := run(*configPath, flag.Arg(0), *unordered, logger); err != nil {
		logger.Error("engine failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, inputPath string, unordered bool, logger *slog.Logger) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadWithDefaults(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if inputPath != "" {
		cfg.Input.Path = inputPath
		cfg.Input.URL = ""
	}
	if unordered {
		cfg.Output.Unordered = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logger.Debug("starting engine",
		"version", version.Version,
		"commit", version.Commit,
		"run", cfg.Run.Name,
	)

	unknown, err := router.ParseUnknownPolicy(cfg.Engine.UnknownEvents)
	if err != nil {
		return err
	}
	dup, err := router.ParseDuplicatePolicy(cfg.Engine.DuplicateTx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var src source.Source
	if cfg.Input.URL != "" {
		src = source.NewWebSocketSource(source.WebSocketConfig{
			URL:              cfg.Input.URL,
			APIKey:           cfg.Input.APIKey,
			HandshakeTimeout: cfg.Input.HandshakeTimeout,
			ReadTimeout:      cfg.Input.ReadTimeout,
		}, logger)
	} else {
		src = source.NewFileSource(cfg.Input.Path, logger)
	}

	var out io.Writer = os.Stdout
	if cfg.Output.Path != "" && cfg.Output.Path != "-" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	sinks := []engine.Sink{engine.NewCSVSink(out)}

	runID := uuid.New()
	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Postgres.Host,
			"port", cfg.Database.Postgres.Port,
			"database", cfg.Database.Postgres.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()

		w := writer.NewSnapshotWriter(writer.WriterConfig{BatchSize: cfg.Database.BatchSize},
			pool, runID, cfg.Run.Name, logger)
		if err := w.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, w)
	}

	eng := engine.New(engine.Config{
		Router: router.RouterConfig{
			UnknownEvents: unknown,
			DuplicateTx:   dup,
			InboxCapacity: cfg.Engine.InboxCapacity,
		},
		Unordered: cfg.Output.Unordered,
		RunID:     runID,
	}, src, logger, sinks...)

	_, err = eng.Run(ctx)
	return err
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
