package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-frecency/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/internal/frecency"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/internal/storage"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/logger"
)

const usage = `usage: frecencyctl [-config file] [-namespace key] <command> [flags]

commands:
  record -query Q -id ID   record a selection of ID for Q
  rank -query Q            reorder the JSON array of results read from stdin
  score -query Q -id ID    print the current score of ID for Q
  dump                     print the stored snapshot
  check                    probe the storage backend and stored snapshot
`

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	namespace := flag.String("namespace", "", "frecency namespace key (overrides config)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *namespace != "" {
		cfg.Frecency.Key = *namespace
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Arg(0), flag.Args()[1:], os.Stdin, os.Stdout); err != nil {
		slog.Error("command failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, command string, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	query := fs.String("query", "", "search query")
	id := fs.String("id", "", "result id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch command {
	case "record", "rank", "score", "dump", "check":
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	retention, err := frecency.ParseRetention(cfg.Frecency.Retention)
	if err != nil {
		return err
	}

	gw, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	defer gw.Close()

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	if command == "check" {
		return check(ctx, cfg, gw, enc)
	}

	opts := []frecency.Option{frecency.WithLogger(slog.Default())}
	if cfg.Kafka.Enabled && command == "record" {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		collector := analytics.NewCollector(producer, cfg.Kafka.BufferSize)
		collector.Start(ctx)
		defer collector.Close()
		opts = append(opts, frecency.WithEventSink(collector))
	}

	f, err := frecency.New(ctx, gw, frecency.Config{
		Key:                   cfg.Frecency.Key,
		TimestampsLimit:       cfg.Frecency.TimestampsLimit,
		RecentSelectionsLimit: cfg.Frecency.RecentSelectionsLimit,
		Retention:             retention,
	}, frecency.ByField[map[string]any](cfg.Frecency.IDAttribute), opts...)
	if err != nil {
		return err
	}

	switch command {
	case "record":
		if *query == "" || *id == "" {
			return apperrors.New(apperrors.ErrInvalidInput, "frecencyctl record", "requires -query and -id")
		}
		if err := f.Record(ctx, *query, *id); err != nil {
			return err
		}
		slog.Info("selection recorded", "namespace", cfg.Frecency.Key, "query", *query, "id", *id)
		return nil
	case "rank":
		var results []map[string]any
		if err := json.NewDecoder(stdin).Decode(&results); err != nil {
			return fmt.Errorf("decoding results: %w", err)
		}
		return enc.Encode(f.Rank(*query, results))
	case "score":
		return enc.Encode(map[string]any{"query": *query, "id": *id, "score": f.Score(*query, *id)})
	default:
		return enc.Encode(f.Snapshot())
	}
}

func check(ctx context.Context, cfg *config.Config, gw storage.Gateway, enc *json.Encoder) error {
	store, err := frecency.NewStore(cfg.Frecency.Key, gw, nil, nil)
	if err != nil {
		return err
	}
	checker := health.NewChecker()
	checker.Register(cfg.Storage.Backend, storage.SnapshotCheck(gw, store.Key()))

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	report := checker.Run(checkCtx)
	if err := enc.Encode(report); err != nil {
		return err
	}
	if report.Status == health.StatusDown {
		return fmt.Errorf("storage %s is down", cfg.Storage.Backend)
	}
	return nil
}
