package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/creditbench/creditbench/internal/config"
	"github.com/creditbench/creditbench/internal/demo/seed"
	"github.com/creditbench/creditbench/internal/ingest"
	"github.com/creditbench/creditbench/internal/observability"
	"github.com/creditbench/creditbench/internal/storage"
	s3store "github.com/creditbench/creditbench/internal/storage/s3"
	pgstore "github.com/creditbench/creditbench/internal/store/postgres"
)

func main() {
	dataDir := flag.String("data-dir", "./data", "directory holding drop files")
	sourceKind := flag.String("source", "dir", "where to load drops from: dir|s3")
	datasetList := flag.String("datasets", "", "comma-separated dataset names; empty loads every discovered drop")
	doSeed := flag.Bool("seed", false, "generate demo drop files into -data-dir before loading")
	seedValue := flag.Int64("seed-value", 1, "random seed for generated drops")
	seedCompanies := flag.Int("seed-companies", 0, "companies to generate; 0 uses the default")
	doPush := flag.Bool("push", false, "upload the drop files in -data-dir to the object store")
	createBucket := flag.Bool("create-bucket", false, "create the object store bucket when missing")
	doLoad := flag.Bool("load", true, "load drops into the dataset database")
	flag.Parse()

	cfg, err := config.LoadFromEnv("creditbench-loader")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	datasets := splitDatasets(*datasetList)

	if *doSeed {
		generator := seed.NewGenerator(seed.Config{
			Seed:      *seedValue,
			Companies: *seedCompanies,
		})
		data, err := generator.Generate()
		if err != nil {
			logger.Error("failed to generate demo drops", slog.Any("error", err))
			os.Exit(1)
		}
		written, err := data.WriteFiles(*dataDir)
		if err != nil {
			logger.Error("failed to write demo drops", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("demo drops written",
			slog.String("dir", *dataDir),
			slog.Int("files", len(written)),
			slog.Int64("seed", *seedValue))
	}

	var objectStore storage.ObjectStore
	if *doPush || *sourceKind == "s3" {
		objectStore, err = s3store.New(ctx, s3store.Config{
			Endpoint:         cfg.ObjectStore.Endpoint,
			Region:           cfg.ObjectStore.Region,
			Bucket:           cfg.ObjectStore.Bucket,
			AccessKeyID:      cfg.ObjectStore.AccessKeyID,
			SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
			UseSSL:           cfg.ObjectStore.UseSSL,
			Prefix:           cfg.ObjectStore.Prefix,
			AutoCreateBucket: *createBucket,
		})
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
	}

	if *doPush {
		pushed, err := ingest.PushDrops(ctx, objectStore, *dataDir, datasets)
		if err != nil {
			logger.Error("failed to push drops", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("drops pushed", slog.Int("objects", len(pushed)))
	}

	if !*doLoad {
		return
	}

	if cfg.Dataset.DSN == "" {
		logger.Error("CREDITBENCH_DATASET_DSN is required to load drops")
		os.Exit(1)
	}
	db, err := pgstore.Open(ctx, pgstore.DBConfig{
		DSN:             cfg.Dataset.DSN,
		MaxOpenConns:    cfg.Dataset.MaxOpenConns,
		MaxIdleConns:    cfg.Dataset.MaxIdleConns,
		ConnMaxIdleTime: cfg.Dataset.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Dataset.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to open dataset db", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	var source ingest.Source
	switch *sourceKind {
	case "dir":
		source, err = ingest.NewDirSource(*dataDir)
		if err != nil {
			logger.Error("failed to open drop directory", slog.Any("error", err))
			os.Exit(1)
		}
	case "s3":
		source = ingest.NewObjectSource(objectStore)
	default:
		logger.Error("unknown drop source", slog.String("source", *sourceKind))
		os.Exit(1)
	}

	loader := ingest.NewLoader(db, logger)
	summaries, err := loader.LoadAll(ctx, source, datasets)
	if err != nil {
		logger.Error("load failed", slog.Any("error", err))
		os.Exit(1)
	}

	inserted := 0
	for _, summary := range summaries {
		inserted += summary.Inserted
	}
	logger.Info("load complete",
		slog.Int("datasets", len(summaries)),
		slog.Int("rows", inserted))
}

func splitDatasets(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
