package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/config"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/ingest"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/model"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/observability"
)

var (
	category = flag.String("category", "", "single category to ingest (default: all)")
	timeout  = flag.Int("timeout", 0, "per-attempt timeout in seconds (overrides config)")
	retries  = flag.Int("retries", -1, "retries after a failed attempt (overrides config)")
	workers  = flag.Int("workers", 0, "concurrent categories (overrides config)")
	force    = flag.Bool("force", false, "ingest even when the database is already populated")
	dataDir  = flag.String("dataDir", "", "data directory (overrides config file)")
	baseURL  = flag.String("baseURL", "", "spreadsheet download endpoint (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	if *timeout > 0 {
		cfg.Ingest.TimeoutSeconds = *timeout
	}
	if *retries >= 0 {
		cfg.Ingest.MaxRetries = *retries
	}
	if *workers > 0 {
		cfg.Ingest.Workers = *workers
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *baseURL != "" {
		cfg.Ingest.BaseURL = *baseURL
	}

	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}

	categories := model.Categories()
	if *category != "" {
		cat, ok := model.CategoryByName(*category)
		if !ok {
			log.Fatalf("unknown category: %s", *category)
		}
		categories = []model.Category{cat}
	}

	observability.Register()

	client := ingest.NewClient(cfg.Ingest.BaseURL, 0)
	runner := ingest.NewRunner(client, dir, nil)
	opts := ingest.Options{
		Timeout: time.Duration(cfg.Ingest.TimeoutSeconds) * time.Second,
		Retries: cfg.Ingest.MaxRetries,
		Workers: cfg.Ingest.Workers,
		Force:   *force,
	}

	reports := runner.RunAll(context.Background(), categories, opts)

	failed := 0
	for _, report := range reports {
		switch report.Status {
		case "ok":
			fmt.Printf("%-15s ok       %d parsed, %d inserted, %d updated, %d skipped (%.1fs, %d attempt(s))\n",
				report.Category, report.RowsParsed, report.Inserted, report.Updated,
				report.Skipped, report.Duration.Seconds(), report.Attempts)
		case "skipped":
			fmt.Printf("%-15s skipped  database already populated\n", report.Category)
		default:
			failed++
			fmt.Printf("%-15s error    %s\n", report.Category, report.Error)
		}
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d categories failed\n", failed, len(reports))
		os.Exit(1)
	}
}
