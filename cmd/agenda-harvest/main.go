package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/joelkehle/summit-agenda/internal/catalog"
	"github.com/joelkehle/summit-agenda/internal/config"
	"github.com/joelkehle/summit-agenda/internal/harvest"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML (defaults to ~/.summit-agenda/config.yaml)")
	baseURL := flag.String("base-url", "", "Agenda listing URL to crawl")
	dataDir := flag.String("data-dir", "", "Directory to write catalogue files under")
	preview := flag.Bool("preview", false, "Preview mode: visit only a few session pages")
	previewCount := flag.Int("preview-count", 3, "Number of session pages to visit in preview mode")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Resolve(*configPath, config.Overrides{BaseURL: *baseURL, DataDir: *dataDir})
	if err != nil {
		log.Fatalf("resolve config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := harvest.Options{
		BaseURL:     cfg.BaseURL,
		ChromePath:  cfg.ChromePath,
		PageTimeout: time.Duration(cfg.PageTimeout) * time.Second,
	}
	if *preview {
		opts.PreviewCount = *previewCount
	}

	store := catalog.NewStore(cfg.SessionsDir())
	harvester := harvest.NewHarvester(opts, store)

	merged, err := harvester.Run(ctx)
	if err != nil {
		log.Fatalf("harvest: %v", err)
	}
	log.Printf("saved %d sessions to %s", len(merged), store.Dir())
}
