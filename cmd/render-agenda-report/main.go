package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joelkehle/summit-agenda/internal/catalog"
	"github.com/joelkehle/summit-agenda/internal/config"
	"github.com/joelkehle/summit-agenda/internal/report"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML")
	dataDir := flag.String("data-dir", "", "Data directory")
	outputPath := flag.String("output", "", "Path to write the report (defaults to stdout)")
	asHTML := flag.Bool("html", false, "Render HTML instead of markdown")
	title := flag.String("title", "Conference Agenda", "Report title")
	flag.Parse()

	cfg, err := config.Resolve(*configPath, config.Overrides{DataDir: *dataDir})
	if err != nil {
		log.Fatalf("resolve config: %v", err)
	}

	sessions, err := catalog.NewStore(cfg.SessionsDir()).Load()
	if err != nil {
		log.Fatalf("load catalogue: %v", err)
	}
	if len(sessions) == 0 {
		log.Fatal("catalogue is empty; run agenda-harvest first")
	}

	out := report.BuildMarkdown(sessions, *title)
	if *asHTML {
		out, err = report.RenderHTML(out, *title)
		if err != nil {
			log.Fatalf("render html: %v", err)
		}
	}

	if *outputPath == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(*outputPath, []byte(out), 0o644); err != nil {
		log.Fatalf("write report: %v", err)
	}
	log.Printf("wrote report to %s", *outputPath)
}
