package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/extract"
)

func main() {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Println("ERROR:", err)
		log.Println("  mac/Linux (bash/zsh): export EXTRACT_API_URL=http://HOST:PORT")
		log.Println("  Windows (PowerShell): $env:EXTRACT_API_URL='http://HOST:PORT'")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := extract.NewClient(extract.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}, nil)

	if err := client.Health(ctx); err != nil {
		log.Fatalf("extraction service health: FAIL (%v)", err)
	}
	log.Printf("extraction service health: OK (%s)", cfg.API.BaseURL)

	exts, err := client.SupportedFormats(ctx)
	if err != nil {
		log.Fatalf("listing supported formats: %v", err)
	}
	log.Printf("supported formats: %d", len(exts))
	log.Printf("- %s", strings.Join(exts, " "))

	served := make(map[string]bool, len(exts))
	for _, e := range exts {
		served[constants.NormalizeExt(e)] = true
	}
	for _, e := range constants.AcceptList {
		if !served[constants.NormalizeExt(e)] {
			log.Printf("WARN: client accepts %s but the service does not list it", e)
		}
	}
}
