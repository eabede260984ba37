package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/async"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/export"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/ingest"
	"github.com/joseph-ayodele/docextract/internal/session"
	"github.com/joseph-ayodele/docextract/internal/utils"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir      = flag.String("dir", "", "directory to watch (required)")
		out      = flag.String("out", "", "output directory (defaults to OUTPUT_DIR)")
		format   = flag.String("format", "json", "export format: json, csv or xlsx")
		initial  = flag.Bool("initial", true, "submit files already in the directory")
		debounce = flag.Duration("debounce", 500*time.Millisecond, "wait for writes to settle before submitting")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	f, ok := constants.ParseFormat(*format)
	if !ok {
		printError("Error: unknown format %q\n", *format)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *out == "" {
		*out = cfg.Export.OutputDir
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := extract.NewClient(extract.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)
	sess := session.New(client, logger)
	exporter := export.NewService(logger)

	// Every success replaces the session's list, so the watcher keeps its own
	// running list and rewrites the artifact from it.
	var (
		mu  sync.Mutex
		all []entity.ExtractionResult
	)
	handle := func(ctx context.Context, job async.Job) error {
		doc, err := extract.LoadDocument(job.Path)
		if err != nil {
			return err
		}
		sess.SelectFiles([]extract.Document{doc})
		rs, err := sess.SubmitFiles(ctx)
		if err != nil {
			var remote *session.RemoteError
			if errors.As(err, &remote) {
				return fmt.Errorf("%s: %w", remote.Message, remote.Err)
			}
			return err
		}

		mu.Lock()
		defer mu.Unlock()
		all = append(all, rs...)
		content, err := exporter.Export(all, f)
		if err != nil {
			return err
		}
		path, err := export.WriteArtifact(*out, export.FileName(f), content)
		if err != nil {
			return err
		}
		logger.Info("watch.export.ok",
			"path", path,
			"results", len(all),
			"succeeded", utils.SuccessCount(all))
		return nil
	}

	// One worker: the session allows a single submission in flight.
	q := async.NewQueue(handle, logger,
		async.WithWorkers(1),
		async.WithProcessTimeout(cfg.API.Timeout+30*time.Second),
	)

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{*dir},
		InitialScan: *initial,
		SkipHidden:  true,
		Debounce:    *debounce,
	}, logger)
	if err != nil {
		logger.Error("failed to start watcher", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("watching for documents", "dir", *dir, "format", string(f), "out", *out)

	for events != nil || errs != nil {
		select {
		case p, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if fi, err := os.Stat(p); err != nil || fi.IsDir() {
				continue
			}
			abs, _ := filepath.Abs(p)
			if err := q.Enqueue(ctx, async.NewJob(abs)); err != nil {
				logger.Warn("failed to queue file", "path", abs, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watcher reported error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	q.Shutdown(shutdownCtx)
	logger.Info("watcher stopped")
}
