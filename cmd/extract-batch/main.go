package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joseph-ayodele/docextract/constants"
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
		files     = flag.String("files", "", "comma separated document paths")
		dir       = flag.String("dir", "", "directory to collect documents from")
		urls      = flag.String("urls", "", "comma separated document urls")
		urlFile   = flag.String("url-file", "", "file with one url per line (# comments allowed)")
		pages     = flag.String("pages", "", "comma separated web pages to scan for PDF links")
		search    = flag.String("search", "", "web search query for PDF documents")
		format    = flag.String("format", "both", "export format: json, csv, xlsx or both (json+csv)")
		out       = flag.String("out", "", "output directory (defaults to OUTPUT_DIR)")
		timestamp = flag.Bool("timestamp", false, "name artifacts extraction_YYYYmmdd_HHMMSS.<ext>")
		stdout    = flag.Bool("stdout", false, "write the export to stdout instead of files (json or csv only)")
		preview   = flag.Bool("preview", false, "print a text preview of every result")
	)
	flag.Parse()

	formats, err := parseFormats(*format)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *stdout && (len(formats) != 1 || formats[0] == constants.FormatXLSX) {
		printError("Error: --stdout needs exactly one of json or csv\n")
		os.Exit(1)
	}
	if *files == "" && *dir == "" && *urls == "" && *urlFile == "" && *pages == "" && *search == "" {
		printError("Error: nothing to do, pass at least one of --files --dir --urls --url-file --pages --search\n")
		flag.Usage()
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

	// Logs go to stderr when the export itself goes to stdout.
	logOut := os.Stdout
	if *stdout {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := extract.NewClient(extract.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)
	sess := session.New(client, logger)

	var results []entity.ExtractionResult

	// Files: explicit paths first, then the directory walk, all in one submission.
	// Explicit paths are sent whatever their extension; the service reports
	// unsupported ones as failed entries.
	paths := splitList(*files)
	if *dir != "" {
		found, _, err := ingest.CollectDirectory(*dir, true, logger)
		if err != nil {
			logger.Error("failed to collect directory", "dir", *dir, "error", err)
			os.Exit(1)
		}
		paths = append(paths, found...)
	}
	if len(paths) > 0 {
		docs := loadDocuments(paths, logger)
		sess.SelectFiles(docs)
		if rs, err := sess.SubmitFiles(ctx); err == nil {
			results = append(results, rs...)
		} else {
			logSubmitError(logger, "files", err)
		}
	}

	// URLs: explicit, from file, discovered on pages, from search.
	targets := splitList(*urls)
	if *urlFile != "" {
		fromFile, err := ingest.LoadURLsFromFile(*urlFile)
		if err != nil {
			logger.Error("failed to load url file", "path", *urlFile, "error", err)
			os.Exit(1)
		}
		targets = append(targets, fromFile...)
	}
	if pageList := splitList(*pages); len(pageList) > 0 {
		d := ingest.NewDiscoverer(cfg.Discovery.Timeout, cfg.Discovery.Concurrency, logger)
		found, err := d.DiscoverPDFs(ctx, pageList)
		if err != nil {
			logger.Error("pdf discovery failed", "error", err)
		}
		targets = append(targets, found...)
	}
	if q := strings.TrimSpace(*search); q != "" && !cfg.SearchEnabled() {
		logger.Warn("search skipped: GOOGLE_API_KEY and GOOGLE_CSE_ID are not set", "query", q)
	} else if q != "" {
		s := ingest.NewSearcher(ingest.SearchConfig{
			APIKey:   cfg.Search.APIKey,
			EngineID: cfg.Search.EngineID,
			Endpoint: cfg.Search.Endpoint,
			Timeout:  cfg.Discovery.Timeout,
		}, logger)
		found, err := s.SearchPDFs(ctx, q, cfg.Search.NumResults)
		if err != nil {
			logger.Error("search failed", "query", q, "error", err)
		}
		targets = append(targets, found...)
	}
	for _, u := range targets {
		if ctx.Err() != nil {
			break
		}
		sess.SetURL(u)
		rs, err := sess.SubmitURL(ctx)
		if err != nil {
			logSubmitError(logger, u, err)
			continue
		}
		results = append(results, rs...)
	}

	if len(results) == 0 {
		logger.Warn("no documents processed")
		return
	}

	exporter := export.NewService(logger)
	now := time.Now()
	var written []string
	for _, f := range formats {
		content, err := exporter.Export(results, f)
		if err != nil {
			logger.Error("failed to export", "format", string(f), "error", err)
			os.Exit(1)
		}
		if *stdout {
			if _, err := os.Stdout.Write(append(content, '\n')); err != nil {
				printError("Error: write stdout: %v\n", err)
				os.Exit(1)
			}
			continue
		}
		name := export.FileName(f)
		if *timestamp {
			name = export.TimestampedFileName(f, now)
		}
		path, err := export.WriteArtifact(*out, name, content)
		if err != nil {
			logger.Error("failed to write artifact", "error", err)
			os.Exit(1)
		}
		written = append(written, path)
	}

	succeeded := utils.SuccessCount(results)
	var ocr, empty int
	for _, r := range results {
		if r.ExtractionMethod != nil && constants.IsOCR(*r.ExtractionMethod) {
			ocr++
		}
		if r.Success && !r.HasText() {
			empty++
		}
	}
	logger.Info("batch extraction complete",
		"results", len(results),
		"succeeded", succeeded,
		"ocr", ocr,
		"empty_text", empty,
		"artifacts", written)

	if *stdout {
		return
	}
	fmt.Printf("Extraction complete!\n")
	fmt.Printf("- Successfully extracted: %d/%d\n", succeeded, len(results))
	for _, p := range written {
		fmt.Printf("- Output: %s\n", p)
	}
	if *preview {
		for _, r := range results {
			fmt.Printf("\n== %s (pages: %v, method: %s, success: %t)\n%s\n",
				r.FileName, utils.PagesLabel(r), utils.MethodLabel(r), r.Success, utils.Preview(r))
		}
	}
}

// loadDocuments reads every path. Unreadable files are logged and left out.
func loadDocuments(paths []string, logger *slog.Logger) []extract.Document {
	docs := make([]extract.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := extract.LoadDocument(p)
		if err != nil {
			logger.Error("failed to read file", "path", p, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

func logSubmitError(logger *slog.Logger, input string, err error) {
	var remote *session.RemoteError
	switch {
	case errors.As(err, &remote):
		logger.Error(remote.Message, "input", input, "error", remote.Err)
	case errors.Is(err, session.ErrRejectedLocally):
		logger.Warn("submission skipped", "input", input, "reason", err)
	default:
		logger.Error("submission failed", "input", input, "error", err)
	}
}

// parseFormats expands the --format flag. "both" means json and csv.
func parseFormats(s string) ([]constants.ExportFormat, error) {
	if strings.EqualFold(strings.TrimSpace(s), "both") {
		return []constants.ExportFormat{constants.FormatJSON, constants.FormatCSV}, nil
	}
	f, ok := constants.ParseFormat(s)
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want json, csv, xlsx or both)", s)
	}
	return []constants.ExportFormat{f}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
