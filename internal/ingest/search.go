package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultSearchEndpoint = "https://www.googleapis.com/customsearch/v1"
	// Custom Search caps num at 10.
	maxSearchResults = 10
)

// SearchConfig configures the Google Custom Search client.
type SearchConfig struct {
	APIKey   string
	EngineID string
	Endpoint string // default googleapis customsearch v1
	Timeout  time.Duration
}

// Searcher looks up PDF documents on the web.
type Searcher struct {
	cfg    SearchConfig
	http   *http.Client
	logger *slog.Logger
}

func NewSearcher(cfg SearchConfig, logger *slog.Logger) *Searcher {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultSearchEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

// Configured reports whether both credentials are set.
func (s *Searcher) Configured() bool {
	return s.cfg.APIKey != "" && s.cfg.EngineID != ""
}

type searchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

// SearchPDFs returns up to num links for query restricted to PDF files.
// Without credentials it logs a warning and returns nothing.
func (s *Searcher) SearchPDFs(ctx context.Context, query string, num int) ([]string, error) {
	if !s.Configured() {
		s.logger.Warn("search.not_configured", "query", query)
		return nil, nil
	}
	if num <= 0 || num > maxSearchResults {
		num = maxSearchResults
	}

	q := url.Values{}
	q.Set("key", s.cfg.APIKey)
	q.Set("cx", s.cfg.EngineID)
	q.Set("q", query+" filetype:pdf")
	q.Set("num", strconv.Itoa(num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}
	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("search: status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}
	links := make([]string, 0, len(out.Items))
	for _, it := range out.Items {
		if it.Link != "" {
			links = append(links, it.Link)
		}
	}
	s.logger.Info("search.ok", "query", query, "results", len(links), "elapsed_ms", time.Since(start).Milliseconds())
	return links, nil
}
