package extract

import (
	"log/slog"
	"net/http"
	"time"
)

// Config for the extraction service client.
type Config struct {
	BaseURL    string        // default http://localhost:8000
	Timeout    time.Duration // http client timeout, default 5m
	HTTPClient *http.Client  // optional; Timeout is ignored when set
}

// Client talks to the extraction service over its REST API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

var (
	_ Extractor = (*Client)(nil)
	_ Prober    = (*Client)(nil)
)

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.Timeout <= 0 {
		// OCR of a long scan can take minutes
		cfg.Timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger,
	}
}
