package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// Discoverer finds links to PDF documents on web pages.
type Discoverer struct {
	http        *http.Client
	concurrency int
	logger      *slog.Logger
}

func NewDiscoverer(timeout time.Duration, concurrency int, logger *slog.Logger) *Discoverer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{
		http:        &http.Client{Timeout: timeout},
		concurrency: concurrency,
		logger:      logger,
	}
}

// DiscoverPDFs fetches every page and returns the PDF links found, in page
// order and then document order, without duplicates. A page that cannot be
// fetched is logged and contributes nothing.
func (d *Discoverer) DiscoverPDFs(ctx context.Context, pages []string) ([]string, error) {
	found := make([][]string, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, page := range pages {
		g.Go(func() error {
			links, err := d.scanPage(gctx, page)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				d.logger.Warn("discovery.page.failed", "page", page, "error", err)
				return nil
			}
			found[i] = links
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []string
	for _, links := range found {
		for _, l := range links {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	d.logger.Info("discovery.ok", "pages", len(pages), "pdfs", len(out))
	return out, nil
}

func (d *Discoverer) scanPage(ctx context.Context, page string) ([]string, error) {
	base, err := url.Parse(page)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "docextract/1.0")

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fetch: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return pdfLinks(doc, base), nil
}

// pdfLinks returns the absolute form of every a[href] whose path ends in .pdf.
func pdfLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if !strings.HasSuffix(strings.ToLower(abs.Path), ".pdf") {
			return
		}
		abs.Fragment = ""
		links = append(links, abs.String())
	})
	return links
}
