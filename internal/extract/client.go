package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/docextract/internal/entity"
)

type urlRequest struct {
	URL string `json:"url"`
}

type batchResponse struct {
	Results []entity.ExtractionResult `json:"results"`
	Total   int                       `json:"total"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type formatsResponse struct {
	Extensions []string `json:"extensions"`
}

// ExtractFile implements Extractor.
func (c *Client) ExtractFile(ctx context.Context, doc Document) (entity.ExtractionResult, error) {
	const op = "extract file"
	raw, err := c.postMultipart(ctx, op, "/extract/file", "file", []Document{doc})
	if err != nil {
		return entity.ExtractionResult{}, err
	}
	return decodeResult(op, raw)
}

// ExtractBatch implements Extractor. The service is expected to answer in
// submission order; a mismatch is logged, not corrected.
func (c *Client) ExtractBatch(ctx context.Context, docs []Document) ([]entity.ExtractionResult, error) {
	const op = "extract batch"
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoDocuments)
	}
	raw, err := c.postMultipart(ctx, op, "/extract/batch", "files", docs)
	if err != nil {
		return nil, err
	}
	if err := validateJSON(batchSchema, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var out batchResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if out.Results == nil {
		out.Results = []entity.ExtractionResult{}
	}
	c.checkBatchOrder(docs, out.Results)
	return out.Results, nil
}

// ExtractURL implements Extractor. The url is sent exactly as given.
func (c *Client) ExtractURL(ctx context.Context, url string) (entity.ExtractionResult, error) {
	const op = "extract url"
	raw, err := c.postJSON(ctx, op, "/extract/url", urlRequest{URL: url})
	if err != nil {
		return entity.ExtractionResult{}, err
	}
	return decodeResult(op, raw)
}

// Health implements Prober.
func (c *Client) Health(ctx context.Context) error {
	const op = "health"
	raw, err := c.get(ctx, op, "/health")
	if err != nil {
		return err
	}
	var out healthResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidResponse, err)
	}
	if out.Status != "ok" {
		return fmt.Errorf("%s: %w: status %q", op, ErrUnhealthy, out.Status)
	}
	return nil
}

// SupportedFormats implements Prober.
func (c *Client) SupportedFormats(ctx context.Context) ([]string, error) {
	const op = "supported formats"
	raw, err := c.get(ctx, op, "/supported-formats")
	if err != nil {
		return nil, err
	}
	var out formatsResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidResponse, err)
	}
	return out.Extensions, nil
}

func decodeResult(op string, raw []byte) (entity.ExtractionResult, error) {
	if err := validateJSON(resultSchema, raw); err != nil {
		return entity.ExtractionResult{}, fmt.Errorf("%s: %w", op, err)
	}
	var out entity.ExtractionResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return entity.ExtractionResult{}, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return out, nil
}

func (c *Client) checkBatchOrder(docs []Document, results []entity.ExtractionResult) {
	if len(results) != len(docs) {
		c.logger.Warn("extract.batch.count_mismatch", "submitted", len(docs), "returned", len(results))
		return
	}
	for i := range docs {
		if results[i].FileName != docs[i].Name {
			c.logger.Warn("extract.batch.order_mismatch",
				"index", i,
				"submitted", docs[i].Name,
				"returned", results[i].FileName,
			)
			return
		}
	}
}
