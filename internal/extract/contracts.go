package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/docextract/internal/entity"
)

// Document is one file to upload. Name is what the service sees as the filename.
type Document struct {
	Name string
	Data []byte
}

// LoadDocument reads a file from disk into a Document named after its base name.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read document: %w", err)
	}
	return Document{Name: filepath.Base(path), Data: data}, nil
}

// Extractor issues the three extraction calls.
type Extractor interface {
	// ExtractFile uploads one document to /extract/file.
	ExtractFile(ctx context.Context, doc Document) (entity.ExtractionResult, error)
	// ExtractBatch uploads all documents in one request to /extract/batch.
	// Results come back in the service's order.
	ExtractBatch(ctx context.Context, docs []Document) ([]entity.ExtractionResult, error)
	// ExtractURL asks the service to download and extract the document at url.
	ExtractURL(ctx context.Context, url string) (entity.ExtractionResult, error)
}

// Prober reports on the service itself.
type Prober interface {
	Health(ctx context.Context) error
	SupportedFormats(ctx context.Context) ([]string, error)
}
