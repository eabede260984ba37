package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/entity"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Service turns a result list into export artifacts.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Export encodes results in the given format.
func (s *Service) Export(results []entity.ExtractionResult, format constants.ExportFormat) ([]byte, error) {
	start := time.Now()
	var (
		out []byte
		err error
	)
	switch format {
	case constants.FormatJSON:
		out, err = JSON(results)
	case constants.FormatCSV:
		out, err = CSV(results)
	case constants.FormatXLSX:
		out, err = XLSX(results)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		s.logger.Error("export.failed", "format", string(format), "error", err)
		return nil, err
	}
	s.logger.Info("export."+string(format)+".ok",
		"rows", len(results),
		"bytes", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// JSON renders results as a 2-space indented array. Nulls are kept and an
// empty or nil list renders as [].
func JSON(results []entity.ExtractionResult) ([]byte, error) {
	if results == nil {
		results = []entity.ExtractionResult{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// CSV renders the header line followed by one line per result. Every cell is
// the JSON encoding of its value; a missing value is "". Lines are joined by
// "\n" with no trailing newline.
func CSV(results []entity.ExtractionResult) ([]byte, error) {
	lines := make([]string, 0, len(results)+1)
	lines = append(lines, strings.Join(Header(), ","))
	cells := make([]string, len(columns))
	for i, r := range results {
		for j, c := range columns {
			cell, err := jsonCell(c.value(r))
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, c.name, err)
			}
			cells[j] = cell
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

func jsonCell(v any) (string, error) {
	if v == nil {
		v = ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
