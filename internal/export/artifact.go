package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/docextract/constants"
)

const artifactBase = "extraction"

// FileName is the default artifact name, e.g. extraction.json.
func FileName(format constants.ExportFormat) string {
	return artifactBase + "." + string(format)
}

// TimestampedFileName names an artifact after now, e.g. extraction_20250102_150405.csv.
func TimestampedFileName(format constants.ExportFormat, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", artifactBase, now.Format("20060102_150405"), format)
}

// WriteArtifact writes content to dir/name, creating dir if needed, and returns the path.
func WriteArtifact(dir, name string, content []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
