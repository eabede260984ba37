package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docextract/constants"
)

// AllowedExt checks if a file extension is one the extraction service accepts.
func AllowedExt(ext string) bool {
	return constants.AllowedExt(ext)
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return base != "." && base != ".." && strings.HasPrefix(base, ".")
}

func allowedPath(path string) bool {
	return AllowedExt(filepath.Ext(path))
}
