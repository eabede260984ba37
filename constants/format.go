package constants

import "strings"

// ExportFormat names an export artifact type. The value doubles as the file extension.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

var allFormats = []ExportFormat{FormatJSON, FormatCSV, FormatXLSX}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (ExportFormat, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, f := range allFormats {
		if normalized == string(f) {
			return f, true
		}
	}
	return "", false
}
