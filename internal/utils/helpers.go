package utils

import (
	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/entity"
)

// PreviewLimit is how many characters of extracted text a summary shows.
const PreviewLimit = 2000

// StrOrEmpty dereferences p, or returns "" for nil.
func StrOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Preview returns at most PreviewLimit characters of the text, with "..."
// appended when something was cut.
func Preview(r entity.ExtractionResult) string {
	text := []rune(StrOrEmpty(r.ExtractedText))
	if len(text) <= PreviewLimit {
		return string(text)
	}
	return string(text[:PreviewLimit]) + "..."
}

// MethodLabel is the reported extraction method, or N/A.
func MethodLabel(r entity.ExtractionResult) string {
	if r.ExtractionMethod == nil || *r.ExtractionMethod == "" {
		return constants.MethodUnknown
	}
	return *r.ExtractionMethod
}

// PagesLabel is the page count, or N/A.
func PagesLabel(r entity.ExtractionResult) any {
	if r.PageCount == nil {
		return constants.MethodUnknown
	}
	return *r.PageCount
}

// SuccessCount counts entries with success set.
func SuccessCount(results []entity.ExtractionResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}
