package entity

// ExtractionResult is one entry per submitted document or URL.
// Field order is the export column order; do not reorder.
type ExtractionResult struct {
	FileName         string  `json:"file_name"`
	PageCount        *int    `json:"page_count"`
	ExtractionMethod *string `json:"extraction_method"`
	ExtractedText    *string `json:"extracted_text"`
	Success          bool    `json:"success"`
}

// HasText reports whether the entry carries non-empty text.
// A failed entry may still carry text; callers must check Success separately.
func (r ExtractionResult) HasText() bool {
	return r.ExtractedText != nil && *r.ExtractedText != ""
}

// CloneResults copies the slice header and entries so the caller can hand it out
// without exposing the backing array. Pointer fields are shared; they are never mutated.
func CloneResults(in []ExtractionResult) []ExtractionResult {
	out := make([]ExtractionResult, len(in))
	copy(out, in)
	return out
}
