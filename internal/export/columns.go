package export

import (
	"encoding/json"

	"github.com/joseph-ayodele/docextract/internal/entity"
)

// column is one CSV/XLSX column: its header name, how to read the value out of
// a result, and how to write a decoded cell back.
type column struct {
	name  string
	value func(r entity.ExtractionResult) any
	set   func(r *entity.ExtractionResult, raw json.RawMessage) error
}

// columns is the export column order. Header and rows are both derived from it.
var columns = []column{
	{
		name:  "file_name",
		value: func(r entity.ExtractionResult) any { return r.FileName },
		set: func(r *entity.ExtractionResult, raw json.RawMessage) error {
			return json.Unmarshal(raw, &r.FileName)
		},
	},
	{
		name:  "page_count",
		value: func(r entity.ExtractionResult) any { return nullable(r.PageCount) },
		set: func(r *entity.ExtractionResult, raw json.RawMessage) error {
			return json.Unmarshal(raw, &r.PageCount)
		},
	},
	{
		name:  "extraction_method",
		value: func(r entity.ExtractionResult) any { return nullable(r.ExtractionMethod) },
		set: func(r *entity.ExtractionResult, raw json.RawMessage) error {
			return json.Unmarshal(raw, &r.ExtractionMethod)
		},
	},
	{
		name:  "extracted_text",
		value: func(r entity.ExtractionResult) any { return nullable(r.ExtractedText) },
		set: func(r *entity.ExtractionResult, raw json.RawMessage) error {
			return json.Unmarshal(raw, &r.ExtractedText)
		},
	},
	{
		name:  "success",
		value: func(r entity.ExtractionResult) any { return r.Success },
		set: func(r *entity.ExtractionResult, raw json.RawMessage) error {
			return json.Unmarshal(raw, &r.Success)
		},
	},
}

// nullable unwraps p so that a nil pointer comes out as an untyped nil.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Header returns the column names in export order.
func Header() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.name
	}
	return out
}
