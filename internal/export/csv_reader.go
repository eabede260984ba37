package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/docextract/internal/entity"
)

var ErrBadHeader = errors.New("csv header does not match export columns")

// ParseCSV reads back the output of CSV. Each data line is a comma separated
// list of JSON values, so it is decoded as a JSON array. An empty-string cell
// leaves the field at its zero value: nil for the nullable columns.
func ParseCSV(data []byte) ([]entity.ExtractionResult, error) {
	lines := strings.Split(string(data), "\n")
	if lines[0] != strings.Join(Header(), ",") {
		return nil, fmt.Errorf("%w: %q", ErrBadHeader, lines[0])
	}
	out := make([]entity.ExtractionResult, 0, len(lines)-1)
	for i, line := range lines[1:] {
		var cells []json.RawMessage
		if err := json.Unmarshal([]byte("["+line+"]"), &cells); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		if len(cells) != len(columns) {
			return nil, fmt.Errorf("line %d: got %d cells, want %d", i+2, len(cells), len(columns))
		}
		var r entity.ExtractionResult
		for j, c := range columns {
			if string(cells[j]) == `""` {
				continue
			}
			if err := c.set(&r, cells[j]); err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", i+2, c.name, err)
			}
		}
		out = append(out, r)
	}
	return out, nil
}
