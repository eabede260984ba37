package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docextract/internal/entity"
)

const (
	xlsxSheet = "Extraction"
	// Excel refuses cells longer than this.
	xlsxMaxCell = 32767
)

// XLSX renders results as a single-sheet workbook with the same columns as CSV.
// Missing values are left as empty cells.
func XLSX(results []entity.ExtractionResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range Header() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(xlsxSheet, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
	}

	for i, r := range results {
		row := i + 2
		for j, c := range columns {
			v := c.value(r)
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok {
				v = truncateRunes(s, xlsxMaxCell)
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(xlsxSheet, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx row %d: %w", row, err)
			}
		}
	}

	_ = f.SetColWidth(xlsxSheet, "A", "A", 32) // file name
	_ = f.SetColWidth(xlsxSheet, "B", "B", 12) // pages
	_ = f.SetColWidth(xlsxSheet, "C", "C", 18) // method
	_ = f.SetColWidth(xlsxSheet, "D", "D", 80) // text
	_ = f.SetColWidth(xlsxSheet, "E", "E", 10) // success

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
