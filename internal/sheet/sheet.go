package sheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawSheet is an ordered grid of cell values as read from a workbook. Rows
// may be ragged: trailing blank cells are not padded.
type RawSheet [][]string

// ReadWorkbook parses xlsx bytes and returns the cell grid of the first
// sheet. The commission spreadsheets carry a single data sheet each.
func ReadWorkbook(data []byte) (RawSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// ColumnLabels builds the column labels for a sheet: the header cell, or
// "header (unit)" when a units row is present and its cell is non-blank.
// Lookup is positional; unitsRow < 0 means the sheet has no units row.
func ColumnLabels(raw RawSheet, headerRow, unitsRow int) ([]string, error) {
	if headerRow < 0 || headerRow >= len(raw) {
		return nil, fmt.Errorf("header row %d out of range (%d rows)", headerRow, len(raw))
	}

	headers := raw[headerRow]
	var units []string
	if unitsRow >= 0 && unitsRow < len(raw) {
		units = raw[unitsRow]
	}

	labels := make([]string, len(headers))
	for i, h := range headers {
		label := strings.TrimSpace(h)
		if i < len(units) {
			if unit := strings.TrimSpace(units[i]); unit != "" {
				label = fmt.Sprintf("%s (%s)", label, unit)
			}
		}
		labels[i] = label
	}
	return labels, nil
}

// cellAt returns the trimmed cell value at (row, col), or "" when the row is
// shorter than col.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
