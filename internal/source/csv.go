package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVExtractor handles CSV files. Each row is one line with its non-empty
// cells joined by single spaces.
type CSVExtractor struct{}

func (e *CSVExtractor) Extract(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}

	lines := make([]string, 0, len(records))
	for _, row := range records {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			if c := strings.TrimSpace(cell); c != "" {
				cells = append(cells, c)
			}
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return joinLines(lines), nil
}
