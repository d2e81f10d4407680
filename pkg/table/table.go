// Package table reinterprets pipe-delimited model output as a table.
//
// The heuristic is deliberately loose: any line containing '|' is treated as
// a table line, the first one supplies the headers, and rows are not required
// to have as many cells as there are headers. Shape metadata on Table lets the
// caller decide how to render ragged rows.
package table

import (
	"errors"
	"strings"
)

const delimiter = "|"

// ErrNoTableDetected is returned when the text contains no usable table lines.
var ErrNoTableDetected = errors.New("no table detected in the response")

// noiseMarkers flag instructional lines that mention tables without being part of one.
var noiseMarkers = []string{"customize", "spreadsheet"}

type Table struct {
	Headers    []string   `json:"headers"`
	Rows       [][]string `json:"rows"`
	Columns    int        `json:"columns"`
	RowLengths []int      `json:"rowLengths"`
	Ragged     bool       `json:"ragged"`
}

// Extract parses text into a Table. It returns ErrNoTableDetected when no
// line qualifies.
func Extract(text string) (Table, error) {
	lines := tableLines(text)
	if len(lines) == 0 {
		return Table{}, ErrNoTableDetected
	}

	t := Table{
		Headers:    splitCells(lines[0]),
		Rows:       make([][]string, 0, len(lines)-1),
		RowLengths: make([]int, 0, len(lines)-1),
	}
	t.Columns = len(t.Headers)
	for _, line := range lines[1:] {
		row := splitCells(line)
		t.Rows = append(t.Rows, row)
		t.RowLengths = append(t.RowLengths, len(row))
		if len(row) != t.Columns {
			t.Ragged = true
		}
	}
	return t, nil
}

func tableLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if !strings.Contains(line, delimiter) || isNoise(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func isNoise(line string) bool {
	lower := strings.ToLower(line)
	for _, m := range noiseMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func splitCells(line string) []string {
	fields := strings.Split(line, delimiter)
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}
