// Package workbook models the spreadsheet-JSON documents the extraction
// pipeline produces from xlsx inputs: per-sheet cell maps carrying values,
// formulas and formatting. The scorer reads cell values and formatting
// conventions from here; it never touches xlsx binaries.
package workbook

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Format is the subset of cell formatting the conventions check cares about.
type Format struct {
	Bold         bool   `json:"bold,omitempty"`
	Italic       bool   `json:"italic,omitempty"`
	FontColor    string `json:"font_color,omitempty"`
	Background   string `json:"background,omitempty"`
	NumberFormat string `json:"number_format,omitempty"`
	Align        string `json:"align,omitempty"`
}

// Cell is one extracted spreadsheet cell. Value holds the computed value;
// Formula is present only for formula cells.
type Cell struct {
	Value   any     `json:"value"`
	Formula string  `json:"formula,omitempty"`
	Type    string  `json:"type"`
	Format  *Format `json:"format,omitempty"`
}

// Sheet is one worksheet's cells keyed by A1-style reference.
type Sheet struct {
	Dimensions string          `json:"dimensions"`
	Cells      map[string]Cell `json:"cells"`
}

// Workbook is the full extracted document.
type Workbook struct {
	Filename    string            `json:"filename"`
	Sheets      map[string]Sheet  `json:"sheets"`
	NamedRanges map[string]string `json:"named_ranges,omitempty"`
}

// Load reads an extracted workbook JSON document.
func Load(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	var wb Workbook
	if err := json.Unmarshal(data, &wb); err != nil {
		return nil, fmt.Errorf("parsing workbook %s: %w", path, err)
	}
	return &wb, nil
}

// Lookup resolves a "Sheet1!B5" reference, or a bare "B5" when the workbook
// has exactly one sheet. ok=false for a missing sheet or cell; callers score
// that as a failed criterion, not an error.
func (w *Workbook) Lookup(ref string) (Cell, bool) {
	sheetName, cellRef, hasSheet := strings.Cut(ref, "!")
	if !hasSheet {
		if len(w.Sheets) != 1 {
			return Cell{}, false
		}
		cellRef = ref
		for name := range w.Sheets {
			sheetName = name
		}
	}
	sheet, ok := w.Sheets[sheetName]
	if !ok {
		return Cell{}, false
	}
	cell, ok := sheet.Cells[strings.ToUpper(cellRef)]
	return cell, ok
}

// Numeric returns the cell's value as a float64 when it is a number or a
// numeric string (with currency/thousands punctuation tolerated).
func (c Cell) Numeric() (float64, bool) {
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		s = strings.ReplaceAll(s, "$", "")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}
