package workbook

import (
	"fmt"
	"strings"
)

// Class describes how a cell derives its value, for the financial-modeling
// color convention check.
type Class int

const (
	ClassOther Class = iota
	ClassHardcodedNumber
	ClassSameBookFormula
	ClassCrossBookFormula
)

func (c Class) String() string {
	switch c {
	case ClassHardcodedNumber:
		return "hardcoded number"
	case ClassSameBookFormula:
		return "same-workbook formula"
	case ClassCrossBookFormula:
		return "cross-workbook formula"
	}
	return "other"
}

// Standard banker color conventions: inputs blue, in-book formulas black,
// links to other workbooks green.
const (
	colorBlue  = "#0000FF"
	colorBlack = "#000000"
	colorGreen = "#008000"
)

// conventionColor returns the required font color for a class, or "" when no
// convention applies (such cells are skipped, not failed).
func conventionColor(class Class) string {
	switch class {
	case ClassHardcodedNumber:
		return colorBlue
	case ClassSameBookFormula:
		return colorBlack
	case ClassCrossBookFormula:
		return colorGreen
	}
	return ""
}

// Classify buckets a cell for the conventions check. External references in
// xlsx formulas carry a bracketed book name, e.g. =[Model.xlsx]Sheet1!B2.
func Classify(c Cell) Class {
	if c.Formula != "" {
		if strings.Contains(c.Formula, "[") && strings.Contains(c.Formula, "]") {
			return ClassCrossBookFormula
		}
		return ClassSameBookFormula
	}
	if c.Type == "number" {
		return ClassHardcodedNumber
	}
	return ClassOther
}

// fontColor returns the cell's effective font color, defaulting to black
// when no explicit color is set (Excel's default rendering).
func fontColor(c Cell) string {
	if c.Format != nil && c.Format.FontColor != "" {
		return strings.ToUpper(c.Format.FontColor)
	}
	return colorBlack
}

// CheckConventions verifies the color convention for each referenced cell.
// Returns one violation message per nonconforming cell. A missing cell is a
// violation (the convention cannot be verified on absent work); a cell whose
// class has no convention is skipped.
func (w *Workbook) CheckConventions(cells []string) []string {
	var violations []string
	for _, ref := range cells {
		cell, ok := w.Lookup(ref)
		if !ok {
			violations = append(violations, fmt.Sprintf("%s: cell not found", ref))
			continue
		}
		class := Classify(cell)
		want := conventionColor(class)
		if want == "" {
			continue
		}
		if got := fontColor(cell); got != want {
			violations = append(violations, fmt.Sprintf(
				"%s: %s should be %s, got %s", ref, class, colorName(want), got))
		}
	}
	return violations
}

func colorName(hex string) string {
	switch hex {
	case colorBlue:
		return "blue"
	case colorBlack:
		return "black"
	case colorGreen:
		return "green"
	}
	return hex
}
