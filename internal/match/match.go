// Package match holds the deterministic criterion matchers. Every function
// here is pure and total: a non-match is a valid result, never an error.
// Rubric configuration problems (bad regexes, missing fields) are caught at
// load time and cannot reach these functions.
package match

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// normalize prepares a string for substring comparison: case-folded with
// currency and thousands punctuation stripped, so "16,477", "$16,477" and
// "16477" compare equal. The matcher does not attempt numeric equivalence
// beyond this; rubric authors supply the variants they accept.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.ToUpper(s)
}

// SubstringOneOf passes when the value contains at least one accepted
// substring and none of the forbidden ones, after normalization.
func SubstringOneOf(value string, accepted, forbidden []string) (bool, string) {
	norm := normalize(value)
	for _, f := range forbidden {
		if f != "" && strings.Contains(norm, normalize(f)) {
			return false, fmt.Sprintf("contains forbidden value %q", f)
		}
	}
	for _, a := range accepted {
		if strings.Contains(norm, normalize(a)) {
			return true, fmt.Sprintf("found %q in response", a)
		}
	}
	return false, fmt.Sprintf("none of %v found in %q", accepted, clip(value, 80))
}

// RegexPattern checks forbidden elements first, then required elements, then
// the patterns (any one matching passes). With no patterns configured, all
// required elements being present passes.
func RegexPattern(value string, patterns, required, forbidden []string) (bool, string) {
	for _, f := range forbidden {
		if f != "" && strings.Contains(value, f) {
			return false, fmt.Sprintf("contains forbidden element %q", f)
		}
	}

	var missing []string
	for _, req := range required {
		if !strings.Contains(value, req) {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return false, fmt.Sprintf("missing required elements %v", missing)
	}

	if len(patterns) == 0 {
		return true, "all required elements present"
	}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			// Validated at rubric load; unreachable in practice.
			continue
		}
		if re.MatchString(value) {
			return true, fmt.Sprintf("matched pattern %q", p)
		}
	}
	return false, fmt.Sprintf("no patterns matched in %q", clip(value, 80))
}

// CellValue passes when the actual cell value is within tolerance of the
// expected value. Tolerance zero means exact match.
func CellValue(actual, expected, tolerance float64) (bool, string) {
	if diff := math.Abs(actual - expected); diff > tolerance {
		return false, fmt.Sprintf("cell value %g differs from expected %g by %g (tolerance %g)",
			actual, expected, diff, tolerance)
	}
	return true, fmt.Sprintf("cell value %g within tolerance of %g", actual, expected)
}

// Formatting passes when the conventions check found no violations.
func Formatting(violations []string) (bool, string) {
	if len(violations) > 0 {
		return false, strings.Join(violations, "; ")
	}
	return true, "all checked cells follow color conventions"
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
