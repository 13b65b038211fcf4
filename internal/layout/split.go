// Package layout divides a work's text across the two pages of a spread and sizes
// each page's text so it fits without vertical overflow.
package layout

import (
	"strings"
	"unicode"
)

// SplitOptions controls where a body is cut.
type SplitOptions struct {
	ShortWorkLines int `yaml:"short_work_lines"` // bodies with this many lines or fewer are never split
	SearchRadius   int `yaml:"search_radius"`    // steps searched on each side of the midpoint
}

// DefaultSplitOptions returns the options used by Split.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{
		ShortWorkLines: 12,
		SearchRadius:   6,
	}
}

// Halves is one body divided for a spread. Right is read first.
type Halves struct {
	Right string
	Left  string
	Cut   int // line index of the first Left line, 0 when not split
}

// Single reports whether the work fits on one page.
func (h Halves) Single() bool {
	return h.Left == ""
}

// terminals are the marks that may end the line before a cut.
const terminals = "。．！？!.?、，,：:；;"

// Split divides body using DefaultSplitOptions.
func Split(body string) Halves {
	return SplitWith(body, DefaultSplitOptions())
}

// SplitWith divides body into a first-read half and a continuation half,
// preferring a cut on a blank line or after clause-ending punctuation near the
// middle of the text.
func SplitWith(body string, opts SplitOptions) Halves {
	lines := Lines(body)
	if len(lines) <= opts.ShortWorkLines {
		return Halves{Right: body}
	}

	cut := CutPoint(lines, opts.SearchRadius)
	return Halves{
		Right: strings.TrimRightFunc(strings.Join(lines[:cut], "\n"), unicode.IsSpace),
		Left:  strings.TrimLeftFunc(strings.Join(lines[cut:], "\n"), unicode.IsSpace),
		Cut:   cut,
	}
}

// Lines normalizes CRLF and CR line endings and splits text into lines.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// CutPoint returns the line index at which lines should be divided. It searches
// outward from ceil(len/2), the earlier candidate first at each distance, and
// falls back to the midpoint.
func CutPoint(lines []string, radius int) int {
	n := len(lines)
	mid := (n + 1) / 2
	steps := min(radius, n)
	for d := 0; d < steps; d++ {
		if qualifies(lines, mid-d) {
			return mid - d
		}
		if qualifies(lines, mid+d) {
			return mid + d
		}
	}
	return mid
}

// qualifies treats the blank-line and punctuation rules as independently
// sufficient, each with its own position guard.
func qualifies(lines []string, i int) bool {
	if i < 0 || i >= len(lines) {
		return false
	}
	if i > 0 && isBlank(lines[i]) {
		return true
	}
	return i > 0 && i < len(lines)-1 && endsClause(lines[i-1])
}

// isBlank reports whether line holds only whitespace. unicode.IsSpace covers
// U+3000 IDEOGRAPHIC SPACE.
func isBlank(line string) bool {
	return strings.TrimFunc(line, unicode.IsSpace) == ""
}

func endsClause(line string) bool {
	line = strings.TrimFunc(line, unicode.IsSpace)
	if line == "" {
		return false
	}
	for _, r := range terminals {
		if strings.HasSuffix(line, string(r)) {
			return true
		}
	}
	return false
}
