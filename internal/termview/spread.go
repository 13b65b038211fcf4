package termview

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/metcalfc/mihiraki/internal/layout"
	"github.com/metcalfc/mihiraki/internal/session"
)

// gap is the number of cells between the two pages (the binding).
const gap = 3

var bindingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))

// Rendered is a drawn spread and how each page was fitted.
type Rendered struct {
	View  string
	Right layout.FitResult
	Left  *layout.FitResult // nil for a single-page work
}

// PageWidth returns the width of each page of a spread drawn in width cells.
func PageWidth(width int) int {
	return max((width-gap)/2, 1)
}

// RenderSpread draws s into a width x height area. The right page holds the
// title and the first half; the left page holds the continuation. Each page
// is fitted independently.
func RenderSpread(s session.Spread, width, height int, opts layout.FitOptions) Rendered {
	pw := PageWidth(width)

	right := NewPage(s.Title, s.Halves.Right, pw, height, opts.Floor)
	out := Rendered{Right: layout.FitWith(right, opts)}

	if s.Halves.Single() {
		out.View = lipgloss.PlaceHorizontal(width, lipgloss.Center, right.Render())
		return out
	}

	left := NewPage("", s.Halves.Left, pw, height, opts.Floor)
	lr := layout.FitWith(left, opts)
	out.Left = &lr

	binding := bindingStyle.Render(column("│", height))
	out.View = lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(),
		" ", binding, " ",
		right.Render(),
	)
	return out
}

func column(s string, height int) string {
	if height < 1 {
		return s
	}
	out := s
	for i := 1; i < height; i++ {
		out += "\n" + s
	}
	return out
}

// Truncate shortens s to at most width display cells.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
