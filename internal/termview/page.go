// Package termview draws spreads for a character-cell terminal.
package termview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E8D8B0"))

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))
)

// Page is one side of a spread. A terminal cannot change its font, so the
// text size is expressed as a horizontal gutter: each size unit above the
// floor adds half a cell of margin on both sides, and shrinking the size
// widens the text column until the page stops overflowing.
type Page struct {
	Title  string
	Text   string
	Width  int
	Height int

	floor float64
	size  float64
}

// NewPage returns a page of width x height cells. floor is the size at which
// the gutter disappears.
func NewPage(title, text string, width, height int, floor float64) *Page {
	return &Page{
		Title:  title,
		Text:   text,
		Width:  max(width, 1),
		Height: max(height, 0),
		floor:  floor,
		size:   floor,
	}
}

func (p *Page) SetSize(size float64) { p.size = size }

func (p *Page) ContentHeight() float64 {
	return float64(lipgloss.Height(p.content(false)))
}

func (p *Page) ContainerHeight() float64 { return float64(p.Height) }

// Gutter returns the margin, in cells, on each side of the text column.
func (p *Page) Gutter() int {
	g := int((p.size - p.floor) / 2)
	if g < 0 {
		g = 0
	}
	if limit := (p.Width - 1) / 4; g > limit {
		g = limit
	}
	return g
}

// TextWidth returns the width of the text column at the current size.
func (p *Page) TextWidth() int {
	return max(p.Width-2*p.Gutter(), 1)
}

func (p *Page) content(styled bool) string {
	w := p.TextWidth()
	body := ansi.Wrap(expandTabs(p.Text), w, "")
	if styled {
		body = textStyle.Render(body)
	}
	if p.Title == "" {
		return body
	}
	title := ansi.Wrap(p.Title, w, "")
	if styled {
		title = titleStyle.Render(title)
	}
	return title + "\n\n" + body
}

// Render draws the page at its current size, clipped to its height.
func (p *Page) Render() string {
	g := p.Gutter()
	return lipgloss.NewStyle().
		Width(p.Width).
		Height(p.Height).
		MaxHeight(p.Height).
		Padding(0, g).
		Render(p.content(true))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
