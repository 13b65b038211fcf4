// Package session holds the state of one reading session: the loaded works,
// the current position, and whether the table of contents is open.
package session

import (
	"github.com/metcalfc/mihiraki/internal/layout"
	"github.com/metcalfc/mihiraki/internal/poem"
)

// Session is owned by a single UI loop and is not safe for concurrent use.
type Session struct {
	Works      []poem.Work
	Index      int
	TOCVisible bool
	Untitled   string
	Split      layout.SplitOptions
}

// Spread is everything needed to draw the current work.
type Spread struct {
	Work   poem.Work
	Title  string
	Halves layout.Halves
	Index  int
	Total  int
}

// Entry is one line of the table of contents.
type Entry struct {
	Index   int
	Title   string
	Preview string
}

// New creates a session positioned at the first work.
func New(works []poem.Work) *Session {
	return &Session{
		Works:    works,
		Untitled: poem.DefaultUntitled,
		Split:    layout.DefaultSplitOptions(),
	}
}

// Clamp limits i to the valid work indices.
func (s *Session) Clamp(i int) int {
	if i >= len(s.Works) {
		i = len(s.Works) - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Current returns the work at the current position.
func (s *Session) Current() poem.Work {
	if len(s.Works) == 0 {
		return poem.Work{}
	}
	return s.Works[s.Clamp(s.Index)]
}

// Progress returns the 1-based position and the number of works.
func (s *Session) Progress() (current, total int) {
	return s.Clamp(s.Index) + 1, len(s.Works)
}

// AtStart reports whether the first work is shown.
func (s *Session) AtStart() bool {
	return s.Clamp(s.Index) == 0
}

// AtEnd reports whether the last work is shown.
func (s *Session) AtEnd() bool {
	return s.Clamp(s.Index) >= len(s.Works)-1
}

// Forward moves to the next work. It reports whether the position changed.
func (s *Session) Forward() bool {
	if s.AtEnd() {
		return false
	}
	s.Index = s.Clamp(s.Index) + 1
	return true
}

// Back moves to the previous work. It reports whether the position changed.
func (s *Session) Back() bool {
	if s.AtStart() {
		return false
	}
	s.Index = s.Clamp(s.Index) - 1
	return true
}

// GoTo jumps to work i, clamped, and closes the table of contents.
func (s *Session) GoTo(i int) {
	s.Index = s.Clamp(i)
	s.TOCVisible = false
}

// First jumps to the first work.
func (s *Session) First() { s.GoTo(0) }

// Last jumps to the last work.
func (s *Session) Last() { s.GoTo(len(s.Works) - 1) }

// ShowTOC opens the table of contents.
func (s *Session) ShowTOC() { s.TOCVisible = true }

// HideTOC closes the table of contents.
func (s *Session) HideTOC() { s.TOCVisible = false }

// ToggleTOC flips the table of contents and returns the new state.
func (s *Session) ToggleTOC() bool {
	s.TOCVisible = !s.TOCVisible
	return s.TOCVisible
}

// TOC lists every work with its display title and first line.
func (s *Session) TOC() []Entry {
	entries := make([]Entry, len(s.Works))
	for i, w := range s.Works {
		entries[i] = Entry{
			Index:   i,
			Title:   w.DisplayTitle(s.Untitled),
			Preview: w.FirstLine(),
		}
	}
	return entries
}

// Render splits the current work for display. Nothing is cached; every call
// reflects the current position.
func (s *Session) Render() Spread {
	w := s.Current()
	current, total := s.Progress()
	return Spread{
		Work:   w,
		Title:  w.DisplayTitle(s.Untitled),
		Halves: layout.SplitWith(w.Body, s.Split),
		Index:  current - 1,
		Total:  total,
	}
}

// Replace swaps in a reloaded collection. The current work is kept by ID when
// it still exists, otherwise the old position is clamped.
func (s *Session) Replace(works []poem.Work) {
	id := s.Current().ID
	s.Works = works
	for i, w := range works {
		if w.ID == id {
			s.Index = i
			return
		}
	}
	s.Index = s.Clamp(s.Index)
}

// Restore positions the session at the work with id, or at index when id is
// unknown.
func (s *Session) Restore(id string, index int) {
	for i, w := range s.Works {
		if id != "" && w.ID == id {
			s.Index = i
			return
		}
	}
	s.Index = s.Clamp(index)
}
