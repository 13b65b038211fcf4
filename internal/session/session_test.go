package session

import (
	"strings"
	"testing"

	"github.com/metcalfc/mihiraki/internal/poem"
)

func threeWorks() []poem.Work {
	return []poem.Work{
		{ID: "a", Title: "One", Body: "first\nsecond"},
		{ID: "b", Title: "", Body: "\n  opening line\nmore"},
		{ID: "c", Title: "Three", Body: strings.Repeat("line\n", 20) + "end"},
	}
}

func TestNavigation(t *testing.T) {
	s := New(threeWorks())

	if !s.AtStart() || s.AtEnd() {
		t.Fatal("new session should be at the start")
	}
	if s.Back() {
		t.Error("Back at the start should not move")
	}

	if !s.Forward() || s.Index != 1 {
		t.Errorf("Forward: Index = %d, want 1", s.Index)
	}
	if !s.Forward() || s.Index != 2 {
		t.Errorf("Forward: Index = %d, want 2", s.Index)
	}
	if s.Forward() {
		t.Error("Forward at the end should not move")
	}
	if !s.AtEnd() {
		t.Error("expected AtEnd")
	}

	if !s.Back() || s.Index != 1 {
		t.Errorf("Back: Index = %d, want 1", s.Index)
	}

	s.First()
	if s.Index != 0 {
		t.Errorf("First: Index = %d", s.Index)
	}
	s.Last()
	if s.Index != 2 {
		t.Errorf("Last: Index = %d", s.Index)
	}
}

func TestProgress(t *testing.T) {
	s := New(threeWorks())
	s.Forward()
	current, total := s.Progress()
	if current != 2 || total != 3 {
		t.Errorf("Progress() = %d/%d, want 2/3", current, total)
	}
}

func TestClamp(t *testing.T) {
	s := New(threeWorks())
	tests := []struct {
		in, want int
	}{
		{-5, 0},
		{0, 0},
		{2, 2},
		{3, 2},
		{99, 2},
	}
	for _, tt := range tests {
		if got := s.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}

	s.Index = 42
	if s.Current().ID != "c" {
		t.Errorf("out of range index should show the last work, got %q", s.Current().ID)
	}
	if !s.Back() || s.Index != 1 {
		t.Errorf("Back from an out of range index: Index = %d, want 1", s.Index)
	}
}

func TestEmptySession(t *testing.T) {
	s := New(nil)
	if s.Current().ID != "" {
		t.Error("empty session should return a zero work")
	}
	if s.Forward() || s.Back() {
		t.Error("empty session should not move")
	}
	if len(s.TOC()) != 0 {
		t.Error("empty session should have no contents")
	}
}

func TestGoToClosesTOC(t *testing.T) {
	s := New(threeWorks())
	s.ShowTOC()
	s.GoTo(7)
	if s.TOCVisible {
		t.Error("GoTo should close the contents")
	}
	if s.Index != 2 {
		t.Errorf("GoTo(7): Index = %d, want 2", s.Index)
	}

	if !s.ToggleTOC() || !s.TOCVisible {
		t.Error("ToggleTOC should open the contents")
	}
	if s.ToggleTOC() {
		t.Error("ToggleTOC should close the contents")
	}
	s.ShowTOC()
	s.HideTOC()
	if s.TOCVisible {
		t.Error("HideTOC should close the contents")
	}
}

func TestTOC(t *testing.T) {
	s := New(threeWorks())
	s.Untitled = "無題"

	entries := s.TOC()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	expected := []Entry{
		{Index: 0, Title: "One", Preview: "first"},
		{Index: 1, Title: "無題", Preview: "opening line"},
		{Index: 2, Title: "Three", Preview: "line"},
	}
	for i, e := range expected {
		if entries[i] != e {
			t.Errorf("Entry %d = %+v, want %+v", i, entries[i], e)
		}
	}
}

func TestRender(t *testing.T) {
	s := New(threeWorks())

	sp := s.Render()
	if sp.Title != "One" || sp.Index != 0 || sp.Total != 3 {
		t.Errorf("Unexpected spread: %+v", sp)
	}
	if !sp.Halves.Single() || sp.Halves.Right != "first\nsecond" {
		t.Errorf("short work should stay on one page: %+v", sp.Halves)
	}

	s.Last()
	sp = s.Render()
	if sp.Halves.Single() {
		t.Fatal("long work should be split")
	}
	if sp.Work.ID != "c" || sp.Index != 2 {
		t.Errorf("Render should follow the position: %+v", sp)
	}
	if !strings.HasSuffix(sp.Halves.Left, "end") {
		t.Errorf("continuation should end the work: %q", sp.Halves.Left)
	}

	s.Back()
	if s.Render().Title != poem.DefaultUntitled {
		t.Errorf("missing title should use the placeholder")
	}
}

func TestReplace(t *testing.T) {
	s := New(threeWorks())
	s.Forward()

	s.Replace([]poem.Work{
		{ID: "x", Title: "New"},
		{ID: "y", Title: "Newer"},
		{ID: "b", Title: "Moved"},
	})
	if s.Index != 2 || s.Current().ID != "b" {
		t.Errorf("Replace should follow the current work, Index = %d", s.Index)
	}

	s.Replace([]poem.Work{{ID: "x"}})
	if s.Index != 0 {
		t.Errorf("Replace without the current work should clamp, Index = %d", s.Index)
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		index int
		want  int
	}{
		{"by id", "c", 0, 2},
		{"id wins over index", "a", 2, 0},
		{"unknown id uses index", "zzz", 1, 1},
		{"empty id uses index", "", 1, 1},
		{"index clamped", "", 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(threeWorks())
			s.Restore(tt.id, tt.index)
			if s.Index != tt.want {
				t.Errorf("Restore(%q, %d): Index = %d, want %d", tt.id, tt.index, s.Index, tt.want)
			}
		})
	}
}
