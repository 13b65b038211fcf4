package poem

import (
	"errors"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		format string
	}{
		{"poems.json", "JSON"},
		{"poems.YAML", "YAML"},
		{"poems.yml", "YAML"},
		{"poems.toml", "TOML"},
		{"poems.md", "Markdown"},
		{"poems.markdown", "Markdown"},
		{"poems.epub", "EPUB"},
		{"poems.txt", "Text"},
		{"POEMS", "Text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", tt.name, err)
			}
			if f.Name() != tt.format {
				t.Errorf("Lookup(%q) = %s, want %s", tt.name, f.Name(), tt.format)
			}
		})
	}

	if _, err := Lookup("poems.docx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Lookup(.docx) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	if len(formats) < 6 {
		t.Fatalf("Expected at least 6 formats, got %d", len(formats))
	}

	joined := strings.Join(formats, "; ")
	for _, want := range []string{"JSON (.json)", "YAML (.yaml, .yml)", "TOML (.toml)", "Text (.txt)", "Markdown", "EPUB (.epub)"} {
		if !strings.Contains(joined, want) {
			t.Errorf("SupportedFormats() missing %q in %q", want, joined)
		}
	}
}

func TestJSONDecode(t *testing.T) {
	data := `[
		{"id": "w1", "title": "春", "body": "line one\nline two", "keywords": ["spring"]},
		{"title": "", "body": "no title"}
	]`

	works, err := (&JSONFormat{}).Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(works) != 2 {
		t.Fatalf("Expected 2 works, got %d", len(works))
	}
	if works[0].ID != "w1" || works[0].Title != "春" || works[0].Body != "line one\nline two" {
		t.Errorf("Unexpected first work: %+v", works[0])
	}
	if len(works[0].Keywords) != 1 || works[0].Keywords[0] != "spring" {
		t.Errorf("Keywords = %v, want [spring]", works[0].Keywords)
	}
	if works[1].Title != "" {
		t.Errorf("Expected empty title, got %q", works[1].Title)
	}

	if _, err := (&JSONFormat{}).Decode([]byte(`{"title": "not an array"}`)); err == nil {
		t.Error("Expected error for a JSON object")
	}
}

func TestYAMLDecode(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{
			name: "sequence",
			data: "- title: One\n  body: |\n    a\n    b\n- title: Two\n  body: c\n",
			want: []string{"One", "Two"},
		},
		{
			name: "mapping",
			data: "poems:\n  - title: Only\n    body: x\n",
			want: []string{"Only"},
		},
		{
			name: "empty document",
			data: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			works, err := (&YAMLFormat{}).Decode([]byte(tt.data))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(works) != len(tt.want) {
				t.Fatalf("Expected %d works, got %d", len(tt.want), len(works))
			}
			for i, title := range tt.want {
				if works[i].Title != title {
					t.Errorf("Work %d title = %q, want %q", i, works[i].Title, title)
				}
			}
		})
	}

	works, _ := (&YAMLFormat{}).Decode([]byte("- title: One\n  body: |\n    a\n    b\n"))
	if works[0].Body != "a\nb\n" {
		t.Errorf("Literal block body = %q", works[0].Body)
	}

	if _, err := (&YAMLFormat{}).Decode([]byte("just a string")); err == nil {
		t.Error("Expected error for a scalar root")
	}
}

func TestTOMLDecode(t *testing.T) {
	data := `
[[poem]]
id = "a"
title = "First"
body = """
one
two"""

[[poem]]
title = "Second"
body = "three"
`
	works, err := (&TOMLFormat{}).Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(works) != 2 {
		t.Fatalf("Expected 2 works, got %d", len(works))
	}
	if works[0].ID != "a" || works[0].Body != "one\ntwo" {
		t.Errorf("Unexpected first work: %+v", works[0])
	}
	if works[1].Title != "Second" {
		t.Errorf("Second title = %q", works[1].Title)
	}
}

func TestTextDecode(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		titles []string
		bodies []string
	}{
		{
			name:   "star separator",
			data:   "Spring\nline a\nline b\n***\nAutumn\nleaves\n",
			titles: []string{"Spring", "Autumn"},
			bodies: []string{"line a\nline b", "leaves"},
		},
		{
			name:   "spaced stars and CRLF",
			data:   "One\r\nx\r\n * * * \r\nTwo\r\ny",
			titles: []string{"One", "Two"},
			bodies: []string{"x", "y"},
		},
		{
			name:   "form feed",
			data:   "One\nx\fTwo\ny",
			titles: []string{"One", "Two"},
			bodies: []string{"x", "y"},
		},
		{
			name:   "blank lines kept inside a work",
			data:   "Title\n\nstanza one\n\nstanza two\n",
			titles: []string{"Title"},
			bodies: []string{"stanza one\n\nstanza two"},
		},
		{
			name:   "empty chunks skipped",
			data:   "***\n\n***\nOnly\nbody\n***\n",
			titles: []string{"Only"},
			bodies: []string{"body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			works, err := (&TextFormat{}).Decode([]byte(tt.data))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(works) != len(tt.titles) {
				t.Fatalf("Expected %d works, got %d: %+v", len(tt.titles), len(works), works)
			}
			for i := range works {
				if works[i].Title != tt.titles[i] {
					t.Errorf("Work %d title = %q, want %q", i, works[i].Title, tt.titles[i])
				}
				if works[i].Body != tt.bodies[i] {
					t.Errorf("Work %d body = %q, want %q", i, works[i].Body, tt.bodies[i])
				}
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	works := normalize([]Work{
		{Title: "  Cafe\u0301  ", Body: "e\u0301"},
		{ID: "keep", Title: "x", Body: "y"},
		{Title: "Caf\u00e9", Body: "\u00e9"},
	})

	if works[0].Title != "Caf\u00e9" {
		t.Errorf("Title = %q, want composed and trimmed", works[0].Title)
	}
	if works[0].Body != "\u00e9" {
		t.Errorf("Body = %q, want composed", works[0].Body)
	}
	if works[0].ID == "" {
		t.Error("Expected a generated ID")
	}
	if works[0].ID != works[2].ID {
		t.Error("Generated IDs should match for text that only differs in composition")
	}
	if works[1].ID != "keep" {
		t.Errorf("Existing ID replaced: %q", works[1].ID)
	}
}

func TestWorkHelpers(t *testing.T) {
	w := Work{Title: "  ", Body: "\n  \n  first words  \nsecond"}
	if got := w.DisplayTitle("Untitled"); got != "Untitled" {
		t.Errorf("DisplayTitle = %q, want Untitled", got)
	}
	if got := w.FirstLine(); got != "first words" {
		t.Errorf("FirstLine = %q", got)
	}

	c := &Collection{Works: []Work{{ID: "a"}, {ID: "b"}}}
	if c.Len() != 2 || c.IndexOf("b") != 1 || c.IndexOf("z") != -1 {
		t.Error("Collection helpers returned unexpected values")
	}
}
