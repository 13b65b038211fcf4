package poem

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownFormat reads Markdown where every ATX heading ("# Title") starts a
// work. Bodies are the raw source lines up to the next heading, so line breaks
// survive exactly as written.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

// heading is an ATX heading located in the source.
type heading struct {
	title     string
	lineStart int
	lineEnd   int
}

func (f *MarkdownFormat) Decode(data []byte) ([]Work, error) {
	src := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	headings := findHeadings(src)

	var works []Work
	if len(headings) == 0 {
		if body := trimBlankLines(string(src)); body != "" {
			works = append(works, Work{Body: body})
		}
		return works, nil
	}

	if preamble := trimBlankLines(string(src[:headings[0].lineStart])); preamble != "" {
		works = append(works, Work{Body: preamble})
	}

	for i, h := range headings {
		end := len(src)
		if i+1 < len(headings) {
			end = headings[i+1].lineStart
		}
		works = append(works, Work{
			Title: h.title,
			Body:  trimBlankLines(string(src[h.lineEnd:end])),
		})
	}
	return works, nil
}

// findHeadings returns the document-level ATX headings. Setext headings are
// left as body text because an underline of dashes is common in verse.
func findHeadings(src []byte) []heading {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var out []heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		seg := h.Lines().At(0)
		start := bytes.LastIndexByte(src[:seg.Start], '\n') + 1
		if !bytes.HasPrefix(bytes.TrimLeft(src[start:seg.Start], " "), []byte("#")) {
			continue
		}
		end := len(src)
		if i := bytes.IndexByte(src[seg.Stop:], '\n'); i >= 0 {
			end = seg.Stop + i + 1
		}
		out = append(out, heading{
			title:     strings.TrimSpace(string(seg.Value(src))),
			lineStart: start,
			lineEnd:   end,
		})
	}
	return out
}

// trimBlankLines removes leading and trailing whitespace-only lines, keeping
// indentation on the first and last lines of text.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	first, last := 0, len(lines)-1
	for first <= last && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	for last >= first && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if first > last {
		return ""
	}
	return strings.Join(lines[first:last+1], "\n")
}
