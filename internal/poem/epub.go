package poem

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EPUBFormat reads an EPUB where each spine document is one work. Titles come
// from the NCX table of contents.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Decode(data []byte) ([]Work, error) {
	ra := bytes.NewReader(data)
	r, err := epub.NewReader(ra, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	zr, err := zip.NewReader(ra, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	return decodeEPUB(r, zr)
}

func (f *EPUBFormat) DecodeFile(filename string) ([]Work, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return decodeEPUB(&rc.Reader, &zr.Reader)
}

func decodeEPUB(r *epub.Reader, zr *zip.Reader) ([]Work, error) {
	if len(r.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}
	book := r.Rootfiles[0]
	titles := buildTOCHrefMap(zr, book)

	var works []Work
	for i, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		rc, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		lines := extractLinesFromHTML(string(data))
		if len(lines) == 0 {
			continue
		}

		title := fmt.Sprintf("Section %d", i+1)
		if t, ok := titles[ref.Item.HREF]; ok {
			title = t
		} else if t, ok := titles[path.Base(ref.Item.HREF)]; ok {
			title = t
		}
		if lines[0] == title {
			lines = lines[1:]
		}

		works = append(works, Work{
			ID:    ref.Item.ID,
			Title: title,
			Body:  trimBlankLines(strings.Join(lines, "\n")),
		})
	}
	return works, nil
}

var htmlSpace = regexp.MustCompile(`[ \t\n\f\r]+`)

// extractLinesFromHTML renders an XHTML document to lines. Block elements and
// <br> end lines; an empty paragraph or a doubled <br> becomes a blank line.
func extractLinesFromHTML(s string) []string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil
	}

	var lines []string
	var cur strings.Builder
	flush := func() {
		line := strings.Trim(cur.String(), " ")
		if strings.TrimSpace(line) == "" {
			line = ""
		}
		lines = append(lines, line)
		cur.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(htmlSpace.ReplaceAllString(n.Data, " "))
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Head, atom.Script, atom.Style, atom.Title:
				return
			case atom.Br:
				flush()
				return
			}
		}

		block := n.Type == html.ElementNode && isBlock(n.DataAtom)
		if block && strings.TrimSpace(cur.String()) != "" {
			flush()
		}
		before := len(lines)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if !block {
			return
		}
		if strings.TrimSpace(cur.String()) != "" {
			flush()
		} else if len(lines) == before && (n.DataAtom == atom.P || n.DataAtom == atom.Div) {
			cur.Reset()
			flush()
		}
	}
	walk(doc)
	if strings.TrimSpace(cur.String()) != "" {
		flush()
	}

	return collapseBlankLines(lines)
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Blockquote,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Ul, atom.Ol, atom.Tr, atom.Pre, atom.Body:
		return true
	}
	return false
}

// collapseBlankLines keeps at most one blank line in a row and none at the
// edges.
func collapseBlankLines(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, l)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
