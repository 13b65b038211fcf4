// Package poem loads collections of short works from data files and URLs.
package poem

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// DefaultUntitled is shown in place of a missing title.
const DefaultUntitled = "Untitled"

// workNamespace scopes name-based IDs generated for works without one.
var workNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/metcalfc/mihiraki/work"))

// Work is one titled text. Body lines are separated by newlines.
type Work struct {
	ID       string   `json:"id" yaml:"id" toml:"id"`
	Title    string   `json:"title" yaml:"title" toml:"title"`
	Body     string   `json:"body" yaml:"body" toml:"body"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty" toml:"keywords,omitempty"`
}

// DisplayTitle returns the title, or placeholder when the title is blank.
func (w Work) DisplayTitle(placeholder string) string {
	if strings.TrimSpace(w.Title) == "" {
		return placeholder
	}
	return w.Title
}

// FirstLine returns the first non-blank line of the body.
func (w Work) FirstLine() string {
	for _, line := range strings.Split(w.Body, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

// Collection is an ordered set of works and where it came from.
type Collection struct {
	Source string
	Works  []Work
}

// Len returns the number of works.
func (c *Collection) Len() int {
	return len(c.Works)
}

// IndexOf returns the position of the work with id, or -1.
func (c *Collection) IndexOf(id string) int {
	for i, w := range c.Works {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// normalize composes text to NFC and fills in missing IDs.
func normalize(works []Work) []Work {
	out := make([]Work, len(works))
	for i, w := range works {
		w.Title = norm.NFC.String(strings.TrimSpace(w.Title))
		w.Body = norm.NFC.String(w.Body)
		if strings.TrimSpace(w.ID) == "" {
			w.ID = uuid.NewSHA1(workNamespace, []byte(w.Title+"\x00"+w.Body)).String()
		}
		out[i] = w
	}
	return out
}
