package poem

import (
	"regexp"
	"strings"
)

// TextFormat reads plain text. Works are separated by a form feed or by a line
// holding only "***"; the first line of each work is its title.
type TextFormat struct{}

func init() {
	Register(&TextFormat{})
}

var separatorRegex = regexp.MustCompile(`(?m)^[ \t]*(?:\*[ \t]*\*[ \t]*\*|\f)[ \t]*$`)

func (f *TextFormat) Name() string         { return "Text" }
func (f *TextFormat) Extensions() []string { return []string{".txt"} }

func (f *TextFormat) Decode(data []byte) ([]Work, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\f", "\n\f\n")

	var works []Work
	for _, chunk := range separatorRegex.Split(text, -1) {
		chunk = strings.Trim(chunk, "\n")
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		title, body, _ := strings.Cut(chunk, "\n")
		works = append(works, Work{
			Title: strings.TrimSpace(title),
			Body:  strings.Trim(body, "\n"),
		})
	}
	return works, nil
}
