package poem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrEmpty is returned when a source decodes to no works.
	ErrEmpty = errors.New("no works found")
	// ErrUnsupportedFormat is returned for an extension no format handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Format decodes a collection from raw file contents.
type Format interface {
	Name() string
	Extensions() []string
	Decode(data []byte) ([]Work, error)
}

// FileDecoder is an optional interface for formats that need random access to
// the file itself, such as zip containers.
type FileDecoder interface {
	DecodeFile(filename string) ([]Work, error)
}

var registry []Format

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Lookup returns the format registered for the extension of name.
func Lookup(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f, nil
			}
		}
	}
	if ext == "" {
		return &TextFormat{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// DecodeFile reads filename with the format matching its extension.
func DecodeFile(filename string) ([]Work, error) {
	f, err := Lookup(filename)
	if err != nil {
		return nil, err
	}
	if fd, ok := f.(FileDecoder); ok {
		return fd.DecodeFile(filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return f.Decode(data)
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
