package poem

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	fallbackID    = "err"
	fallbackTitle = "Load failed"
	maxRemoteSize = 32 << 20
)

// HTTPClient is used for remote sources.
var HTTPClient = &http.Client{Timeout: 30 * time.Second}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads a collection from a file path or an http(s) URL.
func Load(ctx context.Context, source string) (*Collection, error) {
	var (
		works []Work
		err   error
	)
	if IsRemote(source) {
		works, err = fetch(ctx, source)
	} else {
		works, err = DecodeFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source, err)
	}
	if len(works) == 0 {
		return nil, fmt.Errorf("load %s: %w", source, ErrEmpty)
	}
	return &Collection{Source: source, Works: normalize(works)}, nil
}

// LoadOrFallback loads source, or returns a one-work collection describing the
// failure so the reader always has something to show.
func LoadOrFallback(ctx context.Context, source string, logger *slog.Logger) *Collection {
	c, err := Load(ctx, source)
	if err == nil {
		logger.Info("collection loaded", "source", source, "works", c.Len())
		return c
	}
	logger.Error("collection load failed", "source", source, "error", err)
	return &Collection{Source: source, Works: []Work{Fallback(source, err)}}
}

// Fallback returns the synthetic work shown when a collection cannot be loaded.
func Fallback(source string, err error) Work {
	return Work{
		ID:    fallbackID,
		Title: fallbackTitle,
		Body:  fmt.Sprintf("Could not read %s.\n\n%v\n\nCheck the data file and try again.", source, err),
	}
}

// IsFallback reports whether w is the synthetic load-failure work.
func IsFallback(w Work) bool {
	return w.ID == fallbackID && w.Title == fallbackTitle
}

func fetch(ctx context.Context, source string) ([]Work, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, err
	}
	f, err := Lookup(path.Base(u.Path))
	if err != nil || path.Ext(u.Path) == "" {
		f = &JSONFormat{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		return nil, err
	}
	return f.Decode(data)
}
