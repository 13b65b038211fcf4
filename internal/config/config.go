// Package config loads reader settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/metcalfc/mihiraki/internal/layout"
	"github.com/metcalfc/mihiraki/internal/logging"
	"github.com/metcalfc/mihiraki/internal/poem"
)

const (
	appName         = "mihiraki"
	settingsFile    = "settings.yaml"
	defaultSource   = "poems.json"
	defaultLogLevel = "info"
)

// Settings is the full configuration file.
type Settings struct {
	Source string              `yaml:"source"`
	Reader ReaderConfig        `yaml:"reader"`
	Split  layout.SplitOptions `yaml:"split"`
	Fit    layout.FitOptions   `yaml:"fit"`
	Input  InputConfig         `yaml:"input"`
	Log    LogConfig           `yaml:"log"`
}

type ReaderConfig struct {
	Untitled string `yaml:"untitled"`
	ShowTOC  bool   `yaml:"show_toc"`
	Resume   bool   `yaml:"resume"`
	Watch    bool   `yaml:"watch"`
}

type InputConfig struct {
	SwipeCells  float64 `yaml:"swipe_cells"`  // terminal drag distance, in cells
	SwipePixels float64 `yaml:"swipe_pixels"` // window drag distance, in pixels
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		Source: defaultSource,
		Reader: ReaderConfig{
			Untitled: poem.DefaultUntitled,
		},
		Split: layout.DefaultSplitOptions(),
		Fit:   layout.DefaultFitOptions(),
		Input: InputConfig{
			SwipeCells:  4,
			SwipePixels: 40,
		},
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: "text",
		},
	}
}

// Load reads settings from configPath, or from the resolved default location
// when configPath is empty. A missing default file is not an error.
func Load(configPath string) (Settings, error) {
	settings := Default()

	resolved := ResolvePath(configPath)
	if resolved != "" {
		data, err := os.ReadFile(resolved)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &settings); err != nil {
				return settings, fmt.Errorf("parse %s: %w", resolved, err)
			}
		case errors.Is(err, os.ErrNotExist) && configPath == "" && os.Getenv("MIHIRAKI_CONFIG") == "":
			// No settings file; keep the defaults.
		default:
			return settings, err
		}
	}

	applyEnv(&settings)
	if strings.TrimSpace(settings.Reader.Untitled) == "" {
		settings.Reader.Untitled = poem.DefaultUntitled
	}
	return settings, settings.Validate()
}

// ResolvePath picks the settings file: the explicit path, then
// MIHIRAKI_CONFIG, then XDG_CONFIG_HOME/mihiraki/settings.yaml.
func ResolvePath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("MIHIRAKI_CONFIG"); envPath != "" {
		return envPath
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, settingsFile)
}

func applyEnv(s *Settings) {
	if v := os.Getenv("MIHIRAKI_SOURCE"); v != "" {
		s.Source = v
	}
	if v := os.Getenv("MIHIRAKI_LOG_LEVEL"); v != "" {
		s.Log.Level = v
	}
	if v := os.Getenv("MIHIRAKI_LOG_FILE"); v != "" {
		s.Log.File = v
	}
}

// Validate checks settings that would otherwise fail later and less clearly.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Source) == "" {
		return errors.New("source must not be empty")
	}
	if s.Split.ShortWorkLines < 0 {
		return fmt.Errorf("split short_work_lines must not be negative, got %d", s.Split.ShortWorkLines)
	}
	if s.Split.SearchRadius < 0 {
		return fmt.Errorf("split search_radius must not be negative, got %d", s.Split.SearchRadius)
	}
	if err := s.Fit.Validate(); err != nil {
		return err
	}
	if s.Input.SwipeCells < 0 || s.Input.SwipePixels < 0 {
		return errors.New("swipe thresholds must not be negative")
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(s.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", s.Log.Format)
	}
	return nil
}

// Expand resolves a leading ~ in path.
func Expand(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
