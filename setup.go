package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/metcalfc/mihiraki/internal/config"
	"github.com/metcalfc/mihiraki/internal/poem"
	"github.com/metcalfc/mihiraki/internal/session"
	"github.com/metcalfc/mihiraki/internal/state"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	configPath string
	logFile    string
	showTOC    bool
	resume     bool
	fresh      bool
	watch      bool
}

// parseFlags reads the command line shared by both front ends. controls is
// the key summary printed at the end of the usage text.
func parseFlags(name, title, controls string) options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Settings file (default: $XDG_CONFIG_HOME/mihiraki/settings.yaml)")
	flag.BoolVar(&opts.showTOC, "toc", false, "Show table of contents at startup")
	flag.BoolVar(&opts.resume, "resume", false, "Reopen at the last work read")
	flag.BoolVar(&opts.fresh, "fresh", false, "Forget the saved position")
	flag.BoolVar(&opts.watch, "watch", false, "Reload when the data file changes")
	flag.StringVar(&opts.logFile, "log", "", "Write logs to this file")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", title)
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options] [source]\n\n", name)
		fmt.Fprintf(os.Stderr, "Source is a file or an http(s) URL. Formats: %s\n\n", strings.Join(poem.SupportedFormats(), ", "))
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s poems.json                 Read a collection\n", name)
		fmt.Fprintf(os.Stderr, "  %s --toc anthology.epub       Open at the contents\n", name)
		fmt.Fprintf(os.Stderr, "  %s --watch drafts.md          Reload on save\n", name)
		fmt.Fprintf(os.Stderr, "\nControls:\n%s", controls)
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("%s %s (commit: %s, built: %s)\n", name, version, commit, date)
		os.Exit(0)
	}
	return opts
}

// loadSettings merges the settings file with the command line.
func loadSettings(opts options) (config.Settings, error) {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return settings, err
	}
	if flag.NArg() > 0 {
		settings.Source = flag.Arg(0)
	}
	if opts.logFile != "" {
		settings.Log.File = opts.logFile
	}
	settings.Reader.ShowTOC = settings.Reader.ShowTOC || opts.showTOC
	settings.Reader.Resume = settings.Reader.Resume || opts.resume
	settings.Reader.Watch = settings.Reader.Watch || opts.watch
	return settings, nil
}

// library is a loaded collection with its session and saved position.
type library struct {
	source  string
	session *session.Session
	store   *state.Store
	key     string
	logger  *slog.Logger
}

// openLibrary loads the configured source and positions a session on it.
func openLibrary(ctx context.Context, settings config.Settings, fresh bool, logger *slog.Logger) *library {
	source := config.Expand(settings.Source)
	collection := poem.LoadOrFallback(ctx, source, logger)

	s := session.New(collection.Works)
	s.Untitled = settings.Reader.Untitled
	s.Split = settings.Split
	s.TOCVisible = settings.Reader.ShowTOC

	lib := &library{source: source, session: s, logger: logger}
	if !settings.Reader.Resume || poem.IsFallback(s.Current()) {
		return lib
	}

	store, err := state.NewStore()
	if err != nil {
		logger.Warn("resume disabled", "error", err)
		return lib
	}
	key, err := state.Key(source, poem.IsRemote(source))
	if err != nil {
		logger.Warn("resume disabled", "source", source, "error", err)
		return lib
	}
	lib.store, lib.key = store, key

	if fresh {
		if err := store.Clear(key); err != nil {
			logger.Warn("saved position not cleared", "error", err)
		}
	} else if pos, ok := store.Get(key); ok {
		s.Restore(pos.WorkID, pos.Index)
		logger.Debug("position restored", "index", s.Index, "work", pos.WorkID)
	}
	return lib
}

// watch starts reporting changes to a local source, or returns nil.
func (l *library) watch(ctx context.Context, enabled bool) <-chan struct{} {
	if !enabled || poem.IsRemote(l.source) {
		return nil
	}
	changes, err := poem.Watch(ctx, l.source, l.logger)
	if err != nil {
		l.logger.Warn("watch disabled", "source", l.source, "error", err)
		return nil
	}
	return changes
}

// save records the current work when resume is enabled.
func (l *library) save(s *session.Session) {
	if l.store == nil {
		return
	}
	pos := state.Position{Index: s.Clamp(s.Index), WorkID: s.Current().ID}
	if err := l.store.Set(l.key, pos); err != nil {
		l.logger.Warn("position not saved", "error", err)
	}
}
