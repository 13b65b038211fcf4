//go:build !gui

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metcalfc/mihiraki/internal/config"
	"github.com/metcalfc/mihiraki/internal/logging"
	"github.com/metcalfc/mihiraki/internal/poem"
	"github.com/metcalfc/mihiraki/internal/session"
	"github.com/metcalfc/mihiraki/internal/termview"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	tocTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E8D8B0")).
			Bold(true)
)

type keyMap struct {
	Forward key.Binding
	Back    key.Binding
	First   key.Binding
	Last    key.Binding
	TOC     key.Binding
	Copy    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Forward, k.Back, k.TOC, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Forward, k.Back, k.First, k.Last},
		{k.TOC, k.Copy, k.Help, k.Quit},
	}
}

// Pages turn right to left, so the left arrow reads on.
var keys = keyMap{
	Forward: key.NewBinding(key.WithKeys("left", "h", " ", "pgdown"), key.WithHelp("←/space", "next")),
	Back:    key.NewBinding(key.WithKeys("right", "l", "backspace", "pgup"), key.WithHelp("→", "previous")),
	First:   key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first")),
	Last:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last")),
	TOC:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "contents")),
	Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	tocJump  = key.NewBinding(key.WithKeys("enter"))
	tocClose = key.NewBinding(key.WithKeys("esc", "t"))
)

// tocItem adapts a contents entry to the list widget.
type tocItem struct {
	entry session.Entry
}

func (i tocItem) Title() string       { return fmt.Sprintf("%d. %s", i.entry.Index+1, i.entry.Title) }
func (i tocItem) Description() string { return termview.Truncate(i.entry.Preview, 60) }
func (i tocItem) FilterValue() string { return i.entry.Title + " " + i.entry.Preview }

type (
	fileChangedMsg struct{}
	clearNoticeMsg struct{}
	reloadMsg      struct {
		collection *poem.Collection
		err        error
	}
)

type model struct {
	*session.Session
	settings config.Settings
	logger   *slog.Logger
	source   string

	toc   list.Model
	help  help.Model
	pager paginator.Model

	press   *tea.MouseMsg
	notice  string
	changes <-chan struct{}

	quitting bool
	width    int
	height   int
}

func newModel(s *session.Session, settings config.Settings, source string, logger *slog.Logger) model {
	toc := list.New(nil, list.NewDefaultDelegate(), 80, 22)
	toc.Title = "Contents"
	toc.Styles.Title = tocTitleStyle
	toc.SetShowHelp(false)
	toc.DisableQuitKeybindings()

	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.ArabicFormat = "%d / %d"

	m := model{
		Session:  s,
		settings: settings,
		logger:   logger,
		source:   source,
		toc:      toc,
		help:     help.New(),
		pager:    pager,
		width:    80,
		height:   24,
	}
	m.syncTOC()
	return m
}

// syncTOC rebuilds the contents list and page count from the session.
func (m *model) syncTOC() {
	entries := m.TOC()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = tocItem{entry: e}
	}
	m.toc.SetItems(items)
	m.toc.Select(m.Clamp(m.Index))
	m.pager.SetTotalPages(len(entries))
}

func (m model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.toc.SetSize(msg.Width, max(msg.Height-2, 1))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.TOCVisible {
			return m.updateTOC(msg)
		}
		return m.updateReading(msg)

	case tea.MouseMsg:
		if m.TOCVisible {
			return m, nil
		}
		return m.updateMouse(msg), nil

	case fileChangedMsg:
		return m, tea.Batch(reload(m.source), waitForChange(m.changes))

	case reloadMsg:
		if msg.err != nil {
			m.logger.Warn("reload failed", "source", m.source, "error", msg.err)
			m.notice = "Reload failed"
			return m, clearNotice()
		}
		m.Replace(msg.collection.Works)
		m.syncTOC()
		m.logger.Info("collection reloaded", "source", m.source, "works", msg.collection.Len())
		m.notice = "Reloaded"
		return m, clearNotice()

	case clearNoticeMsg:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

func (m model) updateReading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Forward):
		if m.Forward() {
			m.logger.Debug("page", "index", m.Index, "via", "key")
		}

	case key.Matches(msg, keys.Back):
		if m.Back() {
			m.logger.Debug("page", "index", m.Index, "via", "key")
		}

	case key.Matches(msg, keys.First):
		m.First()

	case key.Matches(msg, keys.Last):
		m.Last()

	case key.Matches(msg, keys.TOC):
		m.ShowTOC()
		m.toc.Select(m.Clamp(m.Index))

	case key.Matches(msg, keys.Copy):
		w := m.Current()
		if err := clipboard.WriteAll(w.DisplayTitle(m.Untitled) + "\n\n" + w.Body); err != nil {
			m.logger.Warn("clipboard write failed", "error", err)
			m.notice = "Copy failed"
			return m, clearNotice()
		}
		m.notice = "Copied"
		return m, clearNotice()

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m model) updateTOC(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.toc.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, tocJump):
			if item, ok := m.toc.SelectedItem().(tocItem); ok {
				m.GoTo(item.entry.Index)
				m.logger.Debug("page", "index", m.Index, "via", "contents")
			}
			return m, nil

		case key.Matches(msg, tocClose) && m.toc.FilterState() == list.Unfiltered:
			m.HideTOC()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.toc, cmd = m.toc.Update(msg)
	return m, cmd
}

// updateMouse turns a left-button press and release into a swipe or a tap.
// Cells are about twice as tall as they are wide, so vertical motion counts
// double.
func (m model) updateMouse(msg tea.MouseMsg) model {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			press := msg
			m.press = &press
		}
	case tea.MouseActionRelease:
		if m.press == nil {
			return m
		}
		dx := float64(msg.X - m.press.X)
		dy := float64(msg.Y-m.press.Y) * 2
		m.press = nil

		g := session.Classify(dx, dy, m.settings.Input.SwipeCells)
		if m.Apply(g, float64(msg.X), float64(m.width)) {
			m.logger.Debug("page", "index", m.Index, "via", g.String())
		}
	}
	return m
}

func clearNotice() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg { return clearNoticeMsg{} })
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	if m.TOCVisible {
		return m.toc.View() + "\n" + m.help.ShortHelpView([]key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
			key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc/t", "close")),
		})
	}

	spread := m.Render()

	pager := m.pager
	pager.Page = spread.Index
	header := headerStyle.Render(termview.Truncate(spread.Title, max(m.width/2, 1)) + "  " + pager.View())
	if m.notice != "" {
		header += " " + noticeStyle.Render(m.notice)
	}

	footer := m.help.View(keys)

	// Reserve the header, a blank line under it, and the footer.
	avail := max(m.height-2-lipgloss.Height(footer), 1)
	r := termview.RenderSpread(spread, m.width, avail, m.settings.Fit)

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")
	sb.WriteString(r.View)
	sb.WriteString("\n")
	sb.WriteString(footer)
	return sb.String()
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func reload(source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		c, err := poem.Load(ctx, source)
		return reloadMsg{collection: c, err: err}
	}
}

func openLogger(settings config.Settings) (*slog.Logger, func(), error) {
	if settings.Log.File == "" {
		return logging.Discard(), func() {}, nil
	}
	level, err := logging.ParseLevel(settings.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	f, err := tea.LogToFile(config.Expand(settings.Log.File), "mihiraki")
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(f, level, logging.ParseFormat(settings.Log.Format))
	return logger, func() { f.Close() }, nil
}

const tuiControls = `  ←/SPACE  Next work (pages turn right to left)
  →        Previous work
  T        Table of contents
  Y        Copy the current work
  Q        Quit
`

func main() {
	opts := parseFlags("mihiraki", "Mihiraki - Two-Page Spread Reader", tuiControls)

	settings, err := loadSettings(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := openLogger(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lib := openLibrary(ctx, settings, opts.fresh, logger)

	m := newModel(lib.session, settings, lib.source, logger)
	m.changes = lib.watch(ctx, settings.Reader.Watch)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if fm, ok := final.(model); ok {
		lib.save(fm.Session)
	}
}
