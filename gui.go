//go:build gui

package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/atotto/clipboard"

	"github.com/metcalfc/mihiraki/internal/config"
	"github.com/metcalfc/mihiraki/internal/layout"
	"github.com/metcalfc/mihiraki/internal/logging"
	"github.com/metcalfc/mihiraki/internal/poem"
	"github.com/metcalfc/mihiraki/internal/session"
)

var (
	paperColor   = color.RGBA{R: 0xFB, G: 0xF7, B: 0xEE, A: 0xFF}
	inkColor     = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xFF}
	headingColor = color.RGBA{R: 0x6B, G: 0x4F, B: 0x1D, A: 0xFF}
	bindingColor = color.RGBA{R: 0xC8, G: 0xBF, B: 0xAE, A: 0xFF}

	headingStyle = fyne.TextStyle{Bold: true}
)

const (
	leafPadding float32 = 24
	leafGap     float32 = 16
	lineSpacing float32 = 1.4
	headingRate float32 = 1.25
)

// leaf is one page of the spread, measured with the window's fonts. Lines
// wider than the page wrap at spaces, or between characters when a line has
// none.
type leaf struct {
	title    string
	text     string
	size     fyne.Size
	textSize float32
}

type row struct {
	text    string
	heading bool
	height  float32
}

func (l *leaf) SetSize(size float64) { l.textSize = float32(size) }

func (l *leaf) ContentHeight() float64 {
	var h float32
	for _, r := range l.rows() {
		h += r.height
	}
	return float64(h)
}

func (l *leaf) ContainerHeight() float64 {
	return float64(max(l.size.Height-2*leafPadding, 0))
}

func (l *leaf) rows() []row {
	width := l.size.Width - 2*leafPadding
	var out []row
	if l.title != "" {
		hs := l.textSize * headingRate
		for _, t := range wrapLine(l.title, hs, headingStyle, width) {
			out = append(out, row{text: t, heading: true, height: hs * lineSpacing})
		}
		out = append(out, row{height: l.textSize * lineSpacing})
	}
	if l.text == "" {
		return out
	}
	for _, line := range strings.Split(l.text, "\n") {
		for _, t := range wrapLine(line, l.textSize, fyne.TextStyle{}, width) {
			out = append(out, row{text: t, height: l.textSize * lineSpacing})
		}
	}
	return out
}

// draw builds the page's canvas objects, clipped to its height.
func (l *leaf) draw() *fyne.Container {
	bg := canvas.NewRectangle(paperColor)
	bg.Resize(l.size)
	objs := []fyne.CanvasObject{bg}

	y := leafPadding
	for _, r := range l.rows() {
		if y+r.height > l.size.Height {
			break
		}
		if r.text != "" {
			t := canvas.NewText(r.text, inkColor)
			t.TextSize = l.textSize
			if r.heading {
				t.Color = headingColor
				t.TextSize = l.textSize * headingRate
				t.TextStyle = headingStyle
			}
			t.Move(fyne.NewPos(leafPadding, y))
			t.Resize(t.MinSize())
			objs = append(objs, t)
		}
		y += r.height
	}
	return container.NewWithoutLayout(objs...)
}

func wrapLine(line string, size float32, style fyne.TextStyle, width float32) []string {
	if width <= 0 || fyne.MeasureText(line, size, style).Width <= width {
		return []string{line}
	}

	var out []string
	runes := []rune(line)
	start, lastSpace := 0, -1
	for i := 0; i < len(runes); i++ {
		if runes[i] == ' ' {
			lastSpace = i
		}
		if i == start || fyne.MeasureText(string(runes[start:i+1]), size, style).Width <= width {
			continue
		}
		cut := i
		if lastSpace > start {
			cut = lastSpace
		}
		out = append(out, string(runes[start:cut]))
		start = cut
		if runes[start] == ' ' {
			start++
		}
		lastSpace = -1
		i = start - 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// touchArea turns drags and taps over the spread into page turns.
type touchArea struct {
	widget.BaseWidget
	dx, dy  float32
	onSwipe func(dx, dy float32)
	onTap   func(x, width float32)
}

func newTouchArea(onSwipe func(dx, dy float32), onTap func(x, width float32)) *touchArea {
	t := &touchArea{onSwipe: onSwipe, onTap: onTap}
	t.ExtendBaseWidget(t)
	return t
}

func (t *touchArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (t *touchArea) Tapped(e *fyne.PointEvent) {
	t.onTap(e.Position.X, t.Size().Width)
}

func (t *touchArea) Dragged(e *fyne.DragEvent) {
	t.dx += e.Dragged.DX
	t.dy += e.Dragged.DY
}

func (t *touchArea) DragEnd() {
	dx, dy := t.dx, t.dy
	t.dx, t.dy = 0, 0
	t.onSwipe(dx, dy)
}

func openLogger(settings config.Settings) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(settings.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	format := logging.ParseFormat(settings.Log.Format)
	if settings.Log.File == "" {
		return logging.New(os.Stderr, level, format), func() {}, nil
	}
	f, err := os.OpenFile(config.Expand(settings.Log.File), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(f, level, format), func() { f.Close() }, nil
}

const guiControls = `  ←/SPACE  Next work (pages turn right to left)
  →        Previous work
  Drag     Pull right for the next work, left for the previous
  Click    Left half next, right half previous
  T        Table of contents
  Y        Copy the current work
  F        Fullscreen
  Q        Quit
`

func main() {
	opts := parseFlags("mihiraki-gui", "Mihiraki - Two-Page Spread Reader (window)", guiControls)

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
	s := lib.session
	entries := s.TOC()

	a := app.New()
	w := a.NewWindow("mihiraki")

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter

	controlsLabel := widget.NewLabel("←/SPACE: next  →: previous  T: contents  Y: copy  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	pageArea := container.NewWithoutLayout()
	var notice string

	updateDisplay := func() {
		size := pageArea.Size()
		if size.Width <= 0 || size.Height <= 0 {
			size = fyne.NewSize(800, 520)
		}

		spread := s.Render()
		pw := (size.Width - leafGap) / 2
		ps := fyne.NewSize(pw, size.Height)

		right := &leaf{title: spread.Title, text: spread.Halves.Right, size: ps}
		layout.FitWith(right, settings.Fit)
		rc := right.draw()
		rc.Resize(ps)

		if spread.Halves.Single() {
			rc.Move(fyne.NewPos((size.Width-pw)/2, 0))
			pageArea.Objects = []fyne.CanvasObject{rc}
		} else {
			left := &leaf{text: spread.Halves.Left, size: ps}
			layout.FitWith(left, settings.Fit)
			lc := left.draw()
			lc.Resize(ps)
			lc.Move(fyne.NewPos(0, 0))
			rc.Move(fyne.NewPos(pw+leafGap, 0))

			binding := canvas.NewRectangle(bindingColor)
			binding.Resize(fyne.NewSize(1, size.Height))
			binding.Move(fyne.NewPos(pw+leafGap/2, 0))

			pageArea.Objects = []fyne.CanvasObject{lc, binding, rc}
		}
		pageArea.Refresh()

		status := fmt.Sprintf("%s  %d / %d", spread.Title, spread.Index+1, spread.Total)
		if notice != "" {
			status += "  [" + notice + "]"
		}
		statusLabel.SetText(status)
	}

	flash := func(text string) {
		notice = text
		updateDisplay()
		go func() {
			time.Sleep(2 * time.Second)
			fyne.Do(func() {
				if notice == text {
					notice = ""
					updateDisplay()
				}
			})
		}()
	}

	var tocPanel *container.Split
	tocList := widget.NewList(
		func() int { return len(entries) },
		func() fyne.CanvasObject {
			return container.NewVBox(
				widget.NewLabel("Title"),
				widget.NewLabel("Preview"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			entry := entries[id]
			vbox := obj.(*fyne.Container)
			titleLabel := vbox.Objects[0].(*widget.Label)
			previewLabel := vbox.Objects[1].(*widget.Label)

			titleLabel.SetText(fmt.Sprintf("%d. %s", entry.Index+1, entry.Title))
			titleLabel.TextStyle.Bold = true

			preview := []rune(entry.Preview)
			if len(preview) > 40 {
				preview = append(preview[:40], '…')
			}
			previewLabel.SetText(string(preview))
		},
	)

	showTOC := func(visible bool) {
		if visible {
			// Select while hidden so OnSelected does not jump.
			tocList.Select(s.Clamp(s.Index))
			s.ShowTOC()
			tocPanel.Leading.Show()
		} else {
			s.HideTOC()
			tocPanel.Leading.Hide()
		}
		tocPanel.Refresh()
	}

	tocList.OnSelected = func(id widget.ListItemID) {
		if !s.TOCVisible || id >= len(entries) {
			return
		}
		s.GoTo(id)
		logger.Debug("page", "index", s.Index, "via", "contents")
		showTOC(false)
		updateDisplay()
	}

	touch := newTouchArea(
		func(dx, dy float32) {
			g := session.Classify(float64(dx), float64(dy), settings.Input.SwipePixels)
			if g != session.SwipeForward && g != session.SwipeBack {
				return
			}
			if s.Apply(g, 0, 0) {
				logger.Debug("page", "index", s.Index, "via", g.String())
				updateDisplay()
			}
		},
		func(x, width float32) {
			if s.Apply(session.Tap, float64(x), float64(width)) {
				logger.Debug("page", "index", s.Index, "via", "tap")
				updateDisplay()
			}
		},
	)

	readingContent := container.NewBorder(
		statusLabel,
		controlsLabel,
		nil, nil,
		container.NewStack(pageArea, touch),
	)

	tocContainer := container.NewBorder(
		widget.NewLabel("Contents"),
		widget.NewLabel("Click to open • T to close"),
		nil, nil,
		tocList,
	)
	tocPanel = container.NewHSplit(tocContainer, readingContent)
	tocPanel.Offset = 0.3
	if !s.TOCVisible {
		tocContainer.Hide()
	}

	done := make(chan struct{})
	var closeOnce sync.Once
	shutdown := func() {
		closeOnce.Do(func() {
			lib.save(s)
			cancel()
			close(done)
		})
	}

	if changes := lib.watch(ctx, settings.Reader.Watch); changes != nil {
		go func() {
			for range changes {
				c, err := poem.Load(ctx, lib.source)
				fyne.Do(func() {
					if err != nil {
						logger.Warn("reload failed", "source", lib.source, "error", err)
						flash("Reload failed")
						return
					}
					s.Replace(c.Works)
					entries = s.TOC()
					tocList.Refresh()
					logger.Info("collection reloaded", "source", lib.source, "works", c.Len())
					flash("Reloaded")
				})
			}
		}()
	}

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		if s.TOCVisible {
			if key.Name == fyne.KeyEscape {
				showTOC(false)
			}
			return
		}

		moved := false
		switch key.Name {
		case fyne.KeyLeft, fyne.KeySpace, fyne.KeyPageDown:
			moved = s.Forward()
		case fyne.KeyRight, fyne.KeyBackspace, fyne.KeyPageUp:
			moved = s.Back()
		case fyne.KeyHome:
			s.First()
			moved = true
		case fyne.KeyEnd:
			s.Last()
			moved = true
		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())
		case fyne.KeyQ:
			shutdown()
			a.Quit()
		}
		if moved {
			logger.Debug("page", "index", s.Index, "via", "key")
			updateDisplay()
		}
	})

	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 't', 'T':
			showTOC(!s.TOCVisible)
		case 'y', 'Y':
			cur := s.Current()
			if err := clipboard.WriteAll(cur.DisplayTitle(s.Untitled) + "\n\n" + cur.Body); err != nil {
				logger.Warn("clipboard write failed", "error", err)
				flash("Copy failed")
				return
			}
			flash("Copied")
		}
	})

	w.Resize(fyne.NewSize(960, 640))
	w.SetContent(tocPanel)

	// Refit when the window changes size.
	go func() {
		var last fyne.Size
		for {
			select {
			case <-done:
				return
			default:
				time.Sleep(100 * time.Millisecond)
				fyne.Do(func() {
					if size := pageArea.Size(); size != last && size.Width > 0 {
						last = size
						updateDisplay()
					}
				})
			}
		}
	}()

	w.SetOnClosed(shutdown)
	w.ShowAndRun()
}
