// Package tui is the interactive terminal client: a shell with one page per
// route, each with its own form and result area.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"stockdesk/internal/page"
)

const footerHelp = " f1-f4 page  ctrl+n/p next/prev  tab field  enter submit  pgup/dn scroll  ctrl+c quit"

// Model is the bubbletea model of the shell.
type Model struct {
	ctx  context.Context
	deps page.Deps
	now  func() time.Time
	log  *slog.Logger

	route    int
	screen   screen
	instance uint64

	viewport      viewport.Model
	ready         bool
	width, height int
}

// New creates the shell positioned on startPath.
func New(ctx context.Context, deps page.Deps, startPath string) Model {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	m := Model{ctx: ctx, deps: deps, now: time.Now, log: log, instance: 1}
	m.route = Lookup(startPath)
	m.screen = newScreen(m.route, m.instance, deps, m.now())
	return m
}

// open replaces the current page with a fresh instance of route i.
func (m *Model) open(i int) tea.Cmd {
	m.instance++
	m.route = i
	m.screen = newScreen(i, m.instance, m.deps, m.now())
	m.log.Debug("navigate", "path", Routes[i].Path, "instance", m.instance)
	m.screen.mount()
	if m.ready {
		m.layout()
		m.refresh()
		m.viewport.GotoTop()
	}
	return textinput.Blink
}

// Init mounts the start page.
func (m Model) Init() tea.Cmd {
	m.screen.mount()
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if i := routeForKey(key); i >= 0 {
			if i == m.route {
				return m, nil
			}
			return m, m.open(i)
		}
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+n":
			return m, m.open((m.route + 1) % len(Routes))
		case "ctrl+p":
			return m, m.open((m.route + len(Routes) - 1) % len(Routes))
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		submit, cmd := m.screen.form().update(msg)
		if submit {
			cmd = m.screen.submit(m.ctx)
		}
		m.refresh()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.width, 1)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
			m.layout()
			m.refresh()
		} else {
			m.layout()
		}
		return m, nil

	case fetchedMsg:
		if msg.instance != m.screen.id() {
			m.log.Debug("dropping response for closed page", "instance", msg.instance)
			return m, nil
		}
		m.screen.resolve(msg)
		m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// layout sizes the viewport to what the header, form, status and footer
// leave free.
func (m *Model) layout() {
	fixed := 1 + m.screen.form().height() + 1 + 1 + 1
	h := m.height - fixed
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.screen.body(m.width))
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	pct := m.viewport.ScrollPercent() * 100
	footerRight := fmt.Sprintf("%.0f%% ", pct)
	gap := m.width - len(footerHelp) - len(footerRight)
	if gap < 0 {
		gap = 0
	}
	footer := footerStyle.Render(padOrTrunc(footerHelp+strings.Repeat(" ", gap)+footerRight, m.width))

	return m.header() + "\n" +
		m.screen.form().view() + "\n" +
		padOrTrunc(m.screen.status(), m.width) + "\n" +
		m.viewport.View() + "\n" +
		footer
}

func (m Model) header() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(" 股市資訊 "))
	for i, r := range Routes {
		label := fmt.Sprintf(" %s %s ", r.Key, r.Title)
		if i == m.route {
			b.WriteString(navActiveStyle.Render(label))
		} else {
			b.WriteString(navStyle.Render(label))
		}
	}
	if w := ansi.StringWidth(b.String()); w < m.width {
		b.WriteString(navStyle.Render(strings.Repeat(" ", m.width-w)))
	}
	return b.String()
}

// padOrTrunc pads s with spaces to width cells, or truncates if wider.
func padOrTrunc(s string, width int) string {
	n := ansi.StringWidth(s)
	if n >= width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-n)
}

// Run starts the shell and blocks until the user quits.
func Run(ctx context.Context, deps page.Deps, startPath string) error {
	p := tea.NewProgram(
		New(ctx, deps, startPath),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
