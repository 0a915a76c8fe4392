package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jh3/pomo/internal/query"
	"github.com/jh3/pomo/internal/session"
)

// RefreshFunc returns the active sessions at now. Implementations usually
// also rewrite the status file.
type RefreshFunc func(now time.Time) ([]session.Session, error)

// WatchOptions configures the live view
type WatchOptions struct {
	Interval time.Duration
	Refresh  RefreshFunc
	Notify   <-chan struct{}  // optional, forces a refresh
	Now      func() time.Time // defaults to time.Now
}

type tickMsg time.Time

type notifyMsg struct{}

type refreshMsg struct {
	now      time.Time
	sessions []session.Session
	err      error
}

// watchModel is the bubbletea model for the live session view
type watchModel struct {
	opts     WatchOptions
	sessions []session.Session
	now      time.Time
	err      error
	bar      progress.Model
	width    int
	quitting bool
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	descStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newWatchModel(opts WatchOptions) watchModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return watchModel{
		opts:  opts,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		width: 80,
	}
}

// RunWatch shows active sessions until the user quits
func RunWatch(opts WatchOptions) error {
	p := tea.NewProgram(newWatchModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick(), m.waitNotify())
}

func (m watchModel) refresh() tea.Cmd {
	now := m.opts.Now()
	refresh := m.opts.Refresh
	return func() tea.Msg {
		sessions, err := refresh(now)
		return refreshMsg{now: now, sessions: sessions, err: err}
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m watchModel) waitNotify() tea.Cmd {
	if m.opts.Notify == nil {
		return nil
	}
	ch := m.opts.Notify
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return notifyMsg{}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(10, min(60, msg.Width-40))
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), m.tick())

	case notifyMsg:
		return m, tea.Batch(m.refresh(), m.waitNotify())

	case refreshMsg:
		m.now = msg.now
		m.err = msg.err
		if msg.err == nil {
			m.sessions = msg.sessions
			query.SortByStart(m.sessions)
		}
		return m, nil
	}

	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("pomo"))
	if !m.now.IsZero() {
		b.WriteString(dimStyle.Render("  " + m.now.Local().Format("15:04:05")))
	}
	b.WriteString("\n\n")

	if len(m.sessions) == 0 {
		b.WriteString(dimStyle.Render("No active session"))
		b.WriteString("\n")
	}

	for _, s := range m.sessions {
		elapsed := clamp(s.Elapsed(m.now), 0, s.Duration)
		percent := 0.0
		if s.Duration > 0 {
			percent = float64(elapsed) / float64(s.Duration)
		}

		b.WriteString(fmt.Sprintf("%s  %s\n",
			descStyle.Render(s.Description),
			dimStyle.Render("started "+s.Start.Local().Format("15:04"))))
		b.WriteString(fmt.Sprintf("%s  %s / %s\n\n",
			m.bar.ViewAs(percent),
			FormatClock(elapsed),
			FormatClock(s.Duration)))
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r refresh • q quit"))
	return b.String()
}

// FormatClock renders d as M:SS
func FormatClock(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func clamp(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
