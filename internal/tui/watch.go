// Package tui renders the live active-timers widget behind `tf watch`.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"taskflow/internal/api"
	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/timer"
)

const maxTitleWidth = 40

// TimerControl is the part of the business API the widget drives.
type TimerControl interface {
	timer.ActiveTimerSource
	PauseTimer(ctx context.Context, ref string) (*api.TaskView, error)
	StopTimer(ctx context.Context, ref string) (*api.TaskView, error)
}

// --- Messages ---

type tickMsg time.Time

type refreshDueMsg struct{}

type refreshedMsg struct {
	err error
}

type commandDoneMsg struct {
	id   string
	stop bool
	task *domain.Task
	err  error
}

// Model is the bubbletea model of the widget. Pause and stop are applied to
// the display immediately and settled when the store answers.
type Model struct {
	control TimerControl
	agg     *timer.Aggregator
	now     func() time.Time
	timeout time.Duration

	snapshot *timer.Snapshot
	cursor   int
	pending  map[string]*domain.Optimistic[domain.Task]

	status    string
	statusErr bool
	help      help.Model
	showHelp  bool
	width     int
}

// Option configures a Model.
type Option func(*Model)

// WithClock sets the clock used after refreshes.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithCommandTimeout bounds each refresh and timer command.
func WithCommandTimeout(d time.Duration) Option {
	return func(m *Model) { m.timeout = d }
}

// New creates the widget model. The aggregator should read from control.
func New(control TimerControl, agg *timer.Aggregator, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false

	m := Model{
		control: control,
		agg:     agg,
		now:     time.Now,
		timeout: 10 * time.Second,
		pending: make(map[string]*domain.Optimistic[domain.Task]),
		help:    h,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run shows the widget until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.tickCmd(), m.scheduleRefresh())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.agg.TickInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.agg.RefreshInterval(), func(time.Time) tea.Msg {
		return refreshDueMsg{}
	})
}

func (m Model) refreshCmd() tea.Cmd {
	agg, timeout := m.agg, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return refreshedMsg{err: agg.Refresh(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.snapshot != nil && m.cursor < len(m.snapshot.Rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Pause):
			return m.command(false)
		case key.Matches(msg, keys.Stop):
			return m.command(true)
		}
		return m, nil

	case tickMsg:
		m.agg.Tick(time.Time(msg))
		m.sync()
		return m, m.tickCmd()

	case refreshDueMsg:
		return m, tea.Batch(m.refreshCmd(), m.scheduleRefresh())

	case refreshedMsg:
		if msg.err != nil {
			m.setStatus("refresh failed: "+errors.GetUserMessage(msg.err), true)
		}
		// the store may not have seen an unsettled command yet
		for _, change := range m.pending {
			m.agg.Apply(change.Value())
		}
		m.agg.Tick(m.now())
		m.sync()
		return m, nil

	case commandDoneMsg:
		m.settle(msg)
		return m, m.refreshCmd()
	}

	return m, nil
}

// command optimistically removes the selected timer and issues the pause or
// stop in the background.
func (m Model) command(stop bool) (tea.Model, tea.Cmd) {
	if m.snapshot == nil || m.cursor >= len(m.snapshot.Rows) {
		return m, nil
	}
	row := m.snapshot.Rows[m.cursor]
	id := row.Timer.ID
	if _, busy := m.pending[id]; busy {
		return m, nil
	}

	previous := row.Timer.Task()
	proposed := previous
	proposed.IsTimerActive = false
	proposed.TimerTotalTime = row.Seconds
	proposed.TimerStartTime = nil
	proposed.TimerLastStartTime = nil

	m.pending[id] = domain.NewOptimistic(previous, proposed)
	m.agg.Apply(proposed)
	m.sync()
	m.setStatus(fmt.Sprintf("%s %s at %s", verb(stop, true), row.Timer.Title, row.Elapsed), false)

	control, timeout := m.control, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var view *api.TaskView
		var err error
		if stop {
			view, err = control.StopTimer(ctx, id)
		} else {
			view, err = control.PauseTimer(ctx, id)
		}
		done := commandDoneMsg{id: id, stop: stop, err: err}
		if view != nil {
			done.task = &view.Task
		}
		return done
	}
}

// settle confirms or reverts a pending command. The caller re-queries the
// store afterwards since the timer may have changed elsewhere.
func (m *Model) settle(msg commandDoneMsg) {
	change, ok := m.pending[msg.id]
	if !ok {
		return
	}
	delete(m.pending, msg.id)

	var actual domain.Task
	if msg.task != nil {
		actual = *msg.task
	}
	value := change.Settle(actual, msg.err)
	m.agg.Apply(value)
	m.sync()

	if msg.err != nil {
		m.setStatus(fmt.Sprintf("%s failed: %s", commandName(msg.stop), errors.GetUserMessage(msg.err)), true)
		return
	}
	m.setStatus(fmt.Sprintf("%s %s, total %s", verb(msg.stop, false), value.Title, timer.FormatElapsed(value.TimerTotalTime)), false)
}

func commandName(stop bool) string {
	if stop {
		return "stop"
	}
	return "pause"
}

func verb(stop, progressive bool) string {
	switch {
	case stop && progressive:
		return "stopping"
	case stop:
		return "stopped"
	case progressive:
		return "pausing"
	default:
		return "paused"
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// sync takes a fresh snapshot and keeps the cursor on a row.
func (m *Model) sync() {
	m.snapshot = m.agg.Snapshot()
	rows := 0
	if m.snapshot != nil {
		rows = len(m.snapshot.Rows)
	}
	if m.cursor >= rows {
		m.cursor = rows - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder

	if timers := m.renderTimers(); timers != "" {
		b.WriteString(timers)
		b.WriteString("\n")
	}
	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(statusStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys))
	b.WriteString("\n")
	return b.String()
}

// renderTimers draws the active timers panel. Nothing is drawn when no timer
// is running.
func (m Model) renderTimers() string {
	snap := m.snapshot
	if snap == nil {
		return ""
	}

	lines := []string{
		headerStyle.Render(fmt.Sprintf("Active timers (%d)  total %s",
			len(snap.Rows), timer.FormatElapsed(snap.TotalSeconds()))),
	}
	for i, row := range snap.Rows {
		title := truncate(row.Timer.Title, maxTitleWidth)
		marker := "  "
		if i == m.cursor {
			marker = "› "
			title = selectedStyle.Render(title)
		}
		started := ""
		if !row.Timer.StartTime.IsZero() {
			started = subtleStyle.Render("started " + humanize.RelTime(row.Timer.StartTime, snap.At, "ago", "from now"))
		}
		elapsed := elapsedStyle.Render(row.Elapsed)
		if _, busy := m.pending[row.Timer.ID]; busy {
			elapsed = pendingStyle.Render(row.Elapsed)
		}
		lines = append(lines, fmt.Sprintf("%s%s  %s  %s", marker, elapsed, title, started))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
