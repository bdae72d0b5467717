// Package tui is the interactive consumer of the tracking engine: a live
// clock, pause/stop controls, and a filterable process picker. It reads the
// published duration on its own redraw cadence and issues commands through
// the controller; it never touches the sampler.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Psychloor/TimeTracker/internal/proclist"
	"github.com/Psychloor/TimeTracker/internal/tracker"
)

const (
	redrawInterval = 250 * time.Millisecond
	pickerRows     = 12
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	clockStyle  = lipgloss.NewStyle().Bold(true).Padding(1, 2)
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	endedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
)

type (
	clockTickMsg time.Time
	processesMsg []proclist.Entry
	listErrMsg   struct{ err error }
)

// Model is the root Bubble Tea model.
type Model struct {
	ctrl *tracker.Controller
	list proclist.Lister

	keys   KeyMap
	width  int
	height int

	picking  bool
	filter   textinput.Model
	all      []proclist.Entry
	entries  []proclist.Entry
	selected int

	trackedName string
	listErr     error
}

// New creates the root model over an engine controller and a process lister.
func New(ctrl *tracker.Controller, list proclist.Lister) Model {
	filter := textinput.New()
	filter.Placeholder = "Name Filter..."
	filter.CharLimit = 64
	return Model{
		ctrl:   ctrl,
		list:   list,
		keys:   DefaultKeyMap(),
		filter: filter,
	}
}

func (m Model) Init() tea.Cmd {
	return scheduleTick()
}

func scheduleTick() tea.Cmd {
	return tea.Tick(redrawInterval, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

func (m Model) loadProcesses() tea.Cmd {
	list := m.list
	return func() tea.Msg {
		entries, err := list("")
		if err != nil {
			return listErrMsg{err: err}
		}
		return processesMsg(entries)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clockTickMsg:
		return m, scheduleTick()

	case processesMsg:
		m.all = msg
		m.listErr = nil
		m.applyFilter()
		return m, nil

	case listErrMsg:
		m.listErr = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Shutdown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Select):
		m.picking = true
		m.selected = 0
		m.filter.SetValue("")
		m.filter.Focus()
		return m, m.loadProcesses()
	case key.Matches(msg, m.keys.Pause):
		m.ctrl.TogglePause()
		return m, nil
	case key.Matches(msg, m.keys.Stop):
		m.ctrl.Stop()
		m.trackedName = ""
		return m, nil
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.picking = false
		m.filter.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.entries)-1 {
			m.selected++
		}
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if m.selected < len(m.entries) {
			e := m.entries[m.selected]
			m.ctrl.StartSession(e.PID)
			m.trackedName = e.Name
			m.picking = false
			m.filter.Blur()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Model) applyFilter() {
	m.entries = proclist.Filter(m.all, m.filter.Value())
	if m.selected >= len(m.entries) {
		m.selected = 0
	}
}

func (m Model) View() string {
	if m.picking {
		return m.pickerView()
	}

	title := "Time Tracker"
	if m.trackedName != "" {
		title = fmt.Sprintf("Time Tracker - %s", m.trackedName)
	}

	var badge string
	switch {
	case m.ctrl.SessionEnded():
		badge = endedStyle.Render("process ended")
	case m.ctrl.Paused():
		badge = badgeStyle.Render("paused")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		clockStyle.Render(m.ctrl.DurationText()),
		" "+badge,
		helpStyle.Render("s select • p pause/resume • x stop • q quit"),
	)
}

func (m Model) pickerView() string {
	rows := []string{
		titleStyle.Render("Select Process"),
		" " + m.filter.View(),
		"",
	}
	if m.listErr != nil {
		rows = append(rows, endedStyle.Render(" "+m.listErr.Error()))
	}
	limit := min(len(m.entries), pickerRows)
	offset := 0
	if m.selected >= pickerRows {
		offset = m.selected - pickerRows + 1
	}
	for i := offset; i < offset+limit && i < len(m.entries); i++ {
		e := m.entries[i]
		line := fmt.Sprintf(" %6d  %s", e.PID, e.Name)
		if i == m.selected {
			line = cursorStyle.Render(line)
		}
		rows = append(rows, line)
	}
	rows = append(rows, "", helpStyle.Render("↑/↓ move • enter track • esc close"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
