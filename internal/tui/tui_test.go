package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Psychloor/TimeTracker/internal/proclist"
	"github.com/Psychloor/TimeTracker/internal/tracker"
)

type stubProbe struct {
	mu     sync.Mutex
	status map[int32]tracker.ProcStatus
}

func (s *stubProbe) Sample(pid int32) tracker.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[pid]
	if !ok {
		st = tracker.StatusAbsent
	}
	return tracker.Sample{At: time.Now(), Status: st}
}

func newTestModel(t *testing.T) (Model, *tracker.Controller) {
	t.Helper()
	probe := &stubProbe{status: map[int32]tracker.ProcStatus{
		100: tracker.StatusRunning,
		200: tracker.StatusRunning,
	}}
	ctrl := tracker.NewController(probe)
	ctrl.SetInterval(5 * time.Millisecond)
	t.Cleanup(ctrl.Shutdown)

	lister := func(filter string) ([]proclist.Entry, error) {
		return proclist.Filter([]proclist.Entry{
			{PID: 100, Name: "firefox"},
			{PID: 200, Name: "vim"},
		}, filter), nil
	}
	return New(ctrl, lister), ctrl
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func keyPress(t *testing.T, m Model, runes string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(runes)})
}

func TestIdleViewShowsPlaceholder(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Contains(t, m.View(), tracker.Placeholder)
	assert.Contains(t, m.View(), "Time Tracker")
}

func TestPickerFilterAndSelect(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = keyPress(t, m, "s")
	require.True(t, m.picking)
	m = update(t, m, processesMsg{
		{PID: 100, Name: "firefox"},
		{PID: 200, Name: "vim"},
	})

	m = keyPress(t, m, "vi")
	require.Len(t, m.entries, 1)
	assert.Equal(t, "vim", m.entries[0].Name)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.picking)
	assert.Equal(t, "vim", m.trackedName)
	pid, ok := ctrl.TrackedPID()
	require.True(t, ok)
	assert.Equal(t, int32(200), pid)
	assert.Contains(t, m.View(), "Time Tracker - vim")
}

func TestPickerCancel(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = keyPress(t, m, "s")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.picking)
	_, ok := ctrl.TrackedPID()
	assert.False(t, ok)
}

func TestPauseAndStopKeys(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.StartSession(100)
	m.trackedName = "firefox"

	m = keyPress(t, m, "p")
	assert.True(t, ctrl.Paused())
	assert.Contains(t, m.View(), "paused")

	m = keyPress(t, m, "p")
	assert.False(t, ctrl.Paused())

	m = keyPress(t, m, "x")
	_, ok := ctrl.TrackedPID()
	assert.False(t, ok)
	assert.Equal(t, "", m.trackedName)
	assert.Contains(t, m.View(), tracker.Placeholder)
}

func TestEndedBadge(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.StartSession(999) // unknown pid: ends on first tick
	require.Eventually(t, ctrl.SessionEnded, time.Second, 5*time.Millisecond)
	assert.True(t, strings.Contains(m.View(), "process ended"))
}
