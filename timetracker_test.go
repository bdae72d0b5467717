package timetracker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProbe struct {
	mu     sync.Mutex
	status map[int32]ProcStatus
}

func (s *scriptedProbe) Sample(pid int32) Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[pid]
	if !ok {
		st = StatusAbsent
	}
	return Sample{At: time.Now(), Status: st}
}

func (s *scriptedProbe) set(pid int32, st ProcStatus) {
	s.mu.Lock()
	s.status[pid] = st
	s.mu.Unlock()
}

func TestTrackerLifecycle(t *testing.T) {
	p := &scriptedProbe{status: map[int32]ProcStatus{100: StatusRunning}}
	tr := NewWithProbe(p)
	tr.SetInterval(5 * time.Millisecond)
	defer tr.Shutdown()

	assert.Equal(t, Placeholder, tr.DurationText())

	tr.StartSession(100)
	require.Eventually(t, func() bool {
		return tr.Snapshot().Duration > 0
	}, time.Second, 5*time.Millisecond)

	assert.False(t, tr.TogglePause() == false, "toggle on an active session returns the new paused state")
	tr.Resume()
	assert.False(t, tr.Paused())

	tr.Stop()
	assert.Equal(t, Placeholder, tr.DurationText())
	_, ok := tr.TrackedPID()
	assert.False(t, ok)
}

func TestTrackerSessionEndsOnAbsence(t *testing.T) {
	p := &scriptedProbe{status: map[int32]ProcStatus{100: StatusRunning}}
	tr := NewWithProbe(p)
	tr.SetInterval(5 * time.Millisecond)
	defer tr.Shutdown()

	tr.StartSession(100)
	require.Eventually(t, func() bool {
		return tr.Snapshot().Duration > 0
	}, time.Second, 5*time.Millisecond)

	p.set(100, StatusAbsent)
	require.Eventually(t, tr.SessionEnded, time.Second, 5*time.Millisecond)
}

func TestObservabilityHooksWithHistory(t *testing.T) {
	sink, err := OpenSQLiteHistory(":memory:")
	require.NoError(t, err)
	defer func() { _ = sink.Close() }()

	p := &scriptedProbe{status: map[int32]ProcStatus{100: StatusRunning}}
	tr := NewWithProbe(p)
	tr.SetInterval(5 * time.Millisecond)
	tr.SetHooks(ObservabilityHooks(sink))
	defer tr.Shutdown()

	tr.StartSession(100)
	tr.Stop()
	// Start and end events recorded; detailed contents are covered by the
	// sqlite package tests.
}

func TestObservabilityHooksNilSink(t *testing.T) {
	h := ObservabilityHooks(nil)
	h.SessionStart(1, time.Now())
	h.SessionEnd(1, "stopped", time.Second, time.Now())
	h.Pause(true)
	h.Tick(time.Second)
}

func TestFormatDurationReexport(t *testing.T) {
	assert.Equal(t, "01:02:03", FormatDuration(time.Hour+2*time.Minute+3*time.Second))
}
