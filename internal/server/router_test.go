package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Psychloor/TimeTracker/internal/proclist"
	"github.com/Psychloor/TimeTracker/internal/tracker"
)

func init() { gin.SetMode(gin.TestMode) }

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

func fixedLister(entries []proclist.Entry) proclist.Lister {
	return func(filter string) ([]proclist.Entry, error) {
		return proclist.Filter(entries, filter), nil
	}
}

func newTestRouter(t *testing.T) (*tracker.Controller, http.Handler) {
	t.Helper()
	probe := &stubProbe{status: map[int32]tracker.ProcStatus{100: tracker.StatusRunning}}
	ctrl := tracker.NewController(probe)
	ctrl.SetInterval(5 * time.Millisecond)
	t.Cleanup(ctrl.Shutdown)
	lister := fixedLister([]proclist.Entry{
		{PID: 100, Name: "firefox"},
		{PID: 200, Name: "vim"},
	})
	return ctrl, NewRouter(ctrl, lister, "/api").Handler()
}

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatusIdle(t *testing.T) {
	_, h := newTestRouter(t)
	rec := do(h, http.MethodGet, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Tracking)
	assert.Equal(t, tracker.Placeholder, resp.Duration)
	assert.False(t, resp.Ended)
}

func TestTrackPauseStopFlow(t *testing.T) {
	ctrl, h := newTestRouter(t)

	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/track/100").Code)
	pid, ok := ctrl.TrackedPID()
	require.True(t, ok)
	assert.Equal(t, int32(100), pid)

	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/pause").Code)
	assert.True(t, ctrl.Paused())
	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/resume").Code)
	assert.False(t, ctrl.Paused())

	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/stop").Code)
	_, ok = ctrl.TrackedPID()
	assert.False(t, ok)

	var resp statusResp
	rec := do(h, http.MethodGet, "/api/status")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, tracker.Placeholder, resp.Duration)
}

func TestTrackRejectsBadPid(t *testing.T) {
	_, h := newTestRouter(t)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/track/abc").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/track/-5").Code)
}

func TestProcessesFilter(t *testing.T) {
	_, h := newTestRouter(t)
	rec := do(h, http.MethodGet, "/api/processes?filter=fire")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []proclist.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "firefox", entries[0].Name)
}

func TestStopWhenIdleIsOK(t *testing.T) {
	_, h := newTestRouter(t)
	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/stop").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/pause").Code)
}
