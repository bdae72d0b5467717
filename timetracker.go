// Package timetracker tracks how long a single OS process spends in the
// running state. It exposes a small command surface (start/pause/resume/
// stop) and an observation surface (a live HH:MM:SS clock and an ended
// flag); presentation layers such as the TUI, the HTTP router, and the CLI
// consume that surface and never reach into the sampler.
package timetracker

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Psychloor/TimeTracker/internal/config"
	"github.com/Psychloor/TimeTracker/internal/history"
	hsqlite "github.com/Psychloor/TimeTracker/internal/history/sqlite"
	"github.com/Psychloor/TimeTracker/internal/logger"
	"github.com/Psychloor/TimeTracker/internal/metrics"
	"github.com/Psychloor/TimeTracker/internal/probe"
	"github.com/Psychloor/TimeTracker/internal/proclist"
	iapi "github.com/Psychloor/TimeTracker/internal/server"
	"github.com/Psychloor/TimeTracker/internal/tracker"
	"github.com/Psychloor/TimeTracker/internal/tui"
)

// Re-export core types for external consumers. These are aliases so
// conversions are zero-cost.

type Sample = tracker.Sample

type ProcStatus = tracker.ProcStatus

type Probe = tracker.Probe

type Snapshot = tracker.Snapshot

type Hooks = tracker.Hooks

type Config = config.Config

type LogConfig = logger.Config

type ProcessEntry = proclist.Entry

type HistoryEvent = history.Event

type HistorySink = history.Sink

const (
	StatusRunning    = tracker.StatusRunning
	StatusNotRunning = tracker.StatusNotRunning
	StatusAbsent     = tracker.StatusAbsent

	Placeholder     = tracker.Placeholder
	DefaultInterval = tracker.DefaultInterval
)

// Tracker is a thin facade over the internal session controller. It provides
// a stable public API for embedding.
type Tracker struct{ inner *tracker.Controller }

// New builds a tracker backed by the OS probe.
func New() *Tracker { return NewWithProbe(probe.New()) }

// NewWithProbe builds a tracker over a custom probe, mainly for tests and
// embedders with their own process model.
func NewWithProbe(p Probe) *Tracker {
	return &Tracker{inner: tracker.NewController(p)}
}

func (t *Tracker) SetInterval(d time.Duration) { t.inner.SetInterval(d) }
func (t *Tracker) SetHooks(h Hooks)            { t.inner.SetHooks(h) }

func (t *Tracker) StartSession(pid int32)     { t.inner.StartSession(pid) }
func (t *Tracker) Pause()                     { t.inner.Pause() }
func (t *Tracker) Resume()                    { t.inner.Resume() }
func (t *Tracker) TogglePause() bool          { return t.inner.TogglePause() }
func (t *Tracker) Stop()                      { t.inner.Stop() }
func (t *Tracker) Shutdown()                  { t.inner.Shutdown() }
func (t *Tracker) DurationText() string       { return t.inner.DurationText() }
func (t *Tracker) SessionEnded() bool         { return t.inner.SessionEnded() }
func (t *Tracker) Paused() bool               { return t.inner.Paused() }
func (t *Tracker) TrackedPID() (int32, bool)  { return t.inner.TrackedPID() }
func (t *Tracker) Snapshot() Snapshot         { return t.inner.Snapshot() }

// FormatDuration renders a duration the way the engine does (HH:MM:SS).
func FormatDuration(d time.Duration) string { return tracker.FormatDuration(d) }

// ListProcesses enumerates selectable processes for pickers.
func ListProcesses(filter string) ([]ProcessEntry, error) { return proclist.List(filter) }

// LoadConfig reads the TOML configuration at path.
func LoadConfig(path string) (*Config, error) { return config.Load(path) }

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config { return config.Default() }

// SetupLogging installs the process-wide slog logger.
func SetupLogging(c LogConfig) *slog.Logger { return logger.Setup(c) }

// OpenSQLiteHistory opens (creating if needed) a SQLite session history at
// path and ensures its schema.
func OpenSQLiteHistory(path string) (HistorySink, error) {
	db, err := hsqlite.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// RecentHistory opens the SQLite history at path and returns up to limit
// events, most recent first.
func RecentHistory(ctx context.Context, path string, limit int) ([]HistoryEvent, error) {
	db, err := hsqlite.New(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return db.Recent(ctx, limit)
}

// ObservabilityHooks returns lifecycle hooks that update the Prometheus
// collectors and, when sink is non-nil, append session events to it.
func ObservabilityHooks(sink HistorySink) Hooks {
	send := func(e HistoryEvent) {
		if sink == nil {
			return
		}
		if err := sink.Send(context.Background(), e); err != nil {
			slog.Warn("history sink send failed", "error", err)
		}
	}
	return Hooks{
		SessionStart: func(pid int32, startedAt time.Time) {
			metrics.IncSessionStart()
			send(HistoryEvent{
				Type:       history.EventSessionStart,
				PID:        pid,
				StartedAt:  startedAt,
				OccurredAt: time.Now().UTC(),
			})
		},
		SessionEnd: func(pid int32, reason string, final time.Duration, startedAt time.Time) {
			metrics.IncSessionEnd(reason)
			send(HistoryEvent{
				Type:       history.EventSessionEnd,
				PID:        pid,
				Reason:     reason,
				Duration:   final,
				StartedAt:  startedAt,
				OccurredAt: time.Now().UTC(),
			})
		},
		Pause: metrics.IncPause,
		Tick:  func(total time.Duration) { metrics.ObserveTick(total.Seconds()) },
	}
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// ServeMetrics starts an HTTP server on addr exposing /metrics using the
// default registry. It runs in the caller goroutine and returns any listen
// error.
func ServeMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}

// NewHTTPServer starts an HTTP server exposing the control/status API for t.
func NewHTTPServer(addr, basePath string, t *Tracker) (*http.Server, error) {
	return iapi.NewServer(addr, basePath, t.inner, proclist.List)
}

// NewTUI returns the interactive Bubble Tea consumer for t.
func NewTUI(t *Tracker) tea.Model {
	return tui.New(t.inner, proclist.List)
}
