package tracker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the sampling cadence used when none is configured.
const DefaultInterval = 200 * time.Millisecond

// Reasons reported to the SessionEnd hook.
const (
	EndReasonStopped  = "stopped"
	EndReasonSwitched = "switched"
	EndReasonAbsent   = "absent"
	EndReasonShutdown = "shutdown"
)

// Hooks receive lifecycle notifications for history and metrics. All fields
// are optional. SessionEnd and Tick may be invoked from the sampler
// goroutine; implementations must be safe for that.
type Hooks struct {
	SessionStart func(pid int32, startedAt time.Time)
	SessionEnd   func(pid int32, reason string, final time.Duration, startedAt time.Time)
	Pause        func(paused bool)
	Tick         func(total time.Duration)
}

// session is one tracking attempt. The paused flag and the cancel/done pair
// are the only state shared between the controller and the sampler goroutine.
type session struct {
	pid     int32
	gen     uint64
	paused  *atomic.Bool
	ended   *atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	started time.Time
}

// Controller owns the lifecycle of at most one sampler loop. Starting a new
// session always retires the previous one first: the old loop is cancelled
// and its termination acknowledged (done channel closed) before the new
// generation begins, so two loops never write the same publisher slot.
type Controller struct {
	mu       sync.Mutex
	probe    Probe
	pub      *Publisher
	interval time.Duration
	hooks    Hooks
	cur      *session
}

func NewController(probe Probe) *Controller {
	return &Controller{
		probe:    probe,
		pub:      NewPublisher(),
		interval: DefaultInterval,
	}
}

// SetInterval adjusts the sampling interval for sessions started afterwards.
// Non-positive values are ignored.
func (c *Controller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.interval = d
	c.mu.Unlock()
}

// SetHooks installs lifecycle hooks. Call before the first session.
func (c *Controller) SetHooks(h Hooks) {
	c.mu.Lock()
	c.hooks = h
	c.mu.Unlock()
}

// StartSession begins tracking pid. Starting the currently tracked pid is a
// no-op unless that session has already ended. The paused flag is reset for
// every new session.
func (c *Controller) StartSession(pid int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != nil && c.cur.pid == pid && !c.cur.ended.Load() {
		return
	}
	c.retireLocked(EndReasonSwitched)

	gen := c.pub.Begin(pid)
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		pid:     pid,
		gen:     gen,
		paused:  new(atomic.Bool),
		ended:   new(atomic.Bool),
		cancel:  cancel,
		done:    make(chan struct{}),
		started: time.Now(),
	}
	c.cur = s

	end := c.hooks.SessionEnd
	loop := &samplerLoop{
		pid:      pid,
		gen:      gen,
		interval: c.interval,
		probe:    c.probe,
		pub:      c.pub,
		paused:   s.paused,
		ended:    s.ended,
		done:     s.done,
		onTick:   c.hooks.Tick,
		onEnd: func(reason string, final time.Duration) {
			if end != nil {
				end(s.pid, reason, final, s.started)
			}
		},
	}
	slog.Debug("session started", "pid", pid, "interval", c.interval)
	if c.hooks.SessionStart != nil {
		c.hooks.SessionStart(pid, s.started)
	}
	go loop.run(ctx)
}

// retireLocked cancels the active sampler, blocks until it acknowledges
// termination, and reports the session end unless the sampler already did
// (process disappeared). Callers must hold c.mu.
func (c *Controller) retireLocked(reason string) {
	s := c.cur
	if s == nil {
		return
	}
	s.cancel()
	<-s.done
	if !s.ended.Load() {
		final := c.pub.Snapshot().Duration
		slog.Debug("session retired", "pid", s.pid, "reason", reason, "tracked", final)
		if c.hooks.SessionEnd != nil {
			c.hooks.SessionEnd(s.pid, reason, final, s.started)
		}
	}
	c.cur = nil
}

// Pause freezes accumulation. No-op when nothing is tracked.
func (c *Controller) Pause() { c.setPaused(true) }

// Resume continues accumulation. The next tick re-anchors from the resume
// instant, so the paused interval is never credited.
func (c *Controller) Resume() { c.setPaused(false) }

// TogglePause flips the paused flag and returns the new value.
// Returns false when nothing is tracked.
func (c *Controller) TogglePause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return false
	}
	v := !c.cur.paused.Load()
	c.cur.paused.Store(v)
	if c.hooks.Pause != nil {
		c.hooks.Pause(v)
	}
	return v
}

func (c *Controller) setPaused(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil || c.cur.paused.Load() == v {
		return
	}
	c.cur.paused.Store(v)
	if c.hooks.Pause != nil {
		c.hooks.Pause(v)
	}
}

// Stop ends the active session and returns the display to the idle
// placeholder. Safe to call when nothing is tracked.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retireLocked(EndReasonStopped)
	c.pub.Clear()
}

// Shutdown is the process-wide teardown entry point. It blocks until the
// active sampler, if any, has acknowledged termination. Safe to call twice.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retireLocked(EndReasonShutdown)
	c.pub.Clear()
}

// DurationText returns the current HH:MM:SS text, or the placeholder when no
// session is active.
func (c *Controller) DurationText() string { return c.pub.Text() }

// SessionEnded reports whether the tracked process disappeared. It stays
// true until a new session starts or Stop is called.
func (c *Controller) SessionEnded() bool { return c.pub.Ended() }

// Snapshot returns the latest published observation.
func (c *Controller) Snapshot() Snapshot { return c.pub.Snapshot() }

// TrackedPID returns the pid of the active session, if any.
func (c *Controller) TrackedPID() (int32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return 0, false
	}
	return c.cur.pid, true
}

// Paused reports whether the active session is paused.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil && c.cur.paused.Load()
}
