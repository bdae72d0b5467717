package tracker

import (
	"sync"
	"time"
)

// Snapshot is the last published observation of the engine.
type Snapshot struct {
	Gen      uint64
	PID      int32
	Duration time.Duration
	Text     string
	Active   bool
	Ended    bool
}

// Publisher is the hand-off slot between a sampler goroutine and consumers.
// A single sampler writes; any number of readers poll at their own cadence.
// Every write carries the generation of the session that produced it, and
// writes tagged with a stale generation are dropped, so a retiring sampler
// can never clobber its successor's state.
type Publisher struct {
	mu   sync.RWMutex
	gen  uint64
	snap Snapshot
}

func NewPublisher() *Publisher {
	return &Publisher{snap: Snapshot{Text: Placeholder}}
}

// Begin opens a new session generation for pid and resets the slot.
// All previously issued generations become stale.
func (p *Publisher) Begin(pid int32) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.snap = Snapshot{Gen: p.gen, PID: pid, Text: FormatDuration(0), Active: true}
	return p.gen
}

// Publish stores a new accumulated duration for generation gen.
// It reports whether the write was accepted.
func (p *Publisher) Publish(gen uint64, d time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.snap.Ended {
		return false
	}
	p.snap.Duration = d
	p.snap.Text = FormatDuration(d)
	return true
}

// End marks generation gen terminated because the tracked process
// disappeared. The final duration stays readable until Clear or Begin.
func (p *Publisher) End(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return false
	}
	p.snap.Ended = true
	p.snap.Active = false
	return true
}

// Clear returns the slot to the idle placeholder and invalidates all
// outstanding generations.
func (p *Publisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.snap = Snapshot{Text: Placeholder}
}

// Snapshot returns a copy of the current slot.
func (p *Publisher) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// Text returns the current formatted duration, or the placeholder when idle.
func (p *Publisher) Text() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap.Text
}

// Ended reports whether the tracked process disappeared. It stays true until
// a new session begins or the slot is cleared.
func (p *Publisher) Ended() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap.Ended
}
