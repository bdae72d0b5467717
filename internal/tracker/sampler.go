package tracker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// samplerLoop drives the probe/advance cycle for one session until it is
// cancelled or the tracked process disappears. It is the only writer for its
// generation of the publisher slot.
type samplerLoop struct {
	pid      int32
	gen      uint64
	interval time.Duration
	probe    Probe
	pub      *Publisher
	paused   *atomic.Bool
	ended    *atomic.Bool
	done     chan struct{}
	onEnd    func(reason string, final time.Duration)
	onTick   func(total time.Duration)
}

// run ticks at the configured interval. Cancellation is checked with a
// non-blocking select before waiting on the ticker, so a ready tick can never
// delay shutdown. While paused the loop keeps ticking to observe cancellation
// promptly, but it does not probe; it only re-anchors the delta instant.
func (l *samplerLoop) run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	var total time.Duration
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if l.paused.Load() {
				_, last, _ = advance(total, last, true, Sample{At: time.Now()})
				if l.onTick != nil {
					l.onTick(total)
				}
				continue
			}
			s := l.probe.Sample(l.pid)
			var term bool
			total, last, term = advance(total, last, false, s)
			if term {
				l.ended.Store(true)
				l.pub.End(l.gen)
				slog.Debug("tracked process disappeared", "pid", l.pid, "tracked", total)
				if l.onEnd != nil {
					l.onEnd(EndReasonAbsent, total)
				}
				return
			}
			l.pub.Publish(l.gen, total)
			if l.onTick != nil {
				l.onTick(total)
			}
		}
	}
}
