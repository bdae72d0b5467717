package tracker

import (
	"fmt"
	"time"
)

// Placeholder is displayed whenever no session is active.
const Placeholder = "--:--:--"

// advance computes the next accumulated duration from one probe sample.
// It returns the new total, the new anchor instant for future deltas, and
// whether the session must terminate because the process is gone.
//
// Paused samples and NotRunning samples re-anchor without crediting time, so
// a later Running sample can never retroactively credit the gap. The delta is
// clamped at zero to tolerate a non-monotonic clock.
func advance(prev time.Duration, prevInstant time.Time, paused bool, s Sample) (time.Duration, time.Time, bool) {
	if s.Status == StatusAbsent {
		return prev, prevInstant, true
	}
	if paused || s.Status == StatusNotRunning {
		return prev, s.At, false
	}
	delta := s.At.Sub(prevInstant)
	if delta < 0 {
		delta = 0
	}
	return prev + delta, s.At, false
}

// FormatDuration renders d as HH:MM:SS using integer-second truncation.
// There is no upper bound on hours.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
