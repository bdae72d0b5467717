// Package history defines the session audit log: one event when tracking
// starts and one when it ends, with the reason and the final tracked
// duration. It deliberately does not persist accumulation state, so a
// restart never resumes a previous session's clock.
package history

import (
	"context"
	"time"
)

type EventType string

const (
	EventSessionStart EventType = "session_start"
	EventSessionEnd   EventType = "session_end"
)

// Event is one session lifecycle record.
type Event struct {
	Type       EventType     `json:"type"`
	PID        int32         `json:"pid"`
	Reason     string        `json:"reason,omitempty"`   // session_end only
	Duration   time.Duration `json:"duration,omitempty"` // final tracked time, session_end only
	StartedAt  time.Time     `json:"started_at"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Sink receives session events. Implementations must be safe for use from
// the sampler goroutine; failures are logged by callers, never fatal.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}
