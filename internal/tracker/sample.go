package tracker

import "time"

// ProcStatus classifies one probe observation of a process.
type ProcStatus int

const (
	// StatusRunning means the process exists and is scheduled/active.
	StatusRunning ProcStatus = iota
	// StatusNotRunning means the process exists but is not currently running
	// (sleeping, stopped, zombie, ...).
	StatusNotRunning
	// StatusAbsent means the pid no longer resolves to a live process.
	StatusAbsent
)

func (s ProcStatus) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusNotRunning:
		return "not_running"
	case StatusAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Sample is a single probe result: when it was taken and what was observed.
type Sample struct {
	At     time.Time
	Status ProcStatus
}

// Probe queries the OS for the scheduling status of a process.
// Implementations must not fail for unknown pids; they report StatusAbsent
// instead, so the engine stops crediting time rather than over-counting.
// A probe call should return well within one sampling interval.
type Probe interface {
	Sample(pid int32) Sample
}
