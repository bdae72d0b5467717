// Package probe resolves process identifiers to scheduling status via
// gopsutil. It is the only place the engine touches the OS.
package probe

import (
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/Psychloor/TimeTracker/internal/tracker"
)

// OS implements tracker.Probe. Unknown pids and failed OS queries are both
// reported as absent.
type OS struct{}

func New() OS { return OS{} }

func (OS) Sample(pid int32) tracker.Sample {
	now := time.Now()
	p, err := process.NewProcess(pid)
	if err != nil {
		return tracker.Sample{At: now, Status: tracker.StatusAbsent}
	}
	statuses, err := p.Status()
	if err != nil {
		return tracker.Sample{At: now, Status: tracker.StatusAbsent}
	}
	for _, st := range statuses {
		if st == process.Running {
			return tracker.Sample{At: now, Status: tracker.StatusRunning}
		}
	}
	return tracker.Sample{At: now, Status: tracker.StatusNotRunning}
}
