// Package proclist enumerates selectable processes for the picker UI. It is
// presentation-layer plumbing: the tracking engine itself never lists
// processes, it only probes the single pid it was given.
package proclist

import (
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Entry identifies one selectable process.
type Entry struct {
	PID  int32  `json:"pid"`
	Name string `json:"name"`
}

// Lister returns processes matching a name filter. The TUI and the HTTP
// router take a Lister so tests can substitute a fixed set.
type Lister func(filter string) ([]Entry, error)

// List enumerates all visible processes and applies Filter. Processes whose
// name cannot be read (typically permission errors) are skipped.
func List(filter string) ([]Entry, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || name == "" {
			continue
		}
		entries = append(entries, Entry{PID: p.Pid, Name: name})
	}
	return Filter(entries, filter), nil
}

// Filter keeps entries whose name contains filter, case-insensitively, and
// returns them sorted by name then pid. An empty filter keeps everything.
func Filter(entries []Entry, filter string) []Entry {
	needle := strings.ToLower(strings.TrimSpace(filter))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if needle == "" || strings.Contains(strings.ToLower(e.Name), needle) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].PID < out[j].PID
	})
	return out
}
