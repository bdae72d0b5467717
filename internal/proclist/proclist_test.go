package proclist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	return []Entry{
		{PID: 30, Name: "zsh"},
		{PID: 10, Name: "Firefox"},
		{PID: 20, Name: "firefox-bin"},
		{PID: 5, Name: "systemd"},
		{PID: 7, Name: "zsh"},
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	got := Filter(sampleEntries(), "FIRE")
	require.Len(t, got, 2)
	assert.Equal(t, "Firefox", got[0].Name)
	assert.Equal(t, "firefox-bin", got[1].Name)
}

func TestFilterEmptyKeepsAllSorted(t *testing.T) {
	got := Filter(sampleEntries(), "")
	require.Len(t, got, 5)
	// Sorted by name, ties broken by pid.
	assert.Equal(t, []Entry{
		{PID: 10, Name: "Firefox"},
		{PID: 20, Name: "firefox-bin"},
		{PID: 5, Name: "systemd"},
		{PID: 7, Name: "zsh"},
		{PID: 30, Name: "zsh"},
	}, got)
}

func TestFilterNoMatch(t *testing.T) {
	assert.Empty(t, Filter(sampleEntries(), "no-such-process"))
}

func TestListIncludesSelf(t *testing.T) {
	entries, err := List("")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		require.NotEmpty(t, e.Name)
		require.Positive(t, e.PID)
	}
}
