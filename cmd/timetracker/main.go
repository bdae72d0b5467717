package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds persistent flags shared by all commands.
type GlobalFlags struct {
	ConfigPath string
	LogLevel   string
}

// TrackFlags holds flags for the headless track command.
type TrackFlags struct {
	PID int32
}

// ListFlags holds flags for the list command.
type ListFlags struct {
	Filter string
}

// HistoryFlags holds flags for the history command.
type HistoryFlags struct {
	Limit int
	Path  string
}

// buildRoot assembles the root command and its subcommands.
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	trackFlags := &TrackFlags{}
	listFlags := &ListFlags{}
	historyFlags := &HistoryFlags{}

	trackerCommand := command{global: globalFlags}

	root := createRootCommand(globalFlags)
	root.AddCommand(
		createRunCommand(trackerCommand),
		createTrackCommand(trackerCommand, trackFlags),
		createListCommand(trackerCommand, listFlags),
		createHistoryCommand(trackerCommand, historyFlags),
	)
	return root
}

// createRootCommand creates the root command with persistent flags.
func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "timetracker",
		Short: "Track how long a process spends running",
		Long: `Timetracker watches a single OS process and accumulates the wall-clock
time it spends in the running state, shown as a live HH:MM:SS clock.

Examples:
  timetracker run                   # Interactive UI with a process picker
  timetracker track --pid=4242      # Headless tracking of one PID
  timetracker list --filter=fire    # List selectable processes
  timetracker history --limit=20    # Show recent session events`,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")
	root.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")

	return root
}

// createRunCommand creates the interactive run subcommand.
func createRunCommand(trackerCommand command) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive tracker UI",
		Long: `Start the full-screen terminal UI: pick a process, watch the clock,
pause and resume with the keyboard.

Examples:
  timetracker run
  timetracker run --config=timetracker.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return trackerCommand.Run()
		},
	}
}

// createTrackCommand creates the headless track subcommand.
func createTrackCommand(trackerCommand command, trackFlags *TrackFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Track a PID without the UI",
		Long: `Track a single PID headlessly, printing the clock to stdout.
Exits when the process disappears or on SIGINT/SIGTERM.

Examples:
  timetracker track --pid=4242
  timetracker track --pid=4242 --config=timetracker.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return trackerCommand.Track(*trackFlags)
		},
	}

	cmd.Flags().Int32Var(&trackFlags.PID, "pid", 0, "process id to track (required)")
	if err := cmd.MarkFlagRequired("pid"); err != nil {
		panic(err)
	}
	return cmd
}

// createListCommand creates the list subcommand.
func createListCommand(trackerCommand command, listFlags *ListFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List selectable processes",
		Long: `List visible processes with their PIDs, optionally filtered by a
case-insensitive name substring.

Examples:
  timetracker list
  timetracker list --filter=fire`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return trackerCommand.List(*listFlags)
		},
	}
	cmd.Flags().StringVar(&listFlags.Filter, "filter", "", "case-insensitive name filter")
	return cmd
}

// createHistoryCommand creates the history subcommand.
func createHistoryCommand(trackerCommand command, historyFlags *HistoryFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent session events",
		Long: `Show recent session start/end events from the history database.

Examples:
  timetracker history
  timetracker history --limit=20 --path=timetracker.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return trackerCommand.History(*historyFlags)
		},
	}
	cmd.Flags().IntVar(&historyFlags.Limit, "limit", 20, "maximum events to show")
	cmd.Flags().StringVar(&historyFlags.Path, "path", "", "history database path (defaults to config)")
	return cmd
}
