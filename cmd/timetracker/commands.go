package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	timetracker "github.com/Psychloor/TimeTracker"
)

// command carries shared state into the subcommand handlers.
type command struct {
	global *GlobalFlags
}

// loadConfig resolves the effective configuration and installs logging.
func (c command) loadConfig() (*timetracker.Config, error) {
	cfg := timetracker.DefaultConfig()
	if c.global.ConfigPath != "" {
		loaded, err := timetracker.LoadConfig(c.global.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.global.LogLevel != "" {
		cfg.Log.Level = c.global.LogLevel
	}
	timetracker.SetupLogging(cfg.Log)
	return cfg, nil
}

// buildTracker wires the engine with hooks, metrics, and the optional
// control server from cfg. The returned cleanup closes what was opened.
func (c command) buildTracker(cfg *timetracker.Config) (*timetracker.Tracker, func(), error) {
	tr := timetracker.New()
	tr.SetInterval(cfg.Interval)

	var sink timetracker.HistorySink
	if cfg.History.Enabled {
		s, err := timetracker.OpenSQLiteHistory(cfg.History.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open history %s: %w", cfg.History.Path, err)
		}
		sink = s
	}
	tr.SetHooks(timetracker.ObservabilityHooks(sink))

	if cfg.Metrics.Enabled {
		if err := timetracker.RegisterMetricsDefault(); err != nil {
			slog.Warn("metrics registration failed", "error", err)
		}
		go func() {
			if err := timetracker.ServeMetrics(cfg.Metrics.Listen); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	var closers []func()
	if sink != nil {
		closers = append(closers, func() { _ = sink.Close() })
	}
	if cfg.Server.Enabled {
		srv, err := timetracker.NewHTTPServer(cfg.Server.Listen, cfg.Server.BasePath, tr)
		if err != nil {
			for _, f := range closers {
				f()
			}
			return nil, nil, fmt.Errorf("start control server: %w", err)
		}
		slog.Info("control server listening", "addr", cfg.Server.Listen, "base", cfg.Server.BasePath)
		closers = append(closers, func() { _ = srv.Close() })
	}

	cleanup := func() {
		tr.Shutdown()
		for _, f := range closers {
			f()
		}
	}
	return tr, cleanup, nil
}

// Run starts the interactive terminal UI.
func (c command) Run() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	tr, cleanup, err := c.buildTracker(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	program := tea.NewProgram(timetracker.NewTUI(tr), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// Track runs headless tracking of a single PID until the process
// disappears or a termination signal arrives.
func (c command) Track(flags TrackFlags) error {
	if flags.PID <= 0 {
		return fmt.Errorf("invalid pid %d", flags.PID)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	tr, cleanup, err := c.buildTracker(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr.StartSession(flags.PID)
	fmt.Printf("Tracking pid %d (ctrl-c to stop)\n", flags.PID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Printf("\r%s\n", tr.DurationText())
			return nil
		case <-ticker.C:
			fmt.Printf("\r%s", tr.DurationText())
			if tr.SessionEnded() {
				fmt.Printf("\nprocess %d is gone\n", flags.PID)
				return nil
			}
		}
	}
}

// List prints selectable processes to stdout.
func (c command) List(flags ListFlags) error {
	if _, err := c.loadConfig(); err != nil {
		return err
	}
	entries, err := timetracker.ListProcesses(flags.Filter)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PID\tNAME")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%d\t%s\n", e.PID, e.Name)
	}
	return w.Flush()
}

// History prints recent session events.
func (c command) History(flags HistoryFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	path := flags.Path
	if path == "" {
		path = cfg.History.Path
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	events, err := timetracker.RecentHistory(ctx, path, flags.Limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tEVENT\tPID\tREASON\tDURATION")
	for _, e := range events {
		reason := e.Reason
		if reason == "" {
			reason = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			e.OccurredAt.Local().Format(time.RFC3339),
			e.Type, e.PID, reason, timetracker.FormatDuration(e.Duration))
	}
	return w.Flush()
}
