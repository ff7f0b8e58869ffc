package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/stopwatch/pkg/stopwatch"
	"github.com/randalmurphal/stopwatch/pkg/stopwatch/config"
	"github.com/randalmurphal/stopwatch/pkg/stopwatch/report"
)

type runFlags struct {
	configPath  string
	workers     int
	laps        int
	lapInterval time.Duration
	prefix      string
	idPattern   string
	export      string
	label       string
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Time concurrent workers, each with its own named stopwatch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSettings(flags.configPath)
			if err != nil {
				return err
			}
			s = flags.apply(cmd, s)
			if err := s.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), s, flags.label)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "YAML or JSON settings file")
	f.IntVarP(&flags.workers, "workers", "w", 0, "number of concurrent workers")
	f.IntVarP(&flags.laps, "laps", "l", 0, "laps recorded by each worker")
	f.DurationVar(&flags.lapInterval, "lap-interval", 0, "wait between laps")
	f.StringVarP(&flags.prefix, "prefix", "p", "", "stopwatch id prefix")
	f.StringVar(&flags.idPattern, "id-pattern", "", "stopwatch id pattern using ${prefix} and ${worker}")
	f.StringVarP(&flags.export, "export", "e", "", "SQLite database to export the report to")
	f.StringVar(&flags.label, "label", "", "label stored with the exported report")
	return cmd
}

// apply overrides settings with flags the user set explicitly.
func (rf runFlags) apply(cmd *cobra.Command, s config.Settings) config.Settings {
	f := cmd.Flags()
	if f.Changed("workers") {
		s.Workers = rf.workers
	}
	if f.Changed("laps") {
		s.Laps = rf.laps
	}
	if f.Changed("lap-interval") {
		s.LapInterval = rf.lapInterval
	}
	if f.Changed("prefix") {
		s.Prefix = rf.prefix
	}
	if f.Changed("id-pattern") {
		s.IDPattern = rf.idPattern
	}
	if f.Changed("export") {
		s.ExportPath = rf.export
	}
	return s
}

func run(ctx context.Context, out, errOut io.Writer, s config.Settings, label string) error {
	logger, err := newLogger(errOut, s)
	if err != nil {
		return err
	}
	pattern, err := s.Pattern()
	if err != nil {
		return err
	}

	tel := setupTelemetry(s, logger)
	defer func() {
		if err := tel.shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	factory := stopwatch.NewFactory(
		stopwatch.WithLogger(logger),
		stopwatch.WithMetrics(s.Metrics),
		stopwatch.WithTracing(s.Tracing),
	)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := range s.Workers {
		id, err := pattern.Expand(map[string]any{"prefix": s.Prefix, "worker": i})
		if err != nil {
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runWorker(ctx, factory, id, s.Laps, s.LapInterval); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}

	snaps := factory.Snapshots()
	if err := printSnapshots(out, snaps); err != nil {
		return err
	}

	if s.ExportPath != "" {
		if err := exportReport(out, s.ExportPath, report.New(label, snaps)); err != nil {
			return err
		}
	}

	return tel.report(ctx, out)
}

// runWorker creates its stopwatch and records laps. The final lap is closed
// by Stop so every worker ends with exactly laps recorded laps.
func runWorker(ctx context.Context, f *stopwatch.Factory, id string, laps int, interval time.Duration) error {
	sw, err := f.CreateContext(ctx, id)
	if err != nil {
		return err
	}
	if laps == 0 {
		return nil
	}

	if err := sw.Start(); err != nil {
		return err
	}
	for i := 1; i <= laps; i++ {
		select {
		case <-ctx.Done():
			_ = sw.Stop()
			return ctx.Err()
		case <-time.After(interval):
		}

		if i < laps {
			err = sw.Lap()
		} else {
			err = sw.Stop()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func printSnapshots(out io.Writer, snaps []stopwatch.Snapshot) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tLAPS\tELAPSED")
	for _, snap := range snaps {
		state := "stopped"
		if snap.Running {
			state = "running"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", snap.ID, state, len(snap.Laps), snap.Elapsed)
	}
	return tw.Flush()
}

func exportReport(out io.Writer, path string, b *report.Batch) error {
	store, err := report.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(b); err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	fmt.Fprintf(out, "exported report %s (%d stopwatches) to %s\n", b.ID, len(b.Entries), path)
	return nil
}

func newLogger(w io.Writer, s config.Settings) (*slog.Logger, error) {
	level, err := s.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch s.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}
