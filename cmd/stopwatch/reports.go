package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/stopwatch/pkg/stopwatch/report"
)

func newReportsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect exported stopwatch reports",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite report database")
	_ = cmd.MarkPersistentFlagRequired("db")

	list := &cobra.Command{
		Use:   "list",
		Short: "List exported reports in export order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(dbPath, func(store report.Store) error {
				return listReports(cmd.OutOrStdout(), store)
			})
		},
	}

	show := &cobra.Command{
		Use:   "show BATCH_ID",
		Short: "Print one exported report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(dbPath, func(store report.Store) error {
				return showReport(cmd.OutOrStdout(), store, args[0])
			})
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func withStore(path string, fn func(report.Store) error) error {
	store, err := report.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func listReports(out io.Writer, store report.Store) error {
	infos, err := store.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(out, "no reports")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tLABEL\tCREATED\tENTRIES")
	for _, info := range infos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n",
			info.Sequence, info.ID, info.Label, info.CreatedAt.Format(time.RFC3339), info.Entries)
	}
	return tw.Flush()
}

func showReport(out io.Writer, store report.Store, id string) error {
	b, err := store.Load(id)
	if err != nil {
		return fmt.Errorf("report %s: %w", id, err)
	}

	fmt.Fprintf(out, "report %s", b.ID)
	if b.Label != "" {
		fmt.Fprintf(out, " (%s)", b.Label)
	}
	fmt.Fprintf(out, " created %s total %s\n", b.CreatedAt.Format(time.RFC3339), b.Total())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tELAPSED\tLAPS")
	for _, e := range b.Entries {
		state := "stopped"
		if e.Running {
			state = "running"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\n", e.ID, state, e.Elapsed, e.Laps)
	}
	return tw.Flush()
}
