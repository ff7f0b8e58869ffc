// Command stopwatch runs concurrent named stopwatches and manages exported
// timing reports.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "stopwatch",
		Short:        "Named stopwatches with a concurrency-safe registry",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newReportsCmd())
	return root
}
