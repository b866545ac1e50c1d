package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stationflow/internal/watcher"
	sfio "github.com/matzehuels/stationflow/pkg/io"
	"github.com/matzehuels/stationflow/pkg/pipeline"
)

// watchCommand creates the watch command that re-plans a model on change.
func (c *CLI) watchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch MODEL",
		Short: "Print a dry-run plan whenever the model file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			out := cmd.OutOrStdout()

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			replan := func(ctx context.Context, path string) {
				if err := c.dryRunPlan(ctx, runner, cmd, path); err != nil {
					printError(out, "%v", err)
				}
			}

			replan(ctx, args[0])
			printInfo(out, "Watching %s (Ctrl-C to stop)", args[0])

			w := watcher.New(args[0], replan).WithDebounce(debounce).WithLogger(logger)
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "wait this long after the last change before re-planning")
	return cmd
}

func (c *CLI) dryRunPlan(ctx context.Context, runner *pipeline.Runner, cmd *cobra.Command, path string) error {
	m, err := sfio.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := runner.Plan(ctx, m, pipeline.PlanOptions{DryRun: true})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range res.Undeclared {
		printWarning(out, "Unknown station %q in connections", name)
	}
	for _, line := range res.Log {
		fmt.Fprintln(out, line)
	}
	printStats(out, []string{
		fmt.Sprintf("%d routes", len(res.Plan.Routes)),
		fmt.Sprintf("%d unresolved", res.Plan.Unresolved()),
	}, res.CacheHit, res.Duration)
	return nil
}
