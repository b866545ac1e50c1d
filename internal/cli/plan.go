package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	sfio "github.com/matzehuels/stationflow/pkg/io"
	"github.com/matzehuels/stationflow/pkg/model"
	"github.com/matzehuels/stationflow/pkg/pathplan"
	"github.com/matzehuels/stationflow/pkg/pipeline"
)

type planFlags struct {
	dryRun  bool
	output  string
	refresh bool
}

// planCommand creates the plan command for computing transporter paths.
func (c *CLI) planCommand() *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:   "plan MODEL",
		Short: "Plan waypoint paths between all stations",
		Long: `Plan finds a path for every ordered pair of stations over the declared
connections. Each waypoint on a found path receives an assignment naming
the route's origin, destination and the waypoint's 1-based position on
that path. Existing assignments are replaced.

The planning log is printed to stdout. With --dry-run the model is left
unchanged and nothing is written.`,
		Example: `  stationflow plan plant.json
  stationflow plan plant.json --dry-run
  stationflow plan plant.yaml -o plant.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the planning log without writing assignments")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: MODEL.planned.EXT)")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached plans")

	return cmd
}

func (c *CLI) runPlan(cmd *cobra.Command, input string, flags planFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	prog := newProgress(loggerFromContext(ctx))

	m, err := sfio.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Plan(ctx, m, pipeline.PlanOptions{DryRun: flags.dryRun, Refresh: flags.refresh})
	if err != nil {
		return err
	}

	for _, name := range res.Undeclared {
		printWarning(out, "Unknown station %q in connections", name)
	}
	for _, line := range res.Log {
		fmt.Fprintln(out, line)
	}
	for _, r := range res.Undrawn {
		printWarning(out, "No drawn connection between %s and %s", nodeLabel(m, r.Origin), nodeLabel(m, r.Destination))
	}
	prog.done(fmt.Sprintf("Planned %d routes", len(res.Plan.Routes)))

	printStats(out, []string{
		fmt.Sprintf("%d stations", len(res.Plan.Stations)),
		fmt.Sprintf("%d unresolved", res.Plan.Unresolved()),
	}, res.CacheHit, res.Duration)

	if flags.dryRun {
		printInfo(out, "Dry run, model not written")
		return nil
	}

	output := flags.output
	if output == "" {
		output = defaultOutput(input, "planned")
	}
	if err := sfio.WriteFile(m, output); err != nil {
		return err
	}
	printSuccess(out, "Committed %d waypoint assignments", res.Committed)
	printFile(out, output)
	return nil
}

func nodeLabel(m *model.Model, id int) string {
	if n, ok := m.Node(id); ok {
		return n.Label()
	}
	return fmt.Sprintf("#%d", id)
}

// segmentsCommand creates the segments command listing declared hops.
func (c *CLI) segmentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "segments MODEL",
		Short: "List the declared origin -> next hop segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sfio.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			b, undeclared := pathplan.FromModel(m)
			for _, name := range undeclared {
				printWarning(out, "Unknown station %q in connections", name)
			}
			for _, seg := range b.Segments() {
				fmt.Fprintln(out, seg.String())
			}
			return nil
		},
	}
}
