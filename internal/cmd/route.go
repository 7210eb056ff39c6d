package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/3leaps/gohotfolder/pkg/routing"
)

var routeJob jobFlags

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Show where a job would be routed (dry run)",
	Long: `Evaluate the routing rules for a job without copying anything. Every
matching rule is listed; the winner is the highest priority match, and
earlier rules win ties.

Examples:
  gohotfolder route --printer S60 --finish Matte --set bleed=Bleed`,
	Args: cobra.NoArgs,
	RunE: runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeJob.register(routeCmd)
}

func runRoute(cmd *cobra.Command, _ []string) error {
	j, err := routeJob.build()
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid job", err)
	}
	if j.Printer == "" {
		return exitError(foundry.ExitInvalidArgument, "Printer is required", fmt.Errorf("pass --printer"))
	}

	st, _ := loadSettings()
	res := newEngine(st).TestJobRouting(j)

	if jsonlOutput() {
		w := newRecordWriter(cmd)
		defer func() { _ = w.Close() }()
		return w.WriteRouting(cmd.Context(), res)
	}

	out := cmd.OutOrStdout()
	target := res.TargetFolder
	if !res.Success {
		target = routing.DefaultFolder + " (no rule matched)"
	}
	_, _ = fmt.Fprintf(out, "Printer: %s\nTarget:  %s\n", res.Printer, target)
	if len(res.MatchingRules) == 0 {
		return nil
	}

	_, _ = fmt.Fprintln(out, "\nMatching rules:")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tTARGET\tPRIORITY\tCRITERIA")
	rules := st.RoutingRulesFor(j.Printer)
	for _, m := range res.MatchingRules {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.Index+1, m.TargetFolder, m.Priority, rules[m.Index].CriteriaText())
	}
	return tw.Flush()
}
