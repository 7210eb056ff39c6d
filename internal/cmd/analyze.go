package cmd

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/gohotfolder/internal/observability"
	"github.com/3leaps/gohotfolder/pkg/report"
	"github.com/3leaps/gohotfolder/pkg/routing"
)

var analyzeXLSX string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <printer>",
	Short: "Report how well a printer's routing rules cover its folders",
	Long: `Compare a printer's routing rules with the subfolders of its hotfolder.

Each folder is reported as mapped (a rule targets it), auto-detected (no rule,
but attributes can be guessed from its name) or unmapped. Folders targeted by
more than one rule are flagged, rules are graded by how many criteria they
carry, and media groups or job types that no rule references are listed as
coverage gaps.

Examples:
  gohotfolder analyze S60
  gohotfolder analyze S60 --xlsx s60-routing.xlsx
  gohotfolder analyze S60 -o jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "Also write the analysis as an Excel workbook to this path")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	printer := args[0]

	st, _ := loadSettings()
	engine := newEngine(st)

	folders, err := engine.PrinterFolders(ctx, printer, nil)
	if err != nil {
		return exitError(foundry.ExitFileNotFound, "Cannot list printer folders", err)
	}
	a := engine.AnalyzeRoutingSetup(printer, folders)

	if analyzeXLSX != "" {
		if err := report.SaveAnalysisXLSX(analyzeXLSX, a, st.RoutingRulesFor(printer)); err != nil {
			return exitError(foundry.ExitFileWriteError, "Failed to write workbook", err)
		}
		observability.CLILogger.Info("Workbook written", zap.String("path", analyzeXLSX))
	}

	if jsonlOutput() {
		w := newRecordWriter(cmd)
		defer func() { _ = w.Close() }()
		return w.WriteAnalysis(ctx, a)
	}
	return printAnalysis(cmd, a)
}

func printAnalysis(cmd *cobra.Command, a routing.Analysis) error {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Printer: %s\nFolders: %d   Rules: %d\n", a.Printer, a.TotalFolders, a.TotalRules)
	_, _ = fmt.Fprintf(out, "Rule quality: %d good, %d fair, %d poor\n\n", a.RuleQuality.Good, a.RuleQuality.Fair, a.RuleQuality.Poor)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "FOLDER\tSTATUS\tRULES\tDETECTED")
	for _, fi := range a.MappedFolders {
		_, _ = fmt.Fprintf(tw, "%s\tmapped\t%d\t%s\n", fi.Folder, fi.Rules, attrText(fi.Detected))
	}
	for _, fi := range a.AutoDetectedFolders {
		_, _ = fmt.Fprintf(tw, "%s\tauto-detected\t0\t%s\n", fi.Folder, attrText(fi.Detected))
	}
	for _, name := range a.UnmappedFolders {
		_, _ = fmt.Fprintf(tw, "%s\tunmapped\t0\t\n", name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(a.ConflictingRules) > 0 {
		_, _ = fmt.Fprintln(out, "\nConflicts:")
		for _, c := range a.ConflictingRules {
			_, _ = fmt.Fprintf(out, "  %s is targeted by %d rules\n", c.Folder, c.RuleCount)
		}
	}
	if len(a.CoverageGaps) > 0 {
		_, _ = fmt.Fprintln(out, "\nCoverage gaps:")
		for _, g := range a.CoverageGaps {
			_, _ = fmt.Fprintf(out, "  %s\n", g.Description)
		}
	}
	return nil
}

func attrText(attrs map[string]string) string {
	if len(attrs) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+attrs[k])
	}
	return strings.Join(parts, ", ")
}
