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
)

var printersPrune bool

var printersCmd = &cobra.Command{
	Use:   "printers",
	Short: "List and discover printers",
}

var printersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured printers",
	Args:  cobra.NoArgs,
	RunE:  runPrintersList,
}

var printersScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Sync the printer table with folders under the hotfolder root",
	Long: `List the folders under hotfolder_root and add every unknown folder as an
active roll printer. Printers whose folder no longer exists are reported; they
are removed only with --prune. The settings document is saved when anything
changed.`,
	Args: cobra.NoArgs,
	RunE: runPrintersScan,
}

func init() {
	rootCmd.AddCommand(printersCmd)
	printersCmd.AddCommand(printersListCmd, printersScanCmd)
	printersScanCmd.Flags().BoolVar(&printersPrune, "prune", false, "Remove printers whose folder is missing")
}

func runPrintersList(cmd *cobra.Command, _ []string) error {
	st, _ := loadSettings()

	folders := make([]string, 0, len(st.Printers))
	for f := range st.Printers {
		folders = append(folders, f)
	}
	sort.Strings(folders)

	if jsonlOutput() {
		type row struct {
			Folder      string   `json:"folder"`
			DisplayName string   `json:"display_name"`
			Types       []string `json:"types"`
			Active      bool     `json:"active"`
			Rules       int      `json:"rules"`
		}
		rows := make([]row, 0, len(folders))
		for _, f := range folders {
			p := st.Printers[f]
			rows = append(rows, row{Folder: f, DisplayName: p.DisplayName, Types: p.Types, Active: p.Active, Rules: len(st.RoutingRulesFor(p.DisplayName))})
		}
		return writeJSONLines(cmd, rows)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "FOLDER\tDISPLAY NAME\tTYPES\tACTIVE\tRULES")
	for _, f := range folders {
		p := st.Printers[f]
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\n", f, p.DisplayName, strings.Join(p.Types, ","), p.Active, len(st.RoutingRulesFor(p.DisplayName)))
	}
	return tw.Flush()
}

func runPrintersScan(cmd *cobra.Command, _ []string) error {
	st, store, err := readSettings()
	if err != nil {
		return err
	}

	scan, err := newEngine(st).ScanPrinters(cmd.Context(), nil, printersPrune)
	if err != nil {
		return exitError(foundry.ExitFileNotFound, "Cannot scan hotfolder root", err)
	}

	changed := len(scan.Added) > 0 || (printersPrune && len(scan.Missing) > 0)
	if changed {
		if err := saveSettings(store, st); err != nil {
			return err
		}
		observability.CLILogger.Info("Printer table updated",
			zap.Strings("added", scan.Added),
			zap.Strings("missing", scan.Missing),
			zap.Bool("pruned", printersPrune),
		)
	}

	if jsonlOutput() {
		return writeJSONLines(cmd, []any{scan})
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Found %d printer folder(s) under %s\n", len(scan.Folders), st.HotfolderRoot)
	for _, f := range scan.Added {
		_, _ = fmt.Fprintf(out, "  + %s\n", f)
	}
	for _, f := range scan.Missing {
		if printersPrune {
			_, _ = fmt.Fprintf(out, "  - %s (removed)\n", f)
		} else {
			_, _ = fmt.Fprintf(out, "  ? %s (folder missing; --prune to remove)\n", f)
		}
	}
	if !changed {
		_, _ = fmt.Fprintln(out, "No changes")
	}
	return nil
}
