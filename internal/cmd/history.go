package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/3leaps/gohotfolder/pkg/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past processing runs",
	Long: `Every 'process' run (and every API process request) is recorded as
<history.dir>/<run_id>/run.json unless history.enabled is false.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run_id>",
	Short: "Show the full record for a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd)
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Show at most N runs (0 = all)")
}

func requireHistory() (*history.Store, error) {
	store := historyStore()
	if store == nil {
		return nil, exitError(foundry.ExitInvalidArgument, "History is disabled", errors.New("set history.enabled to true"))
	}
	return store, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	runs, err := store.List()
	if err != nil {
		return exitError(foundry.ExitFileReadError, "Failed to read history", err)
	}
	if historyLimit > 0 && len(runs) > historyLimit {
		runs = runs[:historyLimit]
	}

	if jsonlOutput() {
		return writeJSONLines(cmd, runs)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN ID\tSTARTED\tSTATE\tPRINTER\tCLIENT\tFILENAME")
	for _, r := range runs {
		client := r.Client
		if client == "" {
			client = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.RunID,
			r.StartedAt.Local().Format(time.DateTime),
			r.State,
			r.Printer,
			client,
			r.Filename,
		)
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	rec, err := store.Get(args[0])
	if errors.Is(err, history.ErrNotFound) {
		return exitError(foundry.ExitFileNotFound, "Run not found", err)
	}
	if err != nil {
		return exitError(foundry.ExitFileReadError, "Failed to read run", err)
	}

	if jsonlOutput() {
		return writeJSONLines(cmd, []*history.RunRecord{rec})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
