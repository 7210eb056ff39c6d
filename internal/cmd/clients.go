package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/gohotfolder/internal/observability"
	"github.com/3leaps/gohotfolder/pkg/match"
	"github.com/3leaps/gohotfolder/pkg/output"
)

var (
	clientsApply   bool
	clientsInclude []string
	clientsExclude []string
	clientsHidden  bool
	clientsArtPath string
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients and their art folders",
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients and their art folder mappings",
	Args:  cobra.NoArgs,
	RunE:  runClientsList,
}

var clientsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a client, optionally mapping its art folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runClientsAdd,
}

var clientsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a client and its art folder mapping",
	Args:  cobra.ExactArgs(1),
	RunE:  runClientsRemove,
}

var clientsScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Match unmapped clients to folders under the art root",
	Long: `List the folders under art_root_path and match each client without an art
folder to the folder whose name is most similar (ratio above 0.6). Matches are
only saved with --apply.

Examples:
  gohotfolder clients scan
  gohotfolder clients scan --exclude "_archive*" --apply`,
	Args: cobra.NoArgs,
	RunE: runClientsScan,
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	clientsCmd.AddCommand(clientsListCmd, clientsAddCmd, clientsRemoveCmd, clientsScanCmd)

	clientsAddCmd.Flags().StringVar(&clientsArtPath, "art-folder", "", "Absolute path of the client's art folder")

	f := clientsScanCmd.Flags()
	f.BoolVar(&clientsApply, "apply", false, "Save the matches to settings")
	f.StringArrayVar(&clientsInclude, "include", nil, "Only consider folders matching this glob; repeatable")
	f.StringArrayVar(&clientsExclude, "exclude", nil, "Skip folders matching this glob; repeatable")
	f.BoolVar(&clientsHidden, "include-hidden", false, "Consider hidden folders")
}

func runClientsList(cmd *cobra.Command, _ []string) error {
	st, _ := loadSettings()
	if jsonlOutput() {
		type row struct {
			Client    string `json:"client"`
			ArtFolder string `json:"art_folder,omitempty"`
		}
		rows := make([]row, 0, len(st.ClientList))
		for _, c := range st.ClientList {
			rows = append(rows, row{Client: c, ArtFolder: st.ClientArtFolders[c]})
		}
		return writeJSONLines(cmd, rows)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CLIENT\tART FOLDER")
	for _, c := range st.ClientList {
		folder := st.ClientArtFolders[c]
		if folder == "" {
			folder = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", c, folder)
	}
	return tw.Flush()
}

func runClientsAdd(cmd *cobra.Command, args []string) error {
	st, store, err := readSettings()
	if err != nil {
		return err
	}
	added := st.AddClient(args[0])
	if clientsArtPath != "" {
		st.SetClientArtFolder(args[0], clientsArtPath)
	}
	if !added && clientsArtPath == "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Client %s already exists\n", args[0])
		return nil
	}
	if err := saveSettings(store, st); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved client %s\n", args[0])
	return nil
}

func runClientsRemove(cmd *cobra.Command, args []string) error {
	st, store, err := readSettings()
	if err != nil {
		return err
	}
	if !st.RemoveClient(args[0]) {
		return exitError(foundry.ExitInvalidArgument, "Unknown client", fmt.Errorf("%q is not in the client list", args[0]))
	}
	if err := saveSettings(store, st); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed client %s\n", args[0])
	return nil
}

func runClientsScan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	filter, err := match.NewFolderFilter(match.FolderConfig{
		Includes:      clientsInclude,
		Excludes:      clientsExclude,
		IncludeHidden: clientsHidden,
	})
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid folder pattern", err)
	}

	st, store := loadSettings()
	if clientsApply {
		if st, store, err = readSettings(); err != nil {
			return err
		}
	}

	scan, err := newEngine(st).ScanClientFolders(ctx, filter, clientsApply)
	if err != nil {
		return exitError(foundry.ExitFileNotFound, "Cannot scan art root", err)
	}
	if clientsApply && len(scan.Matches) > 0 {
		if err := saveSettings(store, st); err != nil {
			return err
		}
		observability.CLILogger.Info("Client art folders updated", zap.Int("matched", len(scan.Matches)))
	}

	clients := make([]string, 0, len(scan.Matches))
	for c := range scan.Matches {
		clients = append(clients, c)
	}
	sort.Strings(clients)

	if jsonlOutput() {
		w := newRecordWriter(cmd)
		defer func() { _ = w.Close() }()
		for _, c := range clients {
			m := scan.Matches[c]
			rec := &output.MatchRecord{Client: c, Folder: m.Folder, Ratio: m.Ratio, FullPath: m.FullPath, Applied: scan.Applied}
			if err := w.WriteMatch(ctx, rec); err != nil {
				return exitError(foundry.ExitFileWriteError, "Failed to write output", err)
			}
		}
		return nil
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Scanned %d folder(s) under %s\n", len(scan.Folders), st.ArtRootPath)
	if len(clients) == 0 {
		_, _ = fmt.Fprintln(out, "No new client matches")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CLIENT\tFOLDER\tRATIO")
	for _, c := range clients {
		m := scan.Matches[c]
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%.2f\n", c, m.Folder, m.Ratio)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !scan.Applied {
		_, _ = fmt.Fprintln(out, "\nDry run; pass --apply to save these mappings")
	}
	return nil
}
