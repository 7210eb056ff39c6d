package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/3leaps/gohotfolder/pkg/routing"
)

var detectCmd = &cobra.Command{
	Use:   "detect <folder>...",
	Short: "Guess routing criteria from folder names",
	Long: `Scan folder names for keywords (bleed, matte, grommets, vinyl, ...) and print
the routing criteria each name suggests. Nothing is read from disk.

Examples:
  gohotfolder detect "Matte Bleed" "Banner Grommets Corners"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if jsonlOutput() {
		enc := json.NewEncoder(out)
		for _, name := range args {
			if err := enc.Encode(map[string]any{"folder": name, "detected": routing.DetectFolderAttributes(name)}); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range args {
		_, _ = fmt.Fprintf(out, "%s: %s\n", name, attrText(routing.DetectFolderAttributes(name)))
	}
	return nil
}
