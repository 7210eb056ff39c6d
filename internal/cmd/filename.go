package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/3leaps/gohotfolder/pkg/filename"
)

var filenameJob jobFlags

var filenameCmd = &cobra.Command{
	Use:   "filename",
	Short: "Generate, validate and inspect print filenames",
}

var filenameGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the filename for a job",
	Long: `Generate the filename for a job using the component order and inclusion
flags from the settings document.

Examples:
  gohotfolder filename generate --client "Acme Corp" --job-suffix 1001 --size 24x36 --qty 5`,
	Args: cobra.NoArgs,
	RunE: runFilenameGenerate,
}

var filenameValidateCmd = &cobra.Command{
	Use:   "validate <name>",
	Short: "Check a filename for characters and patterns that break copies",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilenameValidate,
}

var filenameSanitizeCmd = &cobra.Command{
	Use:   "sanitize <text>",
	Short: "Clean text for use as a filename component",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), filename.SanitizeComponent(args[0]))
		return err
	},
}

var filenameAnalyzeCmd = &cobra.Command{
	Use:   "analyze <name>",
	Short: "Validate a filename and guess what each part is",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilenameAnalyze,
}

func init() {
	rootCmd.AddCommand(filenameCmd)
	filenameCmd.AddCommand(filenameGenerateCmd, filenameValidateCmd, filenameSanitizeCmd, filenameAnalyzeCmd)
	filenameJob.register(filenameGenerateCmd)
}

func runFilenameGenerate(cmd *cobra.Command, _ []string) error {
	j, err := filenameJob.build()
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid job", err)
	}
	st, _ := loadSettings()
	order, include, _ := st.FilenameComponents()

	name := filename.New().Generate(j.FilenameData(), order, include)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
	return err
}

func runFilenameValidate(cmd *cobra.Command, args []string) error {
	ok, issues := filename.Validate(args[0])
	out := cmd.OutOrStdout()
	if ok {
		_, _ = fmt.Fprintln(out, "valid")
		return nil
	}
	for _, issue := range issues {
		_, _ = fmt.Fprintln(out, "-", issue)
	}
	return exitError(foundry.ExitInvalidArgument, "Invalid filename", fmt.Errorf("%d issue(s)", len(issues)))
}

func runFilenameAnalyze(cmd *cobra.Command, args []string) error {
	a := filename.Analyze(args[0])
	out := cmd.OutOrStdout()

	if jsonlOutput() {
		enc := json.NewEncoder(out)
		return enc.Encode(a)
	}

	status := "valid"
	if !a.IsValid {
		status = "invalid: " + strings.Join(a.Issues, "; ")
	}
	_, _ = fmt.Fprintf(out, "%s (%s)\n\n", a.Filename, status)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tVALUE\tTYPE")
	for _, c := range a.Components {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", c.Index+1, c.Value, filename.DisplayName(c.Type))
	}
	return tw.Flush()
}
