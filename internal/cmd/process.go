package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/gohotfolder/internal/observability"
	"github.com/3leaps/gohotfolder/pkg/filename"
	"github.com/3leaps/gohotfolder/pkg/history"
	"github.com/3leaps/gohotfolder/pkg/job"
	"github.com/3leaps/gohotfolder/pkg/output"
	"github.com/3leaps/gohotfolder/pkg/routing"
)

var (
	processJob      jobFlags
	processFilename string
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Name a print file and copy it to the hotfolder and art archive",
	Long: `Process a print file: generate its filename from the job attributes, copy it
into the printer hotfolder subfolder chosen by the routing rules (or Default),
and copy it to the client's art folder when art copy is enabled and the client
has a mapping.

The command succeeds when the file reached at least one destination. Each run
is recorded in the processing history unless history.enabled is false.

Examples:
  gohotfolder process art.pdf --client "Acme" --printer S60 --job-suffix 1001 --finish Matte
  gohotfolder process banner.pdf --preset "Banner Standard" --client Acme --printer Canon
  gohotfolder process art.pdf --job-file job.yaml -o jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processJob.register(processCmd)
	processCmd.Flags().StringVar(&processFilename, "filename", "", "Use this filename instead of generating one")
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	started := time.Now()

	source, err := filepath.Abs(args[0])
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid file path", err)
	}
	if _, err := os.Stat(source); err != nil {
		return exitError(foundry.ExitFileNotFound, "Source file not found", err)
	}

	j, err := processJob.build()
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid job", err)
	}
	j.FilePath = source

	st, _ := loadSettings()
	engine := newEngine(st)

	name := processFilename
	if name == "" {
		order, include, _ := st.FilenameComponents()
		name = filename.New().Generate(j.FilenameData(), order, include)
	}

	runID := newRunID()
	var w *output.JSONLWriter
	if jsonlOutput() {
		w = output.NewJSONLWriter(cmd.OutOrStdout(), runID, recordSource)
		defer func() { _ = w.Close() }()
	}

	if issues := routing.ValidateSubmission(j, name); len(issues) > 0 {
		if w != nil {
			_ = w.WriteError(ctx, errorRecord(output.ErrCodeInvalidJob, "job validation failed", source, issues))
		} else {
			for _, issue := range issues {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "  -", issue)
			}
		}
		return exitError(foundry.ExitInvalidArgument, "Job validation failed", fmt.Errorf("%d issue(s)", len(issues)))
	}

	res := engine.ProcessFile(ctx, source, name, j)
	recordHistory(runID, source, j, res, started)

	if w != nil {
		if err := w.WriteProcess(ctx, res); err != nil {
			return exitError(foundry.ExitFileWriteError, "Failed to write output", err)
		}
		var failed int64
		if !res.Success {
			failed = 1
		}
		d := time.Since(started)
		_ = w.WriteSummary(ctx, &output.SummaryRecord{
			Command:       "process",
			Total:         1,
			Succeeded:     1 - failed,
			Failed:        failed,
			Duration:      d,
			DurationHuman: d.Round(time.Millisecond).String(),
		})
	} else {
		printProcessResult(cmd, res)
	}

	if !res.Success {
		return exitError(foundry.ExitFileWriteError, "Processing failed", fmt.Errorf("%s", firstNonEmpty(res.Error, res.Hotfolder.Error, res.ArtCopy.Error)))
	}
	return nil
}

func recordHistory(runID, source string, j *job.Job, res routing.ProcessResult, started time.Time) {
	store := historyStore()
	if store == nil {
		return
	}
	rec := history.NewRecord(runID, source, j, res, started, time.Now())
	if err := store.Write(rec); err != nil {
		observability.CLILogger.Warn("Failed to record history", zap.Error(err))
		return
	}
	observability.CLILogger.Debug("History recorded", zap.String("run_id", runID))
}

func printProcessResult(cmd *cobra.Command, res routing.ProcessResult) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Filename:  %s\n", res.Filename)
	if res.Hotfolder.Success {
		_, _ = fmt.Fprintf(out, "Hotfolder: ok     %s\n", filepath.Join(res.Hotfolder.Path, res.Filename))
	} else {
		_, _ = fmt.Fprintf(out, "Hotfolder: failed %s\n", res.Hotfolder.Error)
	}
	switch {
	case !res.ArtCopy.Applied():
		_, _ = fmt.Fprintln(out, "Art copy:  skipped")
	case res.ArtCopy.Succeeded():
		_, _ = fmt.Fprintf(out, "Art copy:  ok     %s\n", filepath.Join(res.ArtCopy.Path, res.Filename))
	default:
		_, _ = fmt.Fprintf(out, "Art copy:  failed %s\n", res.ArtCopy.Error)
	}
	switch {
	case res.PageCount > 0 && res.PageSize != "":
		_, _ = fmt.Fprintf(out, "Pages:     %d (%s in)\n", res.PageCount, res.PageSize)
	case res.PageCount > 0:
		_, _ = fmt.Fprintf(out, "Pages:     %d\n", res.PageCount)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return "no destination succeeded"
}
