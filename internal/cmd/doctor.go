package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/gohotfolder/internal/observability"
	"github.com/3leaps/gohotfolder/pkg/filename"
	"github.com/3leaps/gohotfolder/pkg/settings"
)

var doctorClient string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long: `Check the settings document and every folder it points at: the hotfolder root,
each active printer's folder, the art root and the history directory.

Examples:
  gohotfolder doctor
  gohotfolder doctor --client "Acme"   # also check one client's art folder`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVar(&doctorClient, "client", "", "Also check this client's art folder mapping")
}

type doctorCheck struct {
	name string
	run  func() (detail string, ok bool)
}

func dirCheck(path string) (string, bool) {
	if path == "" {
		return "not set", false
	}
	info, err := os.Stat(path)
	if err != nil {
		return err.Error(), false
	}
	if !info.IsDir() {
		return path + " is not a directory", false
	}
	return path, true
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	cfg := currentConfig()
	store := settingsStore()

	st, readErr := store.Read()
	if st == nil {
		st = settings.Defaults()
	}

	checks := []doctorCheck{
		{"environment", func() (string, bool) {
			return fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH), true
		}},
		{"settings document", func() (string, bool) {
			if readErr != nil {
				return readErr.Error(), false
			}
			if extra := st.ExtraKeys(); len(extra) > 0 {
				return fmt.Sprintf("%s (unknown keys kept: %s)", store.Path(), strings.Join(extra, ", ")), true
			}
			return store.Path(), true
		}},
		{"filename order", func() (string, bool) {
			var unknown []string
			for _, key := range st.Order {
				if !filename.IsComponent(key) {
					unknown = append(unknown, key)
				}
			}
			if len(unknown) > 0 {
				return "unknown components: " + strings.Join(unknown, ", "), false
			}
			return fmt.Sprintf("%d components", len(st.Order)), true
		}},
		{"hotfolder root", func() (string, bool) { return dirCheck(st.HotfolderRoot) }},
	}

	for _, name := range st.ActivePrinters() {
		folder := st.PrinterFolderName(name)
		checks = append(checks, doctorCheck{"printer " + name, func() (string, bool) {
			if st.HotfolderRoot == "" {
				return "hotfolder root not set", false
			}
			return dirCheck(filepath.Join(st.HotfolderRoot, folder))
		}})
	}

	if st.EnableArtCopy {
		checks = append(checks, doctorCheck{"art root", func() (string, bool) { return dirCheck(st.ArtRootPath) }})
	}
	if cfg.History.Enabled {
		checks = append(checks, doctorCheck{"history directory", func() (string, bool) {
			if err := os.MkdirAll(cfg.History.Dir, 0o755); err != nil {
				return err.Error(), false
			}
			return cfg.History.Dir, true
		}})
	}
	if doctorClient != "" {
		checks = append(checks, doctorCheck{"client " + doctorClient, func() (string, bool) {
			path, ok := st.ClientArtFolders[doctorClient]
			if !ok {
				return "no art folder mapping", false
			}
			return dirCheck(path)
		}})
	}

	_, _ = fmt.Fprintln(out, "Running diagnostic checks...")
	failed := 0
	for i, c := range checks {
		detail, ok := c.run()
		mark := "✅"
		if !ok {
			mark = "❌"
			failed++
			observability.CLILogger.Warn("Check failed", zap.String("check", c.name), zap.String("detail", detail))
		}
		_, _ = fmt.Fprintf(out, "[%d/%d] Checking %s... %s %s\n", i+1, len(checks), c.name, mark, detail)
	}

	_, _ = fmt.Fprintln(out)
	if failed > 0 {
		_, _ = fmt.Fprintf(out, "⚠️  %d of %d checks failed. Review the output above for details.\n", failed, len(checks))
		return exitError(foundry.ExitFileNotFound, "Diagnostics failed", fmt.Errorf("%d check(s) failed", failed))
	}
	_, _ = fmt.Fprintln(out, "✅ All checks passed!")
	return nil
}
