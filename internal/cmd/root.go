// Package cmd implements the gohotfolder command line.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/gohotfolder/internal/config"
	"github.com/3leaps/gohotfolder/internal/observability"
	"github.com/3leaps/gohotfolder/pkg/history"
	"github.com/3leaps/gohotfolder/pkg/output"
	"github.com/3leaps/gohotfolder/pkg/routing"
	"github.com/3leaps/gohotfolder/pkg/settings"
)

// Output formats.
const (
	outputText  = "text"
	outputJSONL = "jsonl"
)

var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{Version: "dev", Commit: "none", BuildDate: "unknown"}

// SetVersionInfo records build metadata injected by main.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var (
	cfgFile      string
	settingsPath string
	logLevel     string
	logFormat    string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "gohotfolder",
	Short: "Route print jobs into printer hotfolders",
	Long: `gohotfolder names print files from job attributes and copies them into the
right printer hotfolder subfolder, following per-printer routing rules. A second
copy can go to the client's art archive.

Configuration is read from the config file, GOHOTFOLDER_* environment
variables (a .env file in the working directory is honoured) and flags. The
print shop settings (printers, media, clients, rules) live in a separate
settings document; see --settings.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initRuntime,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: <user config dir>/gohotfolder/config.yaml)")
	pf.StringVar(&settingsPath, "settings", "", "Settings document path (overrides settings.path)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: console or json")
	pf.StringVarP(&outputFormat, "output", "o", outputText, "Output format: text or jsonl")
}

// buildOverrides maps explicitly set persistent flags onto config keys.
func buildOverrides(cmd *cobra.Command) map[string]any {
	overrides := map[string]any{}
	logging := map[string]any{}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		logging["level"] = logLevel
	}
	if flags.Changed("log-format") {
		logging["format"] = logFormat
	}
	if len(logging) > 0 {
		overrides["logging"] = logging
	}
	if flags.Changed("settings") {
		overrides["settings"] = map[string]any{"path": settingsPath}
	}
	return overrides
}

func initRuntime(cmd *cobra.Command, _ []string) error {
	if outputFormat != outputText && outputFormat != outputJSONL {
		return exitError(foundry.ExitInvalidArgument, "Invalid --output value", fmt.Errorf("expected %s or %s, got %q", outputText, outputJSONL, outputFormat))
	}

	config.SetConfigFile(cfgFile)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(ctx, buildOverrides(cmd))
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid configuration", err)
	}

	observability.InitCLILogger(cfg.Logging.Level, cfg.Logging.JSON())
	observability.CLILogger.Debug("Configuration loaded",
		zap.String("settings", cfg.Settings.Path),
		zap.String("history", cfg.History.Dir),
	)
	return nil
}

// exitCodeError carries the process exit code for a failed command.
type exitCodeError struct {
	code    int
	message string
	err     error
}

func (e *exitCodeError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s (exit code %d)", e.message, e.code)
	}
	return fmt.Sprintf("%s: %v (exit code %d)", e.message, e.err, e.code)
}

func (e *exitCodeError) Unwrap() error { return e.err }

func exitError(code int, message string, err error) error {
	return &exitCodeError{code: code, message: message, err: err}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var ec *exitCodeError
	if errors.As(err, &ec) {
		observability.CLILogger.Error(ec.message, zap.Error(ec.err), zap.Int("exit_code", ec.code))
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		return ec.code
	}
	_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
	return foundry.ExitInvalidArgument
}

func currentConfig() *config.Config {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg
	}
	cfg, err := config.Load(context.Background())
	if err != nil {
		observability.CLILogger.Warn("Falling back to default configuration", zap.Error(err))
		return &config.Config{}
	}
	return cfg
}

func settingsStore() *settings.Store {
	return settings.NewStore(currentConfig().Settings.Path, observability.CLILogger)
}

// loadSettings returns the settings document for read-only commands; an
// unreadable document falls back to defaults with a warning.
func loadSettings() (*settings.Settings, *settings.Store) {
	store := settingsStore()
	return store.Load(), store
}

// readSettings returns the settings document for commands that write it
// back. Errors are fatal so a damaged file is never overwritten.
func readSettings() (*settings.Settings, *settings.Store, error) {
	store := settingsStore()
	st, err := store.Read()
	if err != nil {
		return nil, nil, exitError(foundry.ExitFileReadError, "Failed to read settings", err)
	}
	return st, store, nil
}

func saveSettings(store *settings.Store, st *settings.Settings) error {
	if err := store.Save(st); err != nil {
		return exitError(foundry.ExitFileWriteError, "Failed to save settings", err)
	}
	observability.CLILogger.Debug("Settings saved", zap.String("path", store.Path()))
	return nil
}

func newEngine(st *settings.Settings) *routing.Engine {
	return routing.New(st, routing.WithLogger(observability.CLILogger))
}

func historyStore() *history.Store {
	cfg := currentConfig()
	if !cfg.History.Enabled {
		return nil
	}
	return history.NewStore(cfg.History.Dir)
}

func jsonlOutput() bool {
	return outputFormat == outputJSONL
}

func newRunID() string {
	return uuid.NewString()
}

// recordSource tags JSONL records written by the command line.
const recordSource = "cli"

// newRecordWriter returns a JSONL writer on stdout tagged with a fresh run ID.
func newRecordWriter(cmd *cobra.Command) *output.JSONLWriter {
	return output.NewJSONLWriter(cmd.OutOrStdout(), newRunID(), recordSource)
}

func errorRecord(code, message, path string, details any) *output.ErrorRecord {
	return &output.ErrorRecord{Code: code, Message: message, Path: path, Details: details}
}

// writeJSONLines writes each item as one bare JSON object per line.
func writeJSONLines[T any](cmd *cobra.Command, items []T) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}
