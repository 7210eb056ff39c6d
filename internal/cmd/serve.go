package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/gohotfolder/internal/observability"
	"github.com/3leaps/gohotfolder/internal/server"
	"github.com/3leaps/gohotfolder/internal/server/handlers"
	"github.com/3leaps/gohotfolder/pkg/history"
	"github.com/3leaps/gohotfolder/pkg/settings"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the job API over HTTP:

  POST /v1/filename   generate and validate a filename for a job
  POST /v1/route      dry-run routing for a job
  POST /v1/process    name and copy a local file
  GET  /health, /health/live, /health/ready, /version

The settings document is read once at startup. Only one file is processed at
a time; concurrent process requests get 409 BUSY.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (overrides server.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides server.port)")
}

// settingsHealthChecker fails when the settings document cannot be parsed.
// A missing document is healthy; defaults apply.
type settingsHealthChecker struct {
	store *settings.Store
}

func (c settingsHealthChecker) CheckHealth(context.Context) error {
	_, err := c.store.Read()
	return err
}

// historyHealthChecker fails when the history directory cannot be created.
type historyHealthChecker struct {
	store *history.Store
}

func (c historyHealthChecker) CheckHealth(context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := os.MkdirAll(c.store.RootDir(), 0o755); err != nil {
		return fmt.Errorf("history dir: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := currentConfig()
	host := cfg.Server.Host
	if cmd.Flags().Changed("host") {
		host = serveHost
	}
	port := cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	st, store := loadSettings()
	hist := historyStore()

	srv := server.New(host, port,
		server.WithEngine(newEngine(st)),
		server.WithHistory(hist),
		server.WithLogger(observability.CLILogger),
		server.WithVersion(handlers.VersionInfo{
			Version:   versionInfo.Version,
			Commit:    versionInfo.Commit,
			BuildDate: versionInfo.BuildDate,
		}),
		server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout),
	)
	if hm := handlers.GetHealthManager(); hm != nil {
		hm.RegisterChecker("settings", settingsHealthChecker{store: store})
		hm.RegisterChecker("history", historyHealthChecker{store: hist})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.CLILogger.Info("Starting server",
		zap.String("addr", srv.Addr()),
		zap.String("settings", store.Path()),
		zap.Bool("history", hist != nil),
	)
	if err := srv.Run(ctx, cfg.Server.ShutdownTimeout); err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Server failed", err)
	}
	observability.CLILogger.Info("Server stopped")
	return nil
}
