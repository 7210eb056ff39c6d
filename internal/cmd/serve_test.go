package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/gohotfolder/pkg/history"
	"github.com/3leaps/gohotfolder/pkg/settings"
)

func TestSettingsHealthChecker(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing document is healthy", func(t *testing.T) {
		checker := settingsHealthChecker{store: settings.NewStore(filepath.Join(dir, "none.json"), nil)}
		assert.NoError(t, checker.CheckHealth(context.Background()))
	})

	t.Run("unparseable document fails", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		checker := settingsHealthChecker{store: settings.NewStore(path, nil)}
		assert.Error(t, checker.CheckHealth(context.Background()))
	})
}

func TestHistoryHealthChecker(t *testing.T) {
	t.Run("disabled history is healthy", func(t *testing.T) {
		assert.NoError(t, historyHealthChecker{}.CheckHealth(context.Background()))
	})

	t.Run("creates the directory", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "runs")
		checker := historyHealthChecker{store: history.NewStore(root)}

		require.NoError(t, checker.CheckHealth(context.Background()))
		assert.DirExists(t, root)
	})

	t.Run("fails when a file blocks the directory", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "runs")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))

		checker := historyHealthChecker{store: history.NewStore(blocker)}
		err := checker.CheckHealth(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "history dir")
	})
}
