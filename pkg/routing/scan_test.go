package routing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/gohotfolder/pkg/match"
	"github.com/3leaps/gohotfolder/pkg/settings"
)

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, n), 0o755))
	}
}

func TestListFolders(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "S60", "Canon", ".trash", "_old")
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), nil, 0o644))

	got, err := ListFolders(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Canon", "S60", "_old"}, got)

	filter, err := match.NewFolderFilter(match.FolderConfig{Excludes: []string{"_*"}})
	require.NoError(t, err)
	got, err = ListFolders(context.Background(), root, filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"Canon", "S60"}, got)

	_, err = ListFolders(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrRootNotSet)
}

func TestScanPrinters(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "S60", "Mimaki")

	st := settings.Defaults()
	st.HotfolderRoot = root
	e := New(st)

	scan, err := e.ScanPrinters(context.Background(), nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mimaki", "S60"}, scan.Folders)
	assert.Equal(t, []string{"Mimaki"}, scan.Added)
	assert.ElementsMatch(t, []string{"Canon", "Jetson", "S40"}, scan.Missing)
	assert.Contains(t, st.Printers, "Canon")

	scan, err = e.ScanPrinters(context.Background(), nil, true)
	require.NoError(t, err)
	assert.Empty(t, scan.Added)
	assert.Equal(t, []string{"Mimaki", "S60"}, st.PrinterFolders())
}

func TestPrinterFolders(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "S60/Matte", "S60/Default", "S60/.hidden")

	st := settings.Defaults()
	st.HotfolderRoot = root

	got, err := New(st).PrinterFolders(context.Background(), "S60", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Default", "Matte"}, got)
}

func TestScanClientFolders(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "Acme_Corp_Art", "Other")

	st := settings.Defaults()
	st.ArtRootPath = root
	st.ClientList = []string{"Acme Corp", "Zzz"}
	e := New(st)

	scan, err := e.ScanClientFolders(context.Background(), nil, false)
	require.NoError(t, err)
	require.Contains(t, scan.Matches, "Acme Corp")
	assert.NotContains(t, scan.Matches, "Zzz")
	assert.Empty(t, st.ClientArtFolders)

	scan, err = e.ScanClientFolders(context.Background(), nil, true)
	require.NoError(t, err)
	assert.True(t, scan.Applied)
	assert.Equal(t, filepath.Join(root, "Acme_Corp_Art"), st.ClientArtFolders["Acme Corp"])
}
