package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/gohotfolder/pkg/job"
	"github.com/3leaps/gohotfolder/pkg/routing"
)

func okResult() routing.ProcessResult {
	return routing.ProcessResult{
		Success:   true,
		Filename:  "TIT1_Acme.pdf",
		Hotfolder: routing.HotfolderResult{Success: true, Path: "/hot/S60/Default", TargetFolder: routing.DefaultFolder},
	}
}

func TestStore_WriteGetRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	j := job.New()
	j.Printer = "S60"
	j.Client = "Acme"
	start := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	rec := NewRecord("run-1", "/in/a.pdf", j, okResult(), start, start.Add(time.Second))

	require.NoError(t, s.Write(rec))

	got, err := s.Get("run-1")
	require.NoError(t, err)
	assert.Equal(t, RunStateSuccess, got.State)
	assert.Equal(t, "TIT1_Acme.pdf", got.Filename)
	assert.Equal(t, "S60", got.Printer)
	assert.Equal(t, "Acme", got.Job.Client)
	assert.Equal(t, routing.DefaultFolder, got.Result.Hotfolder.TargetFolder)
	assert.True(t, got.StartedAt.Equal(start))

	entries, err := os.ReadDir(s.RunDir("run-1"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not survive")
	assert.Equal(t, "run.json", entries[0].Name())
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore(t.TempDir())

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get("../escape")
	assert.Error(t, err)
}

func TestStore_ListSortsNewestFirst(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	t1 := time.Date(2026, 1, 19, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	require.NoError(t, s.Write(&RunRecord{RunID: "run-1", StartedAt: t1}))
	require.NoError(t, s.Write(&RunRecord{RunID: "run-2", StartedAt: t2}))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "broken"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken", "run.json"), []byte("{"), 0o644))

	got, err := s.List()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "run-2", got[0].RunID)
	assert.Equal(t, "run-1", got[1].RunID)
}

func TestStore_ListMissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent"))
	got, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStateOf(t *testing.T) {
	ok, failed := true, false

	res := okResult()
	assert.Equal(t, RunStateSuccess, StateOf(res))

	res.ArtCopy.Success = &failed
	assert.Equal(t, RunStatePartial, StateOf(res))

	res = routing.ProcessResult{Success: true, ArtCopy: routing.ArtCopyResult{Success: &ok}}
	assert.Equal(t, RunStatePartial, StateOf(res))

	assert.Equal(t, RunStateFailed, StateOf(routing.ProcessResult{}))
}
