package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/3leaps/gohotfolder/pkg/filename"
	"github.com/3leaps/gohotfolder/pkg/rule"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	s := Defaults()

	assert.Equal(t, []string{"Client A", "Client B", "Client C"}, s.ClientList)
	assert.Equal(t, []string{"Canon", "Jetson", "S40", "S60"}, s.PrinterFolders())
	assert.Equal(t, []string{"Roll", "Flatbed"}, s.Printers["Canon"].Types)
	assert.Equal(t, []string{"Glossy", "Matte", "Satin"}, s.MediaConfig["Vinyl"])
	assert.True(t, s.EnableArtCopy)
	assert.True(t, s.ShowPanel)
	assert.Equal(t, filename.Components, s.Order)
	for _, c := range filename.Components {
		assert.True(t, s.IncludeVars[c], c)
	}
	assert.Empty(t, s.RoutingRules)
	assert.Empty(t, s.HotfolderRoot)
}

func TestDefaults_AreIndependent(t *testing.T) {
	a := Defaults()
	a.ClientList[0] = "changed"
	a.Order[0] = "changed"

	b := Defaults()
	assert.Equal(t, "Client A", b.ClientList[0])
	assert.Equal(t, filename.JobNumber, b.Order[0])
	assert.Equal(t, filename.JobNumber, filename.Components[0])
}

func TestStoreRead_MissingFileReturnsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"), nil)

	s, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, Defaults().ClientList, s.ClientList)
}

func TestStoreRead_MergesOverDefaults(t *testing.T) {
	path := writeFile(t, "settings.json", `{
  "client_list": ["Acme Corp"],
  "hotfolder_root": "/hot",
  "routing_rules": {
    "Canon": [{"target_folder": "Vinyl", "criteria": {"Media Group": "Vinyl"}}]
  }
}`)

	s, err := NewStore(path, nil).Read()
	require.NoError(t, err)

	assert.Equal(t, []string{"Acme Corp"}, s.ClientList)
	assert.Equal(t, "/hot", s.HotfolderRoot)
	// Keys not in the file keep their defaults.
	assert.Len(t, s.Printers, 4)
	assert.True(t, s.EnableArtCopy)

	rules := s.RoutingRulesFor("Canon")
	require.Len(t, rules, 1)
	assert.Equal(t, rule.PriorityNormal, rules[0].Priority)
}

func TestStoreRead_StoredValueReplacesWholeKey(t *testing.T) {
	path := writeFile(t, "settings.json", `{"media_config": {"Fabric": ["Satin"]}}`)

	s, err := NewStore(path, nil).Read()
	require.NoError(t, err)
	assert.Equal(t, MediaConfig{"Fabric": {"Satin"}}, s.MediaConfig)
}

func TestStoreRead_PrinterActiveDefaultsTrue(t *testing.T) {
	path := writeFile(t, "settings.json", `{"printers": {
  "Mimaki": {"display_name": "Mimaki JV", "types": ["Roll"]},
  "Old": {"display_name": "Old", "types": ["Roll"], "active": false}
}}`)

	s, err := NewStore(path, nil).Read()
	require.NoError(t, err)
	assert.True(t, s.Printers["Mimaki"].Active)
	assert.False(t, s.Printers["Old"].Active)
	assert.Equal(t, []string{"Mimaki JV"}, s.ActivePrinters())
}

func TestStoreRead_YAML(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
hotfolder_root: /srv/hot
enable_art_copy: false
client_art_folders:
  Acme Corp: /srv/art/Acme_Corp_Art
`)

	s, err := NewStore(path, nil).Read()
	require.NoError(t, err)
	assert.Equal(t, "/srv/hot", s.HotfolderRoot)
	assert.False(t, s.ArtCopyEnabled())
	assert.Equal(t, "/srv/art/Acme_Corp_Art", s.ClientArtFolders["Acme Corp"])
}

func TestStoreRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "empty",
			file:    "settings.json",
			content: "  \n",
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "empty")
			},
		},
		{
			name:    "invalid json",
			file:    "settings.json",
			content: "{not json",
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "invalid JSON")
			},
		},
		{
			name:    "schema violation",
			file:    "settings.json",
			content: `{"printers": "Canon"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrValidationFailed))
				var verrs ValidationErrors
				require.True(t, errors.As(err, &verrs))
				assert.NotEmpty(t, verrs)
			},
		},
		{
			name:    "bad printer type",
			file:    "settings.json",
			content: `{"printers": {"Canon": {"display_name": "Canon", "types": ["Sheet"]}}}`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrValidationFailed))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := NewStore(path, nil).Read()
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestStoreLoad_FallsBackToDefaultsAndWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	path := writeFile(t, "settings.json", "{broken")

	s := NewStore(path, zap.New(core)).Load()

	assert.Equal(t, Defaults().ClientList, s.ClientList)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, path, logs.All()[0].ContextMap()["path"])
}

func TestStoreSave_RoundTripPreservesUnknownKeys(t *testing.T) {
	path := writeFile(t, "settings.json", `{"window_geometry": "800x600", "theme": {"dark": true}}`)
	store := NewStore(path, nil)

	s, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"theme", "window_geometry"}, s.ExtraKeys())

	s.HotfolderRoot = "/hot"
	s.AddRoutingRule("S60", rule.New("Banner", map[string]string{"Media Group": "Banner"}))
	require.NoError(t, store.Save(s))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "800x600", doc["window_geometry"])
	assert.Equal(t, map[string]any{"dark": true}, doc["theme"])

	again, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "/hot", again.HotfolderRoot)
	require.Len(t, again.RoutingRulesFor("S60"), 1)
	assert.Equal(t, "Banner", again.RoutingRulesFor("S60")[0].TargetFolder)
	assert.Equal(t, s.ExtraKeys(), again.ExtraKeys())
}

func TestStoreSave_CreatesDirectoryAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "conf")
	store := NewStore(filepath.Join(dir, "settings.json"), nil)

	require.NoError(t, store.Save(Defaults()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "settings.json", entries[0].Name())
}

func TestGetSet(t *testing.T) {
	s := Defaults()

	v, ok := s.Get(KeyHotfolderRoot)
	require.True(t, ok)
	assert.Equal(t, "", v)

	require.NoError(t, s.Set(KeyHotfolderRoot, "/hot"))
	assert.Equal(t, "/hot", s.HotfolderRoot)

	require.NoError(t, s.Set("custom_flag", 3))
	v, ok = s.Get("custom_flag")
	require.True(t, ok)
	assert.Equal(t, float64(3), v)

	assert.Error(t, s.Set(KeyEnableArtCopy, "yes please"))

	_, ok = s.Get("nope")
	assert.False(t, ok)
}

func TestSet_ReplacesWholeMap(t *testing.T) {
	s := Defaults()

	require.NoError(t, s.Set(KeyPrinters, map[string]any{
		"Mimaki": map[string]any{"display_name": "Mimaki JV", "types": []string{"Roll"}},
	}))
	assert.Equal(t, []string{"Mimaki JV"}, s.ActivePrinters())

	require.NoError(t, s.Set(KeyIncludeVars, map[string]bool{"client": false}))
	assert.Equal(t, map[string]bool{"client": false}, s.IncludeVars)

	require.NoError(t, s.Set(KeyClientArtFolders, nil))
	assert.NotNil(t, s.ClientArtFolders)
	assert.Empty(t, s.ClientArtFolders)
}
