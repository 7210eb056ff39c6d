package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Store reads and writes one settings document on disk.
//
// The file is JSON unless its extension is .yaml or .yml. Saves always write
// indented JSON, which is also valid YAML.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore returns a store for path. A nil logger discards output.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: strings.TrimSpace(path), logger: logger}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the stored document merged over defaults. It never fails:
// any read, parse or validation error is logged and defaults are returned.
func (s *Store) Load() *Settings {
	st, err := s.Read()
	if err != nil {
		s.logger.Warn("Settings could not be loaded; using defaults",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return Defaults()
	}
	return st
}

// Read is the strict form of Load. A missing file yields defaults.
func (s *Store) Read() (*Settings, error) {
	if s.path == "" {
		return nil, errors.New("settings path is empty")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied reading settings: %s", s.path)
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.New("settings file is empty")
	}

	jsonData, err := toJSON(data, s.path)
	if err != nil {
		return nil, err
	}
	if err := ValidateRaw(jsonData); err != nil {
		return nil, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("settings must be an object: %w", err)
	}

	st := Defaults()
	if err := st.merge(doc); err != nil {
		return nil, err
	}
	return st, nil
}

// Save writes st atomically: a temp file in the same directory is written
// then renamed over the target.
func (s *Store) Save(st *Settings) error {
	if st == nil {
		return errors.New("settings is nil")
	}
	if s.path == "" {
		return errors.New("settings path is empty")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp settings file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename settings file: %w", err)
	}

	s.logger.Debug("Settings saved", zap.String("path", s.path))
	return nil
}

func toJSON(data []byte, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML in settings: %w", err)
		}
		out, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("convert settings to JSON: %w", err)
		}
		return out, nil
	default:
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON in settings: %w", err)
		}
		return data, nil
	}
}
