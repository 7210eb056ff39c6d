package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	configMu   sync.RWMutex
	appConfig  *Config
	configFile string
	envFiles   = []string{".env"}
)

// EnvSpec maps a short environment variable to a config path.
type EnvSpec struct {
	Name string
	Path string
}

// getEnvSpecs lists the short env names. Every key is also reachable through
// its full name, e.g. GOHOTFOLDER_SERVER_PORT.
func getEnvSpecs() []EnvSpec {
	short := map[string]string{
		"SETTINGS":         "settings.path",
		"LOG_LEVEL":        "logging.level",
		"LOG_FORMAT":       "logging.format",
		"HOST":             "server.host",
		"PORT":             "server.port",
		"READ_TIMEOUT":     "server.read_timeout",
		"WRITE_TIMEOUT":    "server.write_timeout",
		"SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
		"HISTORY_DIR":      "history.dir",
		"HISTORY_ENABLED":  "history.enabled",
	}
	specs := make([]EnvSpec, 0, len(short))
	for name, path := range short {
		specs = append(specs, EnvSpec{Name: EnvPrefix + "_" + name, Path: path})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// SetConfigFile selects an explicit config file for subsequent loads. An
// empty path restores the default search in AppDir().
func SetConfigFile(path string) {
	configMu.Lock()
	defer configMu.Unlock()
	configFile = strings.TrimSpace(path)
}

func setDefaults(v *viper.Viper) {
	appDir := AppDir()

	v.SetDefault("settings.path", filepath.Join(appDir, "settings.json"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("history.dir", filepath.Join(appDir, "history"))
	v.SetDefault("history.enabled", true)
}

// loadEnvFiles seeds the environment from .env files. Variables already set
// win; missing files are ignored.
func loadEnvFiles() error {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds the configuration and makes it the current one for GetConfig.
// Each override is a nested map in config file shape.
func Load(ctx context.Context, overrides ...map[string]any) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	configMu.RLock()
	explicit := configFile
	configMu.RUnlock()

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", explicit, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(AppDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, spec := range getEnvSpecs() {
		if err := v.BindEnv(spec.Path, spec.Name, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(spec.Path, ".", "_"))); err != nil {
			return nil, fmt.Errorf("bind %s: %w", spec.Name, err)
		}
	}

	for _, o := range overrides {
		for key, val := range flatten("", o) {
			v.Set(key, val)
		}
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Settings.Path = expandHome(cfg.Settings.Path)
	cfg.History.Dir = expandHome(cfg.History.Dir)
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configMu.Lock()
	appConfig = &cfg
	configMu.Unlock()
	return &cfg, nil
}

// GetConfig returns the most recently loaded configuration, or nil.
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// Validate rejects values no command can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	if strings.TrimSpace(c.Settings.Path) == "" {
		errs = append(errs, errors.New("settings.path is required"))
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Dir) == "" {
		errs = append(errs, errors.New("history.dir is required when history is enabled"))
	}
	return errors.Join(errs...)
}

func flatten(prefix string, m map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range flatten(key, nested) {
				out[nk] = nv
			}
			continue
		}
		out[key] = v
	}
	return out
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
