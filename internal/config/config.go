// Package config resolves runtime settings from defaults, an optional
// TOML or YAML file and CHOREJAR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/sandeepkv93/chorejar/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStatePath = ".chorejar.json"
	DefaultDBPath    = ".chorejar.db"
	EnvConfigPath    = "CHOREJAR_CONFIG"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Storage struct {
	Backend     string `yaml:"backend" toml:"backend"`
	Path        string `yaml:"path" toml:"path"`
	Key         string `yaml:"key" toml:"key"`
	RedisURL    string `yaml:"redis_url" toml:"redis_url"`
	PostgresURL string `yaml:"postgres_url" toml:"postgres_url"`
}

type RuntimeConfig struct {
	Storage              Storage `yaml:"storage" toml:"storage"`
	DesktopNotifications bool    `yaml:"desktop_notifications" toml:"desktop_notifications"`
	// NudgeHour is the local hour of the daily streak reminder; -1 turns it off.
	NudgeHour       int    `yaml:"nudge_hour" toml:"nudge_hour"`
	SchedulerBuffer int    `yaml:"scheduler_buffer" toml:"scheduler_buffer"`
	HTTPAddr        string `yaml:"http_addr" toml:"http_addr"`
	LogLevel        string `yaml:"log_level" toml:"log_level"`
	LogFile         string `yaml:"log_file" toml:"log_file"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Storage: Storage{
			Backend: string(storage.KindFile),
			Key:     storage.DefaultKey,
		},
		DesktopNotifications: false,
		NudgeHour:            18,
		SchedulerBuffer:      64,
		HTTPAddr:             "127.0.0.1:8787",
		LogLevel:             "info",
		LogFile:              "chorejar.log",
	}
}

// Load layers the config file at path (or $CHOREJAR_CONFIG) and then the
// environment over the defaults. An empty path with no env var skips the
// file.
func Load(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if path != "" {
		var err error
		if cfg, err = LoadFile(path, cfg); err != nil {
			return RuntimeConfig{}, err
		}
	}
	cfg = RuntimeConfigFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// LoadFile decodes a .toml, .yaml or .yml file over base. Keys missing from
// the file keep base's values.
func LoadFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuntimeConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := base
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return RuntimeConfig{}, fmt.Errorf("config: parse yaml %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return RuntimeConfig{}, fmt.Errorf("config: parse toml %s: %w", path, err)
		}
	default:
		return RuntimeConfig{}, fmt.Errorf("config: unsupported file extension %q", filepath.Ext(path))
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("CHOREJAR_STORAGE_BACKEND"); ok {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("CHOREJAR_STATE_PATH"); ok {
		cfg.Storage.Path = v
	}
	if v, ok := getEnvString("CHOREJAR_STORAGE_KEY"); ok {
		cfg.Storage.Key = v
	}
	if v, ok := getEnvString("CHOREJAR_REDIS_URL"); ok {
		cfg.Storage.RedisURL = v
	}
	if v, ok := getEnvString("CHOREJAR_POSTGRES_URL"); ok {
		cfg.Storage.PostgresURL = v
	}
	if v, ok := getEnvBool("CHOREJAR_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("CHOREJAR_NUDGE_HOUR"); ok && v >= -1 && v <= 23 {
		cfg.NudgeHour = v
	}
	if v, ok := getEnvInt("CHOREJAR_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvString("CHOREJAR_HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := getEnvString("CHOREJAR_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvString("CHOREJAR_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	if !storage.Kind(c.Storage.Backend).IsValid() {
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	switch storage.Kind(c.Storage.Backend) {
	case storage.KindRedis:
		if strings.TrimSpace(c.Storage.RedisURL) == "" {
			return fmt.Errorf("%w: redis backend needs storage.redis_url", ErrInvalidConfig)
		}
	case storage.KindPostgres:
		if strings.TrimSpace(c.Storage.PostgresURL) == "" {
			return fmt.Errorf("%w: postgres backend needs storage.postgres_url", ErrInvalidConfig)
		}
	}
	if c.NudgeHour < -1 || c.NudgeHour > 23 {
		return fmt.Errorf("%w: nudge_hour %d is outside [-1, 23]", ErrInvalidConfig, c.NudgeHour)
	}
	if c.SchedulerBuffer <= 0 {
		return fmt.Errorf("%w: scheduler_buffer must be positive", ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// StorageOptions maps the storage section onto storage.Options, filling the
// path for file and sqlite backends.
func (c RuntimeConfig) StorageOptions() storage.Options {
	kind := storage.Kind(c.Storage.Backend)
	path := strings.TrimSpace(c.Storage.Path)
	if path == "" {
		switch kind {
		case storage.KindSQLite:
			path = DefaultDBPath
		default:
			path = DefaultStatePath
		}
	}
	return storage.Options{
		Kind:        kind,
		Path:        path,
		Key:         c.Storage.Key,
		RedisURL:    c.Storage.RedisURL,
		PostgresURL: c.Storage.PostgresURL,
	}
}

// NewLogger builds the process logger at the configured level.
func (c RuntimeConfig) NewLogger(w io.Writer) *log.Logger {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "chorejar",
	})
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
