// Package config resolves tourplan settings from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL = "http://localhost:5000"
	DefaultShareURL   = "http://localhost:3000/itinerary-results"
	DefaultTimeout    = 60 * time.Second
)

type Config struct {
	APIBaseURL string        `yaml:"api_base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	// RPS paces calls to the API; zero disables pacing.
	RPS float64 `yaml:"rps"`

	HandoffDB  string        `yaml:"handoff_db"`
	RedisAddr  string        `yaml:"redis_addr"`
	HandoffTTL time.Duration `yaml:"handoff_ttl"`

	AssetsFile  string `yaml:"assets_file"`
	ShareURL    string `yaml:"share_url"`
	DownloadDir string `yaml:"download_dir"`

	AppEnv      string `yaml:"app_env"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Dir is the per-user directory for tourplan state.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "tourplan")
}

func Defaults() Config {
	dir := Dir()
	return Config{
		APIBaseURL:  DefaultAPIBaseURL,
		Timeout:     DefaultTimeout,
		RPS:         10,
		HandoffDB:   filepath.Join(dir, "handoff.db"),
		ShareURL:    DefaultShareURL,
		DownloadDir: ".",
		AppEnv:      "prod",
		LogLevel:    "info",
		LogFile:     filepath.Join(dir, "tourplan.log"),
	}
}

// Load builds the configuration. A missing file at path is not an error;
// an empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(k string, dst *string) {
		if v := os.Getenv(k); v != "" {
			*dst = v
		}
	}
	str("TOURPLAN_API_BASE_URL", &c.APIBaseURL)
	str("TOURPLAN_HANDOFF_DB", &c.HandoffDB)
	str("TOURPLAN_REDIS_ADDR", &c.RedisAddr)
	str("TOURPLAN_ASSETS", &c.AssetsFile)
	str("TOURPLAN_SHARE_URL", &c.ShareURL)
	str("TOURPLAN_DOWNLOAD_DIR", &c.DownloadDir)
	str("APP_ENV", &c.AppEnv)
	str("LOG_LEVEL", &c.LogLevel)
	str("METRICS_ADDR", &c.MetricsAddr)

	if v := os.Getenv("TOURPLAN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			// bare numbers are seconds
			n, nerr := strconv.Atoi(v)
			if nerr != nil {
				return fmt.Errorf("TOURPLAN_TIMEOUT: %w", err)
			}
			d = time.Duration(n) * time.Second
		}
		c.Timeout = d
	}
	if v := os.Getenv("TOURPLAN_RPS"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TOURPLAN_RPS: %w", err)
		}
		c.RPS = n
	}
	return nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RPS < 0 {
		return fmt.Errorf("rps must not be negative, got %v", c.RPS)
	}
	if c.RedisAddr == "" && c.HandoffDB == "" {
		return errors.New("either handoff_db or redis_addr is required")
	}
	return nil
}

// UsesRedis reports whether the handoff slot lives in Redis instead of the
// local SQLite file.
func (c Config) UsesRedis() bool { return c.RedisAddr != "" }
