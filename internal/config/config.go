// Package config provides configuration management for sitereport using Viper.
package config

import (
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/errors"
	"github.com/mhollis/sitereport/internal/paths"
	"github.com/mhollis/sitereport/internal/report"
)

// AppName is the application name used for config file naming.
const AppName = "sitereport"

// Config represents the top-level configuration structure.
type Config struct {
	// Output is the path the rendered report is written to, overwritten
	// on each run.
	Output string `mapstructure:"output" yaml:"output"`

	// Inventory is the path to the site inventory (site.toml).
	Inventory string `mapstructure:"inventory" yaml:"inventory"`

	// ProbeTimeout bounds each individual check's query.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`

	// DialTimeout bounds the initial connection attempts.
	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`

	// Thresholds are the named numeric boundaries for classification.
	Thresholds check.Thresholds `mapstructure:"thresholds" yaml:"thresholds"`

	// Styles optionally overrides the status palette, keyed by status
	// name (healthy, warning, critical, manual, unknown).
	Styles map[string]report.Style `mapstructure:"styles" yaml:"styles,omitempty"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// A .env next to the working directory feeds the environment before
	// viper reads it. Missing files are fine.
	_ = godotenv.Load()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.ConfigHome())

	// Environment variable support
	viper.SetEnvPrefix("SITEREPORT")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("output", filepath.Join(paths.DataHome(), "report.html"))
	viper.SetDefault("inventory", filepath.Join(paths.ConfigHome(), "site.toml"))
	viper.SetDefault("probe_timeout", check.DefaultProbeTimeout)
	viper.SetDefault("dial_timeout", 10*time.Second)

	th := check.DefaultThresholds()
	viper.SetDefault("thresholds.cpu_percent", th.CPUPercent)
	viper.SetDefault("thresholds.memory_percent", th.MemoryPercent)
	viper.SetDefault("thresholds.disk_free_percent", th.DiskFreePercent)
	viper.SetDefault("thresholds.database_free_percent", th.DatabaseFreePercent)
	viper.SetDefault("thresholds.eval_seconds", th.EvalSeconds)
	viper.SetDefault("thresholds.active_client_percent", th.ActiveClientPercent)
	viper.SetDefault("thresholds.cache_hit_percent", th.CacheHitPercent)
	viper.SetDefault("thresholds.backup_age_hours", th.BackupAgeHours)
	viper.SetDefault("thresholds.bus_rtt_millis", th.BusRTTMillis)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, errors.Newf("config file not found at %s", path)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for values no run could work with.
func (c *Config) Validate() error {
	if c.Output == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "output path is empty")
	}
	if c.Inventory == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "inventory path is empty")
	}
	if c.ProbeTimeout <= 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "probe_timeout must be positive")
	}
	if c.DialTimeout <= 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "dial_timeout must be positive")
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if _, err := c.StyleMap(); err != nil {
		return err
	}
	return nil
}

// StyleMap resolves the status palette: the defaults overlaid with any
// configured overrides. Unknown status names are rejected rather than
// ignored.
func (c *Config) StyleMap() (report.StyleMap, error) {
	styles := report.DefaultStyles()

	for name, override := range c.Styles {
		var status check.Status
		if err := status.UnmarshalText([]byte(name)); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "styles: %v", err)
		}
		merged := styles[status]
		if override.Label != "" {
			merged.Label = override.Label
		}
		if override.Color != "" {
			merged.Color = override.Color
		}
		styles[status] = merged
	}

	if err := styles.Validate(); err != nil {
		return nil, err
	}
	return styles, nil
}
