package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the root configuration of the studyplan service.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Planner  PlannerConfig  `json:"planner"`
	Narrator NarratorConfig `json:"narrator"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// ServerConfig holds the API listener settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `json:"path"`
}

func (c *DatabaseConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "studyplan.db"
	}
}

// PlannerConfig bounds the planning horizon accepted at the API boundary.
type PlannerConfig struct {
	DefaultHorizonDays int `json:"default_horizon_days"`
	MaxHorizonDays     int `json:"max_horizon_days"`
}

func (c *PlannerConfig) SetDefaults() {
	if c.DefaultHorizonDays == 0 {
		c.DefaultHorizonDays = 7
	}
	if c.MaxHorizonDays == 0 {
		c.MaxHorizonDays = 14
	}
}

// Validate checks the horizon bounds.
func (c PlannerConfig) Validate() error {
	if c.DefaultHorizonDays < 1 || c.MaxHorizonDays < 1 {
		return fmt.Errorf("horizon days must be positive")
	}
	if c.DefaultHorizonDays > c.MaxHorizonDays {
		return fmt.Errorf("default horizon %d exceeds maximum %d", c.DefaultHorizonDays, c.MaxHorizonDays)
	}
	return nil
}

// NarratorConfig configures the external narration call. The API key is
// usually supplied through the SP_NARRATOR__API_KEY environment variable.
type NarratorConfig struct {
	APIKey         string `json:"api_key"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func (c *NarratorConfig) SetDefaults() {
	if c.Model == "" {
		c.Model = "gemini-2.5-flash-lite"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
}

// MetricsConfig selects the metrics sinks.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}

// Validate checks that enabled sinks carry their mandatory settings.
func (c MetricsConfig) Validate() error {
	if c.InfluxEnabled && c.InfluxURL == "" {
		return fmt.Errorf("influx_url is required when the influx sink is enabled")
	}
	return nil
}

// Load reads the configuration file (JSON or YAML by extension) and applies
// environment overrides with the SP_ prefix, e.g. SP_SERVER__ADDR.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("SP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Database.SetDefaults()
	cfg.Planner.SetDefaults()
	cfg.Narrator.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Planner.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
