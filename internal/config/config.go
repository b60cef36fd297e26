// Package config provides configuration management for the dashboard service.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"hisdash/internal/analytics"
	"hisdash/internal/source"
	"hisdash/pkg/utils"
)

// Configuration validation errors.
var (
	ErrSourceMissingTarget  = errors.New("source needs one of url, file or query")
	ErrQueryWithoutDatabase = errors.New("query source requires database.url")
	ErrInvalidSourceURL     = errors.New("source url must be an absolute http(s) link")
	ErrInvalidTimeout       = errors.New("fetch.timeout_sec must be at least 1")
	ErrInvalidBodyLimit     = errors.New("fetch.max_body_mb must be at least 1")
	ErrInvalidConns         = errors.New("database.min_conns cannot exceed database.max_conns")
	ErrInvalidThreshold     = errors.New("analysis.growth_threshold_pct must be non-negative")
	ErrInvalidFloor         = errors.New("analysis floors must be non-negative")
	ErrInvalidTopN          = errors.New("analysis top-N limits and pie_slices must be at least 1")
	ErrInvalidPort          = errors.New("server.port must be between 1 and 65535")
	ErrInvalidUploadLimit   = errors.New("server.max_upload_mb must be at least 1")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("logging.format must be 'json' or 'console'")
)

// EnvPrefix prefixes every environment override, e.g. HISDASH_PORT.
const EnvPrefix = "HISDASH"

// Config represents the complete dashboard configuration.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// DashboardConfig contains every dashboard setting.
type DashboardConfig struct {
	Sources  []SourceConfig `yaml:"sources"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Database DatabaseConfig `yaml:"database"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SourceConfig names a payload to load at startup.
type SourceConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url,omitempty"`
	File    string `yaml:"file,omitempty"`
	Query   string `yaml:"query,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

// Spec converts the entry into a loader spec.
func (s SourceConfig) Spec() source.Spec {
	return source.Spec{Name: s.Name, URL: s.URL, File: s.File, Query: s.Query}
}

// FetchConfig bounds remote spreadsheet fetches.
type FetchConfig struct {
	TimeoutSec int `yaml:"timeout_sec"`
	MaxBodyMB  int `yaml:"max_body_mb"`
}

// GetTimeout returns the timeout duration.
func (f FetchConfig) GetTimeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

// DatabaseConfig points at an optional HIS reporting database.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
	MinConns int32  `yaml:"min_conns"`
}

// AnalysisConfig tunes rollup sizes and alert thresholds.
type AnalysisConfig struct {
	GrowthThresholdPct     float64                  `yaml:"growth_threshold_pct"`
	DiagnosisMinPrevVisits int                      `yaml:"diagnosis_min_prev_visits"`
	ServiceMinPrevCost     float64                  `yaml:"service_min_prev_cost"`
	TopDepartments         int                      `yaml:"top_departments"`
	TopDiagnoses           int                      `yaml:"top_diagnoses"`
	TopServices            int                      `yaml:"top_services"`
	TopDoctors             int                      `yaml:"top_doctors"`
	TopServiceGroups       int                      `yaml:"top_service_groups"`
	PieSlices              int                      `yaml:"pie_slices"`
	VisitTypes             analytics.VisitTypeCodes `yaml:"visit_types"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	MaxUploadMB int      `yaml:"max_upload_mb"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration that runs without a file.
func Default() *Config {
	opts := analytics.DefaultOptions()

	return &Config{
		Dashboard: DashboardConfig{
			Fetch:    FetchConfig{TimeoutSec: 30, MaxBodyMB: 50},
			Database: DatabaseConfig{MaxConns: 4, MinConns: 0},
			Analysis: AnalysisConfig{
				GrowthThresholdPct:     opts.GrowthThresholdPct,
				DiagnosisMinPrevVisits: opts.DiagnosisMinPrevVisits,
				ServiceMinPrevCost:     opts.ServiceMinPrevCost,
				TopDepartments:         opts.TopDepartments,
				TopDiagnoses:           opts.TopDiagnoses,
				TopServices:            opts.TopServices,
				TopDoctors:             opts.TopDoctors,
				TopServiceGroups:       opts.TopServiceGroups,
				PieSlices:              opts.PieSlices,
				VisitTypes:             opts.VisitTypes,
			},
			Server:  ServerConfig{Port: 8080, CORSOrigins: []string{"*"}, MaxUploadMB: 50},
			Logging: LoggingConfig{Level: "info", Format: "json"},
		},
	}
}

// Load reads path when it is non-empty, otherwise starts from Default. Environment
// overrides are applied in both cases before validation.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadConfig(path)
	}

	cfg := Default()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfig loads configuration from a YAML file layered over Default.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from HISDASH_PORT, HISDASH_DATABASE_URL,
// HISDASH_LOG_LEVEL and HISDASH_LOG_FORMAT when they are set.
func (c *Config) ApplyEnv() {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	_ = v.BindEnv("PORT")
	_ = v.BindEnv("DATABASE_URL")
	_ = v.BindEnv("LOG_LEVEL")
	_ = v.BindEnv("LOG_FORMAT")

	if v.IsSet("PORT") {
		c.Dashboard.Server.Port = v.GetInt("PORT")
	}

	if v.IsSet("DATABASE_URL") {
		c.Dashboard.Database.URL = v.GetString("DATABASE_URL")
	}

	if v.IsSet("LOG_LEVEL") {
		c.Dashboard.Logging.Level = v.GetString("LOG_LEVEL")
	}

	if v.IsSet("LOG_FORMAT") {
		c.Dashboard.Logging.Format = v.GetString("LOG_FORMAT")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	d := &c.Dashboard

	for i, src := range d.Sources {
		if src.URL == "" && src.File == "" && src.Query == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingTarget, i)
		}

		if src.URL != "" && !utils.IsValidURL(src.URL) {
			return fmt.Errorf("%w: source[%d]", ErrInvalidSourceURL, i)
		}

		if src.Enabled && src.URL == "" && src.File == "" && d.Database.URL == "" {
			return fmt.Errorf("%w: source[%d]", ErrQueryWithoutDatabase, i)
		}
	}

	if d.Fetch.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if d.Fetch.MaxBodyMB < 1 {
		return ErrInvalidBodyLimit
	}

	if d.Database.MaxConns > 0 && d.Database.MinConns > d.Database.MaxConns {
		return ErrInvalidConns
	}

	a := d.Analysis
	if a.GrowthThresholdPct < 0 {
		return ErrInvalidThreshold
	}

	if a.DiagnosisMinPrevVisits < 0 || a.ServiceMinPrevCost < 0 {
		return ErrInvalidFloor
	}

	for _, n := range []int{a.TopDepartments, a.TopDiagnoses, a.TopServices, a.TopDoctors, a.TopServiceGroups, a.PieSlices} {
		if n < 1 {
			return ErrInvalidTopN
		}
	}

	if d.Server.Port < 1 || d.Server.Port > 65535 {
		return ErrInvalidPort
	}

	if d.Server.MaxUploadMB < 1 {
		return ErrInvalidUploadLimit
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[d.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if d.Logging.Format != "json" && d.Logging.Format != "console" {
		return ErrInvalidLogFormat
	}

	return nil
}

// GetEnabledSources returns only enabled sources.
func (c *Config) GetEnabledSources() []SourceConfig {
	var enabled []SourceConfig

	for _, src := range c.Dashboard.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}

	return enabled
}

// AnalysisOptions converts the analysis section into aggregation options.
func (c *Config) AnalysisOptions() analytics.Options {
	a := c.Dashboard.Analysis

	return analytics.Options{
		GrowthThresholdPct:     a.GrowthThresholdPct,
		DiagnosisMinPrevVisits: a.DiagnosisMinPrevVisits,
		ServiceMinPrevCost:     a.ServiceMinPrevCost,
		TopDepartments:         a.TopDepartments,
		TopDiagnoses:           a.TopDiagnoses,
		TopServices:            a.TopServices,
		TopDoctors:             a.TopDoctors,
		TopServiceGroups:       a.TopServiceGroups,
		PieSlices:              a.PieSlices,
		VisitTypes:             a.VisitTypes,
	}
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d, Port: %d, Database: %t, Log: %s/%s}",
		len(c.Dashboard.Sources),
		c.Dashboard.Server.Port,
		c.Dashboard.Database.URL != "",
		c.Dashboard.Logging.Level,
		c.Dashboard.Logging.Format,
	)
}
