// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Broker describes how to reach the brokerage gateway sidecar.
type Broker struct {
	BaseURL   string `yaml:"base_url"`
	StreamURL string `yaml:"stream_url"`
	Exchange  string `yaml:"exchange"`
	Currency  string `yaml:"currency"`
	ClientID  int    `yaml:"client_id"`
}

// Strategy groups the tunable knobs of the pivot detection pipeline.
type Strategy struct {
	HistoryLookbackSecs int     `yaml:"history_lookback_secs"`
	Alpha               float64 `yaml:"alpha"`
	CorrelationStrength float64 `yaml:"correlation_strength"`
}

// Trading groups order construction and sizing parameters.
type Trading struct {
	Profit          float64 `yaml:"profit"`
	Risk            float64 `yaml:"risk"`
	MaximumOrder    float64 `yaml:"maximum_order"`
	WaitForFillSecs int     `yaml:"wait_for_fill_secs"`
	CooldownSecs    int     `yaml:"cooldown_secs"`
}

// Pivots selects and parameterizes the pivot/settings source.
type Pivots struct {
	Mode            string `yaml:"mode"` // "sheets" or "file"
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	File            string `yaml:"file"`
}

// Recorder configures the optional SQLite trade journal.
type Recorder struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Notifier configures the optional Telegram push channel. The bot token is
// taken from the environment, never from the YAML file.
type Notifier struct {
	ChatID string `yaml:"chat_id"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Broker   Broker   `yaml:"broker"`
	Strategy Strategy `yaml:"strategy"`
	Trading  Trading  `yaml:"trading"`
	Pivots   Pivots   `yaml:"pivots"`
	Recorder Recorder `yaml:"recorder"`
	Notifier Notifier `yaml:"notifier"`
}

const (
	defaultCooldownSecs = 120
	defaultBarSizeSecs  = 30
)

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Trading.CooldownSecs <= 0 {
		c.Trading.CooldownSecs = defaultCooldownSecs
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Pivots.Mode == "" {
		c.Pivots.Mode = "file"
	}
}

func (c *Config) validate() error {
	if c.Strategy.HistoryLookbackSecs < defaultBarSizeSecs*2 {
		return fmt.Errorf("history_lookback_secs must cover at least two 30s candles, got %d", c.Strategy.HistoryLookbackSecs)
	}
	if c.Strategy.Alpha <= 0 {
		return fmt.Errorf("alpha must be positive, got %g", c.Strategy.Alpha)
	}
	if c.Strategy.CorrelationStrength <= 0 || c.Strategy.CorrelationStrength >= 1 {
		return fmt.Errorf("correlation_strength must be in (0, 1), got %g", c.Strategy.CorrelationStrength)
	}
	if c.Trading.Profit <= 0 || c.Trading.Risk <= 0 {
		return fmt.Errorf("profit and risk fractions must be positive")
	}
	if c.Trading.MaximumOrder <= 0 {
		return fmt.Errorf("maximum_order must be positive, got %g", c.Trading.MaximumOrder)
	}
	if c.Trading.WaitForFillSecs <= 0 {
		return fmt.Errorf("wait_for_fill_secs must be positive, got %d", c.Trading.WaitForFillSecs)
	}
	return nil
}

// WindowSize returns the rolling window capacity implied by the lookback.
func (c *Config) WindowSize() int {
	return c.Strategy.HistoryLookbackSecs / defaultBarSizeSecs
}
