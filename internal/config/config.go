// Package config loads and saves the cashcal TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/cashcal/internal/model"
)

// Config holds all cashcal configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	CashFlow   CashFlowConfig   `toml:"cashflow"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
}

// GeneralConfig holds input and aggregation preferences.
type GeneralConfig struct {
	DataDir       string `toml:"data_dir,omitempty"`
	DefaultMode   string `toml:"default_mode"`
	DefaultPeriod string `toml:"default_period"`
}

// CashFlowConfig holds scenario defaults.
type CashFlowConfig struct {
	StartingBalance float64 `toml:"starting_balance"`
	DelayDays       int     `toml:"delay_days"`
}

// DaemonConfig holds the background service settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard behavior.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultMode:   model.ModeSum.String(),
			DefaultPeriod: model.PeriodDay.String(),
		},
		CashFlow: CashFlowConfig{
			StartingBalance: 10000,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			IntervalSec:  15,
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashcal")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cashcal")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path over the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.CashFlow.DelayDays = model.ClampDelay(cfg.CashFlow.DelayDays)
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes cfg to path with owner-only permissions.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's own config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// DataDir resolves the input directory: CASHCAL_DATA_DIR, then the config
// value, then ~/cashcal. A leading ~ is expanded.
func DataDir(cfg Config) string {
	dir := os.Getenv("CASHCAL_DATA_DIR")
	if dir == "" {
		dir = cfg.General.DataDir
	}
	home, _ := os.UserHomeDir()
	if dir == "" {
		return filepath.Join(home, "cashcal")
	}
	if dir == "~" {
		return home
	}
	if strings.HasPrefix(dir, "~/") {
		return filepath.Join(home, dir[2:])
	}
	return dir
}

// Mode returns the configured default aggregation mode, falling back to sum.
func (c Config) Mode() model.Mode {
	m, err := model.ParseMode(c.General.DefaultMode)
	if err != nil {
		return model.ModeSum
	}
	return m
}

// Period returns the configured default rollup period, falling back to day.
func (c Config) Period() model.Period {
	p, err := model.ParsePeriod(c.General.DefaultPeriod)
	if err != nil {
		return model.PeriodDay
	}
	return p
}
