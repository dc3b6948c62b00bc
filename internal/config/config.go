package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type UIConfig struct {
	RefreshIntervalSeconds int    `json:"refresh_interval_seconds"`
	DefaultShortcut        string `json:"default_shortcut"`
	Locale                 string `json:"locale"`
}

type Config struct {
	PanelURL string   `json:"panel_url"`
	UI       UIConfig `json:"ui"`
	Theme    string   `json:"theme"`
}

func DefaultConfig() Config {
	return Config{
		Theme: "Catppuccin Mocha",
		UI: UIConfig{
			RefreshIntervalSeconds: 60,
			DefaultShortcut:        "24h",
			Locale:                 "en",
		},
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "tunneldash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tunneldash")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.UI.RefreshIntervalSeconds <= 0 {
		cfg.UI.RefreshIntervalSeconds = 60
	}
	if cfg.UI.DefaultShortcut == "" {
		cfg.UI.DefaultShortcut = "24h"
	}
	if cfg.UI.Locale == "" {
		cfg.UI.Locale = "en"
	}
	if cfg.Theme == "" {
		cfg.Theme = DefaultConfig().Theme
	}

	return cfg, nil
}

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
