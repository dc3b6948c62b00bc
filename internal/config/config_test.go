package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.UI.RefreshIntervalSeconds != 60 {
		t.Errorf("RefreshIntervalSeconds = %d, want 60", cfg.UI.RefreshIntervalSeconds)
	}
	if cfg.UI.DefaultShortcut != "24h" {
		t.Errorf("DefaultShortcut = %q, want 24h", cfg.UI.DefaultShortcut)
	}
	if cfg.UI.Locale != "en" {
		t.Errorf("Locale = %q, want en", cfg.UI.Locale)
	}
}

func TestLoadFromParsesAndValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	raw := `{
		"panel_url": "https://panel.example.com",
		"ui": {"refresh_interval_seconds": -5, "default_shortcut": "1w", "locale": "fa"}
	}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.PanelURL != "https://panel.example.com" {
		t.Errorf("PanelURL = %q", cfg.PanelURL)
	}
	if cfg.UI.RefreshIntervalSeconds != 60 {
		t.Errorf("invalid interval not reset: %d", cfg.UI.RefreshIntervalSeconds)
	}
	if cfg.UI.DefaultShortcut != "1w" {
		t.Errorf("DefaultShortcut = %q, want 1w", cfg.UI.DefaultShortcut)
	}
	if cfg.UI.Locale != "fa" {
		t.Errorf("Locale = %q, want fa", cfg.UI.Locale)
	}
}

func TestLoadFromMalformedFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if cfg.UI.RefreshIntervalSeconds != DefaultConfig().UI.RefreshIntervalSeconds {
		t.Errorf("expected defaults on parse failure, got %+v", cfg)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	cfg := DefaultConfig()
	cfg.PanelURL = "https://panel.example.com"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.PanelURL != cfg.PanelURL {
		t.Errorf("PanelURL = %q, want %q", loaded.PanelURL, cfg.PanelURL)
	}
}

func TestCredentialsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	if err := SaveTokenTo(path, "https://panel.example.com", "tok-123"); err != nil {
		t.Fatalf("SaveTokenTo: %v", err)
	}
	creds, err := LoadCredentialsFrom(path)
	if err != nil {
		t.Fatalf("LoadCredentialsFrom: %v", err)
	}
	if creds.Tokens["https://panel.example.com"] != "tok-123" {
		t.Errorf("token = %q, want tok-123", creds.Tokens["https://panel.example.com"])
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("credentials mode = %o, want 600", perm)
	}

	if err := DeleteTokenFrom(path, "https://panel.example.com"); err != nil {
		t.Fatalf("DeleteTokenFrom: %v", err)
	}
	creds, err = LoadCredentialsFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := creds.Tokens["https://panel.example.com"]; ok {
		t.Error("token not deleted")
	}
}
