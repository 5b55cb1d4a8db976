package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "encore.db" {
			t.Errorf("expected database path encore.db, got %s", config.Database.Path)
		}

		if config.Recommendations.DefaultLimit != 10 {
			t.Errorf("expected default limit 10, got %d", config.Recommendations.DefaultLimit)
		}

		if config.Recommendations.CooldownDays != 7 {
			t.Errorf("expected cooldown 7 days, got %d", config.Recommendations.CooldownDays)
		}

		if config.Recommendations.RetentionDays != 30 {
			t.Errorf("expected retention 30 days, got %d", config.Recommendations.RetentionDays)
		}

		if config.Recommendations.TrendingDays != 30 {
			t.Errorf("expected trending window 30 days, got %d", config.Recommendations.TrendingDays)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[recommendations]
default_limit = 25
cooldown_days = 14
retention_days = 60
trending_days = 7
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Recommendations.DefaultLimit != 25 {
			t.Errorf("expected default limit 25, got %d", config.Recommendations.DefaultLimit)
		}

		if config.Recommendations.CooldownDays != 14 {
			t.Errorf("expected cooldown 14 days, got %d", config.Recommendations.CooldownDays)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadConfig malformed TOML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := os.WriteFile(configPath, []byte("[database\npath ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for malformed config")
		}
	})
}
