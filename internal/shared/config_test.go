package shared

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.App.Environment != "development" {
		t.Errorf("expected development environment, got %q", config.App.Environment)
	}
	if config.Database.Path == "" {
		t.Error("expected a default database path")
	}
	if config.Seed.SystemActorEmail == "" {
		t.Error("expected a default system actor email")
	}
	if config.IsProduction() {
		t.Error("default config should not be production")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[app]
environment = "production"
log_level = "debug"

[database]
path = "/tmp/test.db"
max_open_conns = 8

[seed]
system_actor_email = "ops@example.com"
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if !config.IsProduction() {
			t.Error("expected production environment")
		}
		if config.Database.MaxOpenConns != 8 {
			t.Errorf("expected max_open_conns 8, got %d", config.Database.MaxOpenConns)
		}
		if config.Seed.SystemActorEmail != "ops@example.com" {
			t.Errorf("unexpected system actor email %q", config.Seed.SystemActorEmail)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("[app\nbroken"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}

	if err := CreateConfigFile(path); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected fs.ErrExist when config file already exists, got %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load created config: %v", err)
	}
	if config.App.Environment != "development" {
		t.Errorf("expected development environment, got %q", config.App.Environment)
	}
}
