package userconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(home, ".config", "povertyline", "config.json")
	if path != want {
		t.Errorf("config path = %q, want %q", path, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected empty config, got nil")
	}
	if cfg.ServerURL != "" {
		t.Errorf("ServerURL = %q, want empty string", cfg.ServerURL)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Save(&UserConfig{ServerURL: "https://api.example.org"}); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.ServerURL != "https://api.example.org" {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, "https://api.example.org")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{invalid`), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for corrupt config file")
	}
}

func TestSetServerURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SetServerURL("https://first.example.org"); err != nil {
		t.Fatalf("failed to set server URL: %v", err)
	}
	if err := SetServerURL("https://second.example.org"); err != nil {
		t.Fatalf("failed to update server URL: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.ServerURL != "https://second.example.org" {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, "https://second.example.org")
	}
}

func TestGetServerURL(t *testing.T) {
	t.Run("environment variable wins", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("POVERTYLINE_SERVER", "https://staging.example.org")

		if err := Save(&UserConfig{ServerURL: "https://configured.example.org"}); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		url, err := GetServerURL()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if url != "https://staging.example.org" {
			t.Errorf("server URL = %q, want %q", url, "https://staging.example.org")
		}
	})

	t.Run("config file value", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("POVERTYLINE_SERVER", "")

		if err := Save(&UserConfig{ServerURL: "https://configured.example.org"}); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		url, err := GetServerURL()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if url != "https://configured.example.org" {
			t.Errorf("server URL = %q, want %q", url, "https://configured.example.org")
		}
	})

	t.Run("default fallback", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("POVERTYLINE_SERVER", "")

		url, err := GetServerURL()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if url != DefaultServerURL {
			t.Errorf("server URL = %q, want %q", url, DefaultServerURL)
		}
	})
}
