package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if exists {
		t.Error("Expected exists=false for a missing file")
	}
	if resolved != path {
		t.Errorf("Expected resolved path %q, got %q", path, resolved)
	}
	if *cfg != Default() {
		t.Errorf("Expected defaults, got %+v", *cfg)
	}
}

func TestLoad_ParsesValues(t *testing.T) {
	path := writeConfig(t, `
workers = 3

[logging]
level = "DEBUG"
format = "json"

[border]
thickness = "thick"

[order]
lock = false
`)

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !exists {
		t.Error("Expected exists=true")
	}
	if cfg.Workers != 3 {
		t.Errorf("Expected workers 3, got %d", cfg.Workers)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Border.Thickness != "thick" {
		t.Errorf("Expected thickness thick, got %q", cfg.Border.Thickness)
	}
	if cfg.Order.Lock {
		t.Error("Expected order.lock=false")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"negative workers", "workers = -1", "workers"},
		{"bad level", "[logging]\nlevel = \"loud\"", "logging.level"},
		{"bad format", "[logging]\nformat = \"xml\"", "logging.format"},
		{"bad thickness", "[border]\nthickness = \"huge\"", "border.thickness"},
		{"unknown key", "colour = \"red\"", "parse config"},
		{"broken toml", "workers = ", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error to mention %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_DirectoryIsRejected(t *testing.T) {
	_, _, _, err := Load(t.TempDir())
	if err == nil {
		t.Error("Expected error when the config path is a directory")
	}
}
