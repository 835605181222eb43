package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Limits.SlotCapacity != 1_000_000 {
		t.Errorf("slot capacity = %d, want 1000000", cfg.Limits.SlotCapacity)
	}
	if got := cfg.MaxFileSizeBytes(); got != 5*1024*1024 {
		t.Errorf("max file size = %d, want 5 MiB", got)
	}
	if cfg.Server.Port == 0 {
		t.Error("default port unset")
	}
}

func TestLoadConfig_CreatesDefaultOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slotstash.yaml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Limits.SlotCapacity != 1_000_000 {
		t.Errorf("slot capacity = %d", cfg.Limits.SlotCapacity)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file not written: %v", err)
	}

	// Second load reads the written file.
	cfg2, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("second LoadConfig failed: %v", err)
	}
	if cfg2.Server.Port != cfg.Server.Port {
		t.Errorf("reloaded port = %d, want %d", cfg2.Server.Port, cfg.Server.Port)
	}
}

func TestLoadConfig_ParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slotstash.yaml")

	content := `
server:
  port: 9000
limits:
  slotCapacity: 5000
  maxFileSize: 512K
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Limits.SlotCapacity != 5000 {
		t.Errorf("slot capacity = %d, want 5000", cfg.Limits.SlotCapacity)
	}
	if got := cfg.MaxFileSizeBytes(); got != 512*1024 {
		t.Errorf("max file size = %d, want 512K", got)
	}
	// Unspecified sections keep their defaults.
	if cfg.Processing.SessionTimeoutMinutes == 0 {
		t.Error("defaults lost for unspecified sections")
	}
	// Relative data dir resolves against the config location.
	if !filepath.IsAbs(cfg.GetDataDir()) {
		t.Errorf("data dir not resolved: %s", cfg.GetDataDir())
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slotstash.yaml")
	if err := os.WriteFile(path, []byte("server: [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig should fail on malformed YAML")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"5M", 5 * 1024 * 1024, false},
		{"512K", 512 * 1024, false},
		{"1G", 1024 * 1024 * 1024, false},
		{"1048576", 1048576, false},
		{"2m", 2 * 1024 * 1024, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
