package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlText := `
log_level: info
http_addr: ":8080"
device:
  blocks: 32
  threads_per_block: 64
  memory_limit_mb: 128
generator:
  default_seed: 99
`
	if err := os.WriteFile(path, []byte(yamlText), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected log_level 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.Device.Blocks != 32 {
		t.Errorf("Expected 32 blocks, got %d", cfg.Device.Blocks)
	}
	if cfg.Device.ThreadsPerBlock != 64 {
		t.Errorf("Expected 64 threads per block, got %d", cfg.Device.ThreadsPerBlock)
	}
	if cfg.Generator.DefaultSeed != 99 {
		t.Errorf("Expected default seed 99, got %d", cfg.Generator.DefaultSeed)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}

func TestLoadConfigInvalidContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("log_level: shouty\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected validation error, got nil")
	}
}
