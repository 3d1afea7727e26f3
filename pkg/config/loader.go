package config

import (
	"fmt"
	"os"
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.HTTPAddr == "" {
		return fmt.Errorf("http_addr cannot be empty")
	}

	if cfg.Device.Blocks <= 0 {
		return fmt.Errorf("device blocks must be positive, got %d", cfg.Device.Blocks)
	}
	if cfg.Device.ThreadsPerBlock <= 0 {
		return fmt.Errorf("device threads_per_block must be positive, got %d", cfg.Device.ThreadsPerBlock)
	}
	if cfg.Device.MemoryLimitMB <= 0 {
		return fmt.Errorf("device memory_limit_mb must be positive, got %d", cfg.Device.MemoryLimitMB)
	}

	return nil
}
