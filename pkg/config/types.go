package config

// Config represents the service configuration
type Config struct {
	LogLevel  string    `yaml:"log_level"`
	HTTPAddr  string    `yaml:"http_addr"`
	Device    Device    `yaml:"device"`
	Generator Generator `yaml:"generator"`
}

// Device configures the launch geometry and the memory pool shared by
// every generator the service creates
type Device struct {
	Blocks          int   `yaml:"blocks"`
	ThreadsPerBlock int   `yaml:"threads_per_block"`
	MemoryLimitMB   int64 `yaml:"memory_limit_mb"`
}

// Generator holds the seeding defaults applied when a job omits them
type Generator struct {
	DefaultSeed   uint64 `yaml:"default_seed"`
	DefaultOffset uint64 `yaml:"default_offset"`
}

// Default returns the configuration used when no file is provided
func Default() *Config {
	return &Config{
		LogLevel: "info",
		HTTPAddr: ":8080",
		Device: Device{
			Blocks:          512,
			ThreadsPerBlock: 256,
			MemoryLimitMB:   256,
		},
		Generator: Generator{
			DefaultSeed: 12345,
		},
	}
}
