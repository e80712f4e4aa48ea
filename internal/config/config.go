package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Sequence SequenceConfig `toml:"sequence"`
	Log      LogConfig      `toml:"log"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

type SequenceConfig struct {
	// MaxAttempts bounds the allocator's retry loop before it reports
	// exhaustion.
	MaxAttempts int `toml:"max_attempts"`
	// ReconcileSample bounds how many scopes one reconcile or consistency
	// check touches.
	ReconcileSample int `toml:"reconcile_sample"`
	// ReconcileOnStart runs a full reconcile pass before serving, absorbing
	// counter drift from the last restart.
	ReconcileOnStart bool `toml:"reconcile_on_start"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Load reads the TOML config at path, falling back to defaults when the file
// does not exist. An empty path always yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Storage: StorageConfig{
			DBPath: "data/chat.db",
		},
		Sequence: SequenceConfig{
			MaxAttempts:      5,
			ReconcileSample:  100,
			ReconcileOnStart: true,
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}
