package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration file, pointed at by
// FROMBLANK_CONFIG. Every field has an environment variable counterpart and
// the environment always wins.
type fileConfig struct {
	Port         string `yaml:"port"`
	DatabasePath string `yaml:"database_path"`
	APISecret    string `yaml:"api_secret"`
	LogLevel     string `yaml:"log_level"`

	Generation struct {
		APIKey    string `yaml:"api_key"`
		Endpoint  string `yaml:"endpoint"`
		Model     string `yaml:"model"`
		MaxTokens int    `yaml:"max_tokens"`
	} `yaml:"generation"`

	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
}

// loadFileConfig reads the YAML file at path. A missing path returns an
// empty config, not an error.
func loadFileConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// override returns the environment value when set, then the file value, then
// the default.
func override(envKey, fileVal, def string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if fileVal != "" {
		return fileVal
	}
	return def
}
