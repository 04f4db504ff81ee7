package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API struct {
		BaseURL string `yaml:"baseUrl"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Socket struct {
		URL string `yaml:"url"`
	} `yaml:"socket"`
	Auth struct {
		CredentialsPath string `yaml:"credentialsPath"`
	} `yaml:"auth"`
	Quiz struct {
		CacheTTL string `yaml:"cacheTtl"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path. A missing file yields the zero config so
// the CLI can run purely on flags and defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// CredentialsPath resolves where the bearer token is persisted, defaulting to
// a dotfile in the user's home directory.
func (c Config) CredentialsPath() string {
	if c.Auth.CredentialsPath != "" {
		return c.Auth.CredentialsPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".netwebquiz.json"
	}
	return filepath.Join(home, ".netwebquiz.json")
}
