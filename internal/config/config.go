package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port              string `yaml:"port" toml:"port"`
		GeneratePerMinute int    `yaml:"generate_per_minute" toml:"generate_per_minute"`
		MovesPerSecond    int    `yaml:"moves_per_second" toml:"moves_per_second"`
	} `yaml:"server" toml:"server"`
	Redis struct {
		Addr     string `yaml:"addr" toml:"addr"`
		Password string `yaml:"password" toml:"password"`
		DB       int    `yaml:"db" toml:"db"`
		TTL      string `yaml:"ttl" toml:"ttl"`
	} `yaml:"redis" toml:"redis"`
	Postgres struct {
		URL string `yaml:"url" toml:"url"`
	} `yaml:"postgres" toml:"postgres"`
	Questions struct {
		TTL string `yaml:"ttl" toml:"ttl"`
	} `yaml:"questions" toml:"questions"`
	Crossword struct {
		GridSize     int  `yaml:"grid_size" toml:"grid_size"`
		MaxAttempts  int  `yaml:"max_attempts" toml:"max_attempts"`
		MaxXP        int  `yaml:"max_xp" toml:"max_xp"`
		NumericHints bool `yaml:"numeric_hints" toml:"numeric_hints"`
	} `yaml:"crossword" toml:"crossword"`
	Gemini struct {
		Project string `yaml:"project" toml:"project"`
		Region  string `yaml:"region" toml:"region"`
		Model   string `yaml:"model" toml:"model"`
	} `yaml:"gemini" toml:"gemini"`
	Log struct {
		Level string `yaml:"level" toml:"level"`
	} `yaml:"log" toml:"log"`
}

// Load reads config from path. Files ending in .toml are decoded as TOML, anything else as YAML.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
