package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither the --config flag nor SHIPMATE_CONFIG
// is set.
const DefaultPath = "shipmate.yaml"

// EnvPath overrides the config document location.
const EnvPath = "SHIPMATE_CONFIG"

// Config is the declarative document the registry is built from.
type Config struct {
	Server      ServerConfig `yaml:"server"`
	Settings    Settings     `yaml:"settings"`
	Files       []File       `yaml:"files"`
	Directories []Directory  `yaml:"directories"`
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"` // frontend bundle, optional
	LogLevel  string `yaml:"log_level"`
}

type Settings struct {
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// File is one explicitly declared registry entry.
type File struct {
	Name        string `yaml:"name"`
	Path        string `yaml:"path"`
	Description string `yaml:"description"`
	Readonly    bool   `yaml:"readonly"`
	Category    string `yaml:"category"`
}

// Directory is one scan rule.
type Directory struct {
	Name        string   `yaml:"name"`
	Path        string   `yaml:"path"`
	Depth       uint     `yaml:"depth"`
	Types       []string `yaml:"types"`
	Description string   `yaml:"description"`
	Readonly    bool     `yaml:"readonly"`
	Category    string   `yaml:"category"`
}

// Defaults applied after unmarshalling.
var defaultExtensions = []string{"conf", "toml", "txt", "ini", "env"}

const defaultDepth = 3

// Path returns the config document location, honoring the env override.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads and parses the config document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if len(cfg.Settings.AllowedExtensions) == 0 {
		cfg.Settings.AllowedExtensions = append([]string(nil), defaultExtensions...)
	}
	for i := range cfg.Directories {
		if cfg.Directories[i].Depth == 0 {
			cfg.Directories[i].Depth = defaultDepth
		}
	}

	return &cfg, nil
}
