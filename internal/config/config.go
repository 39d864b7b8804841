// Package config loads gitsplit settings: built-in defaults, then an
// optional TOML file, then GITSPLIT_-prefixed environment variables, each
// layer overriding the last.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the application configuration.
type Config struct {
	Classifier struct {
		Backend   string `koanf:"backend"`
		APIKey    string `koanf:"apikey"`
		Model     string `koanf:"model"`
		ServerURL string `koanf:"serverurl"`
	} `koanf:"classifier"`

	Chunk struct {
		MaxSize int `koanf:"maxsize"`
	} `koanf:"chunk"`

	LogLevel string `koanf:"loglevel"`
}

// Load reads configuration from configPath, or from the default locations
// when configPath is empty.
func Load(configPath string) (*Config, error) {
	var k = koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"classifier.backend": "googleai",
		"classifier.model":   "gemini-2.5-flash",
		"chunk.maxsize":      12000,
		"loglevel":           "info",
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./gitsplit.toml", "$HOME/.gitsplit.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	k.Load(env.Provider("GITSPLIT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "GITSPLIT_")), "_", ".", -1)
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the loaded configuration for a usable classifier setup.
func Validate(cfg *Config) error {
	switch cfg.Classifier.Backend {
	case "googleai":
		if cfg.Classifier.APIKey == "" {
			return fmt.Errorf("classifier apikey is required for the googleai backend (set GITSPLIT_CLASSIFIER_APIKEY)")
		}
	case "ollama":
		if cfg.Classifier.Model == "" {
			return fmt.Errorf("classifier model is required for the ollama backend")
		}
	default:
		return fmt.Errorf("unknown classifier backend %q", cfg.Classifier.Backend)
	}
	if cfg.Chunk.MaxSize <= 0 {
		return fmt.Errorf("chunk maxsize must be positive")
	}
	return nil
}
