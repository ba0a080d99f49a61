package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bryanchriswhite/swaycap/internal/logger"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns $XDG_CONFIG_HOME/swaycap/config.yaml.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, AppName, "config.yaml"), nil
}

// Load reads and validates the configuration file at configFile, or at
// DefaultPath when configFile is empty. A missing default file yields the
// built-in defaults; a missing explicit file is an error.
func Load(configFile string) (*Config, error) {
	log := logger.WithComponent("config")

	path := configFile
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && configFile == "" {
			log.Debug().Str("path", path).Msg("Config file not found, using defaults")
			return New(nil)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	tree, err := Decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg, err := New(tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path

	log.Debug().Str("path", path).Msg("Config loaded")
	return cfg, nil
}

// Decode parses a configuration document, choosing TOML or YAML by the
// file extension. YAML is the default.
func Decode(path string, data []byte) (map[string]any, error) {
	var tree map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return tree, nil
}

// Dump writes the effective configuration as YAML.
func (c *Config) Dump() ([]byte, error) {
	return yaml.Marshal(c.Effective())
}
