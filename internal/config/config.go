package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

const fileName = "planline.yml"

// Config models planline.yml.
type Config struct {
	Actor string `yaml:"actor"`
	WBS   struct {
		DeletePolicy string `yaml:"delete_policy"`
	} `yaml:"wbs"`
	Cache struct {
		MaxCostBytes int64 `yaml:"max_cost_bytes"`
	} `yaml:"cache"`
	DB struct {
		BusyTimeoutMS int `yaml:"busy_timeout_ms"`
	} `yaml:"db"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

var (
	deletePolicies = []string{"reparent", "cascade"}
	logLevels      = []string{"debug", "info", "warn", "error"}
	logFormats     = []string{"text", "json"}
)

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with pl init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the defaults when the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Actor == "" {
		return fmt.Errorf("config.actor is required")
	}
	if !slices.Contains(deletePolicies, c.WBS.DeletePolicy) {
		return fmt.Errorf("config.wbs.delete_policy must be one of %v, got %q", deletePolicies, c.WBS.DeletePolicy)
	}
	if c.Cache.MaxCostBytes < 0 {
		return fmt.Errorf("config.cache.max_cost_bytes must not be negative")
	}
	if c.DB.BusyTimeoutMS < 0 {
		return fmt.Errorf("config.db.busy_timeout_ms must not be negative")
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("config.log.level must be one of %v, got %q", logLevels, c.Log.Level)
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("config.log.format must be one of %v, got %q", logFormats, c.Log.Format)
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, fileName)
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(defaultTemplate), &cfg)
	return &cfg
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// FromYAML parses and validates config from raw YAML bytes. Keys left out keep
// their default values.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// WriteDefault creates planline.yml in workspace unless it already exists.
func WriteDefault(workspace string) (string, error) {
	path := Path(workspace)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

const defaultTemplate = `actor: local-user

wbs:
  # reparent moves the children of a deleted node up one level; cascade deletes them.
  delete_policy: reparent

cache:
  max_cost_bytes: 8388608

db:
  busy_timeout_ms: 5000

log:
  level: info
  format: text
`
