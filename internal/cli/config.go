package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/eleven-am/ormlite/internal/logger"
)

// ConfigEnv names the environment variable pointing at the config file
const ConfigEnv = "ORMLITE_CONFIG"

// EnvPrefix prefixes environment variables that override config keys,
// e.g. ORMLITE_SCHEMA_STRICT_MODE for schema.strict_mode
const EnvPrefix = "ORMLITE"

var configLocations = []string{"ormlite.yaml", "ormlite.yml", ".ormlite.yaml", ".ormlite.yml"}

// OrmliteConfig represents the ormlite.yaml configuration structure
type OrmliteConfig struct {
	Version string `yaml:"version"`

	Models struct {
		Package         string `yaml:"package"`
		IncludeUnmarked bool   `yaml:"include_unmarked"`
	} `yaml:"models"`

	Schema struct {
		StrictMode       bool   `yaml:"strict_mode"`
		NamingConvention string `yaml:"naming_convention"`
	} `yaml:"schema"`

	Output struct {
		Format string `yaml:"format"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with every default applied
func DefaultConfig() *OrmliteConfig {
	cfg := &OrmliteConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *OrmliteConfig) applyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Models.Package == "" {
		c.Models.Package = "./models"
	}
	if c.Schema.NamingConvention == "" {
		c.Schema.NamingConvention = "snake_case"
	}
	if c.Output.Format == "" {
		c.Output.Format = formatYAML
	}
}

// LoadConfig reads the configuration at path. An empty path falls back to
// GetConfigPath; when no file exists the defaults are used. Environment
// overrides apply in both cases.
func LoadConfig(path string) (*OrmliteConfig, error) {
	if path == "" {
		path = GetConfigPath()
	}
	if path == "" {
		config := &OrmliteConfig{}
		config.applyEnv()
		config.applyDefaults()
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var config OrmliteConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	config.applyEnv()
	config.applyDefaults()

	logger.Config().WithField("path", path).Debug("loaded configuration")
	return &config, nil
}

func (c *OrmliteConfig) applyEnv() {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.IsSet("models.package") {
		c.Models.Package = v.GetString("models.package")
	}
	if v.IsSet("models.include_unmarked") {
		c.Models.IncludeUnmarked = v.GetBool("models.include_unmarked")
	}
	if v.IsSet("schema.strict_mode") {
		c.Schema.StrictMode = v.GetBool("schema.strict_mode")
	}
	if v.IsSet("schema.naming_convention") {
		c.Schema.NamingConvention = v.GetString("schema.naming_convention")
	}
	if v.IsSet("output.format") {
		c.Output.Format = v.GetString("output.format")
	}
}

// GetConfigPath returns the config file to use, or "" when there is none
func GetConfigPath() string {
	if path := os.Getenv(ConfigEnv); path != "" {
		return path
	}

	for _, loc := range configLocations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// SaveConfig writes config as YAML to path
func SaveConfig(config *OrmliteConfig, path string) error {
	if path == "" {
		path = configLocations[0]
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}
