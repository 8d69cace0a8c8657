// Package config loads application settings from defaults, a .env file,
// environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/valpere/revsense/internal/logging"
	"github.com/valpere/revsense/internal/results"
)

// EnvPrefix namespaces environment variables, e.g. REVSENSE_SERVER_PORT.
const EnvPrefix = "REVSENSE"

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type GoogleConfig struct {
	Credentials string `mapstructure:"credentials"`
	Project     string `mapstructure:"project"`
}

type MyMemoryConfig struct {
	Email string `mapstructure:"email"`
}

type Config struct {
	Server      ServerConfig   `mapstructure:"server"`
	ResultsPath string         `mapstructure:"results_path"`
	HistoryDB   string         `mapstructure:"history_db"`
	Detector    string         `mapstructure:"detector"`
	Translator  string         `mapstructure:"translator"`
	Google      GoogleConfig   `mapstructure:"google"`
	MyMemory    MyMemoryConfig `mapstructure:"mymemory"`
	Log         logging.Config `mapstructure:"log"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("results_path", results.DefaultPath)
	v.SetDefault("history_db", "")
	v.SetDefault("detector", "lingua")
	v.SetDefault("translator", "mymemory")
	v.SetDefault("google.credentials", "")
	v.SetDefault("google.project", "")
	v.SetDefault("mymemory.email", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadEnvFile exports the variables of a dotenv file into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := gotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from v, which should already have flags bound.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that enumerated settings have known values.
func (c *Config) Validate() error {
	switch c.Detector {
	case "lingua", "google":
	default:
		return fmt.Errorf("unknown detector %q (want lingua or google)", c.Detector)
	}

	switch c.Translator {
	case "mymemory", "google":
	default:
		return fmt.Errorf("unknown translator %q (want mymemory or google)", c.Translator)
	}

	if c.ResultsPath == "" {
		return fmt.Errorf("results path must be set")
	}
	return nil
}
