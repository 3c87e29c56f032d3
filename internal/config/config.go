// Package config loads settings from defaults, an optional YAML file, the
// environment and command line flags, in increasing order of priority. The
// entry point loads .env into the environment before calling Load.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix             = "BLOG_"
	DefaultMigrationsPath = "migrations"
	DefaultModelsPath     = "internal/models"
)

// ConfigFiles are looked up in the working directory when no file is given
// with --config or BLOG_CONFIG.
var ConfigFiles = []string{"blog-schema.yaml", "blog-schema.yml"}

// Config holds the settings shared by every command
type Config struct {
	DatabaseURL    string `koanf:"database_url"`
	MigrationsPath string `koanf:"migrations_path"`
	ModelsPath     string `koanf:"models_path"`
	RegistryFile   string `koanf:"registry_file"`
	Debug          bool   `koanf:"debug"`
}

// legacyEnv maps the unprefixed variables the migration tool has always read
// to their config keys.
var legacyEnv = map[string]string{
	"DATABASE_URL":              "database_url",
	"MIGRATIONS_PATH":           "migrations_path",
	"GORM_MODELS_PATH":          "models_path",
	"GORM_MODELS_REGISTRY_FILE": "registry_file",
}

// Load builds a Config. Flags are only applied when explicitly set; flag
// names use dashes where keys use underscores.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"database_url":    "",
		"migrations_path": DefaultMigrationsPath,
		"models_path":     DefaultModelsPath,
		"registry_file":   "",
		"debug":           false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(flags); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// empty variables are skipped so they do not mask the config file
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return legacyEnv[key], value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// BLOG_DATABASE_URL -> database_url
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.RegistryFile == "" {
		cfg.RegistryFile = strings.TrimSuffix(cfg.ModelsPath, "/") + "/models_registry.go"
	}
	return &cfg, nil
}

// findConfigFile returns the config file to read.
// Priority: --config > BLOG_CONFIG > blog-schema.yaml > blog-schema.yml
func findConfigFile(flags *pflag.FlagSet) string {
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			return f.Value.String()
		}
	}
	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		return path
	}
	for _, name := range ConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// RequireDatabase returns an error when no database URL was configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set in environment, .env file or --database-url flag")
	}
	return nil
}
