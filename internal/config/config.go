// Package config loads application configuration with koanf: built-in
// defaults, then an optional YAML file, then THREEDQ_* environment
// variables, each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "THREEDQ_"

// Config holds application configuration.
type Config struct {
	DBPath      string `koanf:"db_path"      validate:"required"`
	Port        string `koanf:"port"         validate:"required"`
	Environment string `koanf:"environment"  validate:"required,oneof=dev prod test"`
	LogLevel    string `koanf:"log_level"    validate:"required,oneof=debug info warn error"`
	AdminToken  string `koanf:"admin_token"`
	QuotePrefix string `koanf:"quote_prefix" validate:"required"`
}

func defaults() map[string]any {
	return map[string]any{
		"db_path":      "./threedq.db",
		"port":         "8080",
		"environment":  "dev",
		"log_level":    "info",
		"admin_token":  "",
		"quote_prefix": "3DQ",
	}
}

// Load builds the configuration from defaults, an optional config file
// (path taken from THREEDQ_CONFIG, default config.yaml) and environment
// variables, then validates the result.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load config defaults: %w", err)
	}

	path := os.Getenv(envPrefix + "CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// The file is optional; anything other than absence is an error.
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load config environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// IsDev reports whether the service runs in the development environment.
func (c Config) IsDev() bool {
	return c.Environment == "dev"
}
