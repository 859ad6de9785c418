// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves pipeline configuration from defaults, an
// optional YAML config file, a .env file and PRICELIST_ENGINE_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/pdiddy/pricelist-engine/pkg/types"
)

const (
	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "PRICELIST_ENGINE"

	// Name is the config file base name searched for in the working
	// directory and ~/.config/pricelist-engine/.
	Name = "pricelist-engine"
)

// SetDefaults registers the default value of every configuration key on v.
// Every key must have a default for environment overrides to reach
// Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input_dir", "Data/Pricelist")
	v.SetDefault("output_dir", "Data/Extracted_Data")
	v.SetDefault("vocabulary_file", "")

	v.SetDefault("extraction.all_tables", false)
	v.SetDefault("extraction.min_columns", 3)
	v.SetDefault("extraction.keep_shadowed_columns", false)
	v.SetDefault("extraction.indent", 4)
	v.SetDefault("extraction.lattice.snap_tolerance", 3.0)
	v.SetDefault("extraction.lattice.join_tolerance", 3.0)
	v.SetDefault("extraction.lattice.intersection_tolerance", 3.0)
	v.SetDefault("extraction.lattice.min_edge_length", 3.0)

	v.SetDefault("catalog.db_path", "Data/catalog.db")
	v.SetDefault("catalog.export_dir", "Data/Export")
	v.SetDefault("catalog.max_results", 20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load resolves configuration into a validated PipelineConfig. When
// cfgFile is empty the standard locations are searched and a missing
// file is not an error.
func Load(v *viper.Viper, cfgFile string) (types.PipelineConfig, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	var cfg types.PipelineConfig
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that cfg describes a runnable pipeline.
func Validate(cfg types.PipelineConfig) error {
	if cfg.InputDir == "" {
		return errors.New("input_dir cannot be empty")
	}
	if cfg.OutputDir == "" {
		return errors.New("output_dir cannot be empty")
	}
	if cfg.Extraction.MinColumns < 1 {
		return fmt.Errorf("extraction.min_columns must be positive, got %d", cfg.Extraction.MinColumns)
	}
	if cfg.Extraction.Indent < 0 {
		return fmt.Errorf("extraction.indent cannot be negative, got %d", cfg.Extraction.Indent)
	}
	if _, err := logrus.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", cfg.Logging.Format)
	}
	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process
// environment without overriding variables that are already set. A
// missing file is not an error. It returns the keys that were loaded.
func LoadEnvFile(path string) ([]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
