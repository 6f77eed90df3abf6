package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load reads a configuration file (YAML, JSON, or TOML — whatever
// extension path carries) and decodes it into a Config, then validates it.
// Grounded on the niceyeti-tabular reinforcement package's viper.New/
// SetConfigFile/SetConfigType/AddConfigPath/ReadInConfig/Unmarshal
// sequence (a package-level viper instance is deliberately avoided so
// that concurrent test runs or multiple invocations never share state).
func Load(path string) (Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType(configType(path))
	vp.AddConfigPath(filepath.Dir(path))

	if err := vp.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: reading %s: %v", ErrConfigInvalid, path, err)
	}

	var cfg Config
	if err := vp.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decoding %s: %v", ErrConfigInvalid, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// configType maps a config file's extension to the viper config-type
// string, defaulting to yaml (spec.md §6 names no required file format).
func configType(path string) string {
	switch ext := filepath.Ext(path); ext {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".yml", ".yaml", "":
		return "yaml"
	default:
		return ext[1:]
	}
}
