package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CHTAX_LOG_LEVEL.
const EnvPrefix = "CHTAX"

// Settings holds the CLI configuration.
type Settings struct {
	// ReferenceData is a tables file path, or empty for the embedded tables.
	ReferenceData string         `mapstructure:"reference_data"`
	Log           LogSettings    `mapstructure:"log"`
	Output        OutputSettings `mapstructure:"output"`
	Batch         BatchSettings  `mapstructure:"batch"`
}

// LogSettings configures the zap logger.
type LogSettings struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// OutputSettings selects the report format and where files are written.
type OutputSettings struct {
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
}

// BatchSettings bounds batch concurrency.
type BatchSettings struct {
	Workers int `mapstructure:"workers"`
}

// LoadSettings reads settings with this precedence, highest first:
// CHTAX_* environment variables, the config file, built-in defaults.
//
// With an explicit path the file must exist. Otherwise chtax.yaml is looked up
// in the working directory and then the user config directory, and a missing
// file is not an error.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	} else {
		v.SetConfigName("chtax")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "chtax"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", s.Log.Level)
	}
	if s.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers cannot be negative")
	}
	if s.Output.Format == "" {
		return fmt.Errorf("output.format cannot be empty")
	}
	return nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("reference_data", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("output.format", "console")
	v.SetDefault("output.dir", "")
	v.SetDefault("batch.workers", 10)
}
