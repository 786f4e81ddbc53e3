// Package config loads CLI settings from formstate.yaml, FORMSTATE_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. FORMSTATE_OUTPUT.
const EnvPrefix = "FORMSTATE"

// Config holds the CLI settings.
type Config struct {
	LogLevel    string `mapstructure:"log_level"`
	Output      string `mapstructure:"output"`
	Definitions string `mapstructure:"definitions"`
	MaxAttempts int    `mapstructure:"max_attempts"`
}

// flagKeys maps flag names onto config keys.
var flagKeys = map[string]string{
	"log-level":    "log_level",
	"output":       "output",
	"definitions":  "definitions",
	"max-attempts": "max_attempts",
}

// Load reads configuration. An explicit path must exist; otherwise
// formstate.yaml is looked up in the working directory and in
// $HOME/.config/formstate, and a missing file is not an error. Changed flags
// in flags override the file and the environment.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "")
	v.SetDefault("output", "json")
	v.SetDefault("definitions", "forms")
	v.SetDefault("max_attempts", 3)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "formstate"))
		}
		v.SetConfigName("formstate")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return c, nil
}
