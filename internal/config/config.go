// Package config loads reactorctl's runtime settings from flags,
// environment variables, and an optional config file, layered through
// spf13/viper the way the teacher's deployment config is assembled from
// multiple sources rather than flags alone.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every knob the demo host app and its debug instrumentation
// read at startup.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	TrackedFilesDir string        `mapstructure:"tracked_files_dir"`
	ParseRetryMax   time.Duration `mapstructure:"parse_retry_max"`

	DebugGraphEnabled bool   `mapstructure:"debug_graph_enabled"`
	DebugHTTPAddr     string `mapstructure:"debug_http_addr"`
}

// Defaults returns the baseline Config before flags/env/file are layered
// on top.
func Defaults() Config {
	return Config{
		LogLevel:          "info",
		LogFormat:         "text",
		TrackedFilesDir:   ".",
		ParseRetryMax:     30 * time.Second,
		DebugGraphEnabled: false,
		DebugHTTPAddr:     "127.0.0.1:8089",
	}
}

// Load builds a Config from, in ascending precedence: built-in defaults,
// an optional config file (reactorctl.yaml, searched in the working
// directory and $HOME), a REACTORCTL_-prefixed environment variable for
// each field, and finally flags already parsed onto fs.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("reactorctl")
	v.AutomaticEnv()

	v.SetConfigName("reactorctl")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	def := Defaults()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("tracked_files_dir", def.TrackedFilesDir)
	v.SetDefault("parse_retry_max", def.ParseRetryMax)
	v.SetDefault("debug_graph_enabled", def.DebugGraphEnabled)
	v.SetDefault("debug_http_addr", def.DebugHTTPAddr)

	if fs != nil {
		binds := map[string]string{
			"log_level":           "log-level",
			"log_format":          "log-format",
			"tracked_files_dir":   "tracked-files-dir",
			"parse_retry_max":     "parse-retry-max",
			"debug_graph_enabled": "debug-graph-enabled",
			"debug_http_addr":     "debug-http-addr",
		}
		for key, flagName := range binds {
			if f := fs.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("config: binding flag %q: %w", flagName, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshaling: %w", err)
	}
	return cfg, nil
}
