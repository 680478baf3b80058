package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration with the following priority (highest to lowest):
//  1. Environment variables (TRACELENS_*)
//  2. Config file (explicit path, or .tracelens.yml in the working directory)
//  3. Default values
//
// A missing config file is not an error; defaults plus environment apply.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".tracelens")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix("TRACELENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("snippet.marker")
	v.BindEnv("snippet.max_lines")
	v.BindEnv("snippet.fallback_radius")
	v.BindEnv("search.radius")
	v.BindEnv("search.candidate_cutoff")
	v.BindEnv("search.near_miss_distance")
	v.BindEnv("search.backtrack_limit")
	v.BindEnv("cache.max_files")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - defaults plus env apply.
		// A broken config file should be loud, not silently ignored.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Dialects) == 0 {
		cfg.Dialects = Default().Dialects
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("snippet.marker", def.Snippet.Marker)
	v.SetDefault("snippet.max_lines", def.Snippet.MaxLines)
	v.SetDefault("snippet.fallback_radius", def.Snippet.FallbackRadius)
	v.SetDefault("search.radius", def.Search.Radius)
	v.SetDefault("search.candidate_cutoff", def.Search.CandidateCutoff)
	v.SetDefault("search.near_miss_distance", def.Search.NearMissDistance)
	v.SetDefault("search.backtrack_limit", def.Search.BacktrackLimit)
	v.SetDefault("cache.max_files", def.Cache.MaxFiles)
}
