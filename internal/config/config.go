// Package config loads tracelens configuration from .tracelens.yml with
// environment variable overrides, mirroring defaults the extraction core
// would otherwise fall back to.
package config

import (
	"fmt"

	"github.com/mvp-joe/tracelens/internal/source"
)

// Config is the complete tracelens configuration.
type Config struct {
	Snippet  SnippetConfig       `yaml:"snippet" mapstructure:"snippet"`
	Search   SearchConfig        `yaml:"search" mapstructure:"search"`
	Cache    CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Dialects map[string][]string `yaml:"dialects" mapstructure:"dialects"`
}

// SnippetConfig controls how extracted spans are rendered.
type SnippetConfig struct {
	Marker         string `yaml:"marker" mapstructure:"marker"`                   // current-line marker token
	MaxLines       int    `yaml:"max_lines" mapstructure:"max_lines"`             // crop window height
	FallbackRadius int    `yaml:"fallback_radius" mapstructure:"fallback_radius"` // ± lines for the nearby-context view
}

// SearchConfig controls the structural locators' scan windows.
type SearchConfig struct {
	Radius           int `yaml:"radius" mapstructure:"radius"`                         // chars around the target scanned for the name
	CandidateCutoff  int `yaml:"candidate_cutoff" mapstructure:"candidate_cutoff"`     // max char distance per candidate
	NearMissDistance int `yaml:"near_miss_distance" mapstructure:"near_miss_distance"` // accept-without-coverage distance
	BacktrackLimit   int `yaml:"backtrack_limit" mapstructure:"backtrack_limit"`       // max signature lines merged upward
}

// CacheConfig bounds the per-file view cache.
type CacheConfig struct {
	MaxFiles int `yaml:"max_files" mapstructure:"max_files"`
}

// Default returns a configuration matching source.DefaultOptions.
func Default() *Config {
	opts := source.DefaultOptions()
	return &Config{
		Snippet: SnippetConfig{
			Marker:         opts.Marker,
			MaxLines:       opts.MaxSnippetLines,
			FallbackRadius: opts.FallbackRadius,
		},
		Search: SearchConfig{
			Radius:           opts.SearchRadius,
			CandidateCutoff:  opts.CandidateCutoff,
			NearMissDistance: opts.NearMissDistance,
			BacktrackLimit:   opts.BacktrackLimit,
		},
		Cache: CacheConfig{
			MaxFiles: opts.MaxCachedFiles,
		},
		Dialects: source.DefaultDialectGlobs(),
	}
}

// Options converts the configuration into extraction core options.
func (c *Config) Options() source.Options {
	return source.Options{
		SearchRadius:     c.Search.Radius,
		CandidateCutoff:  c.Search.CandidateCutoff,
		NearMissDistance: c.Search.NearMissDistance,
		BacktrackLimit:   c.Search.BacktrackLimit,
		MaxSnippetLines:  c.Snippet.MaxLines,
		FallbackRadius:   c.Snippet.FallbackRadius,
		Marker:           c.Snippet.Marker,
		MaxCachedFiles:   c.Cache.MaxFiles,
	}
}

// Resolver compiles the configured dialect glob table.
func (c *Config) Resolver() (*source.DialectResolver, error) {
	return source.NewDialectResolver(c.Dialects)
}

// Validate rejects configurations the extraction core cannot honor.
func Validate(cfg *Config) error {
	if cfg.Snippet.MaxLines <= 0 {
		return fmt.Errorf("snippet.max_lines must be positive, got %d", cfg.Snippet.MaxLines)
	}
	if cfg.Snippet.FallbackRadius <= 0 {
		return fmt.Errorf("snippet.fallback_radius must be positive, got %d", cfg.Snippet.FallbackRadius)
	}
	if cfg.Search.Radius <= 0 {
		return fmt.Errorf("search.radius must be positive, got %d", cfg.Search.Radius)
	}
	if cfg.Search.CandidateCutoff <= 0 {
		return fmt.Errorf("search.candidate_cutoff must be positive, got %d", cfg.Search.CandidateCutoff)
	}
	if cfg.Search.NearMissDistance < 0 {
		return fmt.Errorf("search.near_miss_distance must not be negative, got %d", cfg.Search.NearMissDistance)
	}
	if cfg.Cache.MaxFiles <= 0 {
		return fmt.Errorf("cache.max_files must be positive, got %d", cfg.Cache.MaxFiles)
	}
	if _, err := cfg.Resolver(); err != nil {
		return err
	}
	return nil
}
