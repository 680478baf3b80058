package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, 60, cfg.Snippet.MaxLines)
	assert.Equal(t, "  // <-- HERE", cfg.Snippet.Marker)
	assert.Equal(t, 4096, cfg.Search.Radius)
	assert.Equal(t, 1024, cfg.Cache.MaxFiles)
	assert.NotEmpty(t, cfg.Dialects["cpp"])
}

func TestOptionsRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Snippet.MaxLines = 30
	cfg.Search.NearMissDistance = 0

	opts := cfg.Options()
	assert.Equal(t, 30, opts.MaxSnippetLines)
	assert.Equal(t, 0, opts.NearMissDistance)
	assert.Equal(t, cfg.Search.Radius, opts.SearchRadius)
	assert.Equal(t, cfg.Snippet.Marker, opts.Marker)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero max lines", func(c *Config) { c.Snippet.MaxLines = 0 }, "snippet.max_lines"},
		{"zero fallback radius", func(c *Config) { c.Snippet.FallbackRadius = 0 }, "snippet.fallback_radius"},
		{"zero search radius", func(c *Config) { c.Search.Radius = 0 }, "search.radius"},
		{"zero candidate cutoff", func(c *Config) { c.Search.CandidateCutoff = 0 }, "search.candidate_cutoff"},
		{"negative near miss", func(c *Config) { c.Search.NearMissDistance = -1 }, "search.near_miss_distance"},
		{"zero cache size", func(c *Config) { c.Cache.MaxFiles = 0 }, "cache.max_files"},
		{"unknown dialect", func(c *Config) { c.Dialects = map[string][]string{"rust": {"*.rs"}} }, "unknown dialect"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	t.Run("near miss zero is allowed", func(t *testing.T) {
		cfg := Default()
		cfg.Search.NearMissDistance = 0
		assert.NoError(t, Validate(cfg))
	})
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err, "an explicitly named missing file is loud")

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Search.Radius, cfg.Search.Radius)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracelens.yml")
	content := `
snippet:
  max_lines: 25
  marker: " <*>"
search:
  near_miss_distance: 0
dialects:
  c:
    - "*.c"
    - "*.h"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Snippet.MaxLines)
	assert.Equal(t, " <*>", cfg.Snippet.Marker)
	assert.Equal(t, 0, cfg.Search.NearMissDistance)
	assert.Equal(t, []string{"*.c", "*.h"}, cfg.Dialects["c"])

	// Unset keys keep their defaults.
	assert.Equal(t, Default().Search.Radius, cfg.Search.Radius)
	assert.Equal(t, Default().Cache.MaxFiles, cfg.Cache.MaxFiles)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracelens.yml")
	require.NoError(t, os.WriteFile(path, []byte("snippet:\n  max_lines: -4\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TRACELENS_SNIPPET_MAX_LINES", "11")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 11, cfg.Snippet.MaxLines)
}
