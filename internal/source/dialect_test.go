package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectResolverDefaults(t *testing.T) {
	t.Parallel()

	r, err := NewDialectResolver(nil)
	require.NoError(t, err)

	cases := []struct {
		path string
		want string
	}{
		{"main.c", "c"},
		{"widget.cpp", "cpp"},
		{"widget.cc", "cpp"},
		{"widget.hpp", "cpp"},
		{"shared.h", "cpp"},
		{"Program.cs", "csharp"},
		{"SCRIPT.CSX", "csharp"},
		{"/deep/path/file.c", "c"},
		{`C:\proj\Form1.cs`, "csharp"},
		{"noextension", "cpp"},
		{"strange.xyz", "cpp"},
		{"CaseInsensitive.CPP", "cpp"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, r.Resolve(tc.path).Name, "path %s", tc.path)
	}
}

func TestDialectResolverCustomGlobs(t *testing.T) {
	t.Parallel()

	r, err := NewDialectResolver(map[string][]string{
		"c": {"*.tmpl.c", "legacy_*"},
	})
	require.NoError(t, err)

	assert.Equal(t, "c", r.Resolve("gen.tmpl.c").Name)
	assert.Equal(t, "c", r.Resolve("legacy_io").Name)
	assert.Equal(t, "cpp", r.Resolve("main.c").Name, "custom table replaces the default")
}

func TestDialectResolverErrors(t *testing.T) {
	t.Parallel()

	_, err := NewDialectResolver(map[string][]string{"fortran": {"*.f90"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")

	_, err = NewDialectResolver(map[string][]string{"c": {"["}})
	require.Error(t, err)
}

func TestDialectRuleSets(t *testing.T) {
	t.Parallel()

	assert.False(t, rulesC.ExpressionBodies)
	assert.True(t, rulesCPP.DelimitedRaw)
	assert.False(t, rulesCPP.VerbatimStrings)
	assert.True(t, rulesCSharp.VerbatimStrings)
	assert.True(t, rulesCSharp.AccessorKeywords)
}
