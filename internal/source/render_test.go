package source

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSnippetNoCrop(t *testing.T) {
	t.Parallel()

	v := viewFor("void Foo()\n{\n    work();\n}\n", rulesCPP)
	text, from, to := renderSnippet(v, 1, 4, 3, DefaultOptions())

	assert.Equal(t, 1, from)
	assert.Equal(t, 4, to)
	assert.Equal(t, "void Foo()\n{\n    work();  // <-- HERE\n}\n", text)
	assert.NotContains(t, text, "omitted")
}

func TestRenderSnippetCrop(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("void Big()\n{\n")
	for i := 0; i < 497; i++ {
		fmt.Fprintf(&b, "    stmt_%d();\n", i)
	}
	b.WriteString("}\n")
	v := viewFor(b.String(), rulesCPP)
	require.Equal(t, 500, v.LineCount())

	opts := DefaultOptions()
	opts.MaxSnippetLines = 50
	text, from, to := renderSnippet(v, 1, 500, 250, opts)

	assert.Equal(t, 225, from)
	assert.Equal(t, 274, to)
	assert.Equal(t, 50, to-from+1)

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	assert.Len(t, lines, 52, "50 content lines plus two elision markers")
	assert.Equal(t, "... (224 lines omitted)", lines[0])
	assert.Equal(t, "... (226 lines omitted)", lines[len(lines)-1])
	assert.Contains(t, text, "stmt_247();  // <-- HERE") // line 250 holds stmt_247
}

func TestRenderSnippetCropNearEdge(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 1; i <= 100; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	v := viewFor(b.String(), rulesCPP)

	opts := DefaultOptions()
	opts.MaxSnippetLines = 10

	t.Run("target near span start", func(t *testing.T) {
		text, from, to := renderSnippet(v, 1, 100, 2, opts)
		assert.Equal(t, 1, from)
		assert.Equal(t, 10, to)
		assert.NotContains(t, text, "omitted)\nline 1\n", "no leading elision at the edge")
		assert.Contains(t, text, "... (90 lines omitted)")
	})

	t.Run("target near span end", func(t *testing.T) {
		_, from, to := renderSnippet(v, 1, 100, 99, opts)
		assert.Equal(t, 91, from)
		assert.Equal(t, 100, to)
	})
}

func TestRenderSnippetClampsTarget(t *testing.T) {
	t.Parallel()

	v := viewFor("a\nb\nc\n", rulesCPP)
	text, _, _ := renderSnippet(v, 1, 3, 99, DefaultOptions())
	assert.Contains(t, text, "c  // <-- HERE")

	text, _, _ = renderSnippet(v, 2, 3, 1, DefaultOptions())
	assert.Contains(t, text, "b  // <-- HERE")
}

func TestRenderNearby(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 1; i <= 100; i++ {
		fmt.Fprintf(&b, "row %d\n", i)
	}
	v := viewFor(b.String(), rulesCPP)

	opts := DefaultOptions()
	opts.FallbackRadius = 3

	t.Run("window around target", func(t *testing.T) {
		text, from, to := renderNearby(v, 50, opts)
		assert.Equal(t, 47, from)
		assert.Equal(t, 53, to)
		assert.Contains(t, text, "   50  row 50  // <-- HERE\n")
		assert.Contains(t, text, "   47  row 47\n")
	})

	t.Run("window clipped at file start", func(t *testing.T) {
		text, from, to := renderNearby(v, 1, opts)
		assert.Equal(t, 1, from)
		assert.Equal(t, 4, to)
		assert.True(t, strings.HasPrefix(text, "    1  row 1  // <-- HERE\n"))
	})

	t.Run("target past EOF clamps", func(t *testing.T) {
		_, _, to := renderNearby(v, 10_000, opts)
		assert.Equal(t, 100, to)
	})
}
