package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newlinePositions returns every offset holding '\n'.
func newlinePositions(s string) []int {
	var out []int
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, i)
		}
	}
	return out
}

func TestSanitizePreservesLayout(t *testing.T) {
	t.Parallel()

	samples := []string{
		"",
		"int main() { return 0; }\n",
		"// comment\nint x;\n",
		"/* multi\nline\ncomment */ int y;\n",
		"const char *s = \"hello { } ( ) \\\" world\";\n",
		"char c = '{';\nchar d = '\\'';\n",
		"auto s = R\"(raw { ) string)\";\n",
		"auto s = R\"tag(nested )\" still raw)tag\";\n",
		"var s = @\"verbatim \"\" quote { \";\nint after;\n",
		"var s = \"\"\"\nraw block { } \"quoted\"\n\"\"\";\n",
		"\"unterminated string\nint z;\n",
		"/* unterminated comment\nint w;\n",
		"int separators = 1'000'000;\n",
	}

	for _, raw := range samples {
		for _, rules := range []DialectRules{rulesC, rulesCPP, rulesCSharp} {
			clean := Sanitize(raw, rules)
			require.Equal(t, len(raw), len(clean), "length must be preserved: %q (%s)", raw, rules.Name)
			assert.Equal(t, newlinePositions(raw), newlinePositions(clean),
				"newline offsets must be identical: %q (%s)", raw, rules.Name)
		}
	}
}

func TestSanitizeComments(t *testing.T) {
	t.Parallel()

	t.Run("line comment blanked to end of line", func(t *testing.T) {
		raw := "int x; // has { braces } and \"quotes\"\nint y;\n"
		clean := Sanitize(raw, rulesCPP)
		require.Len(t, clean, len(raw))
		assert.True(t, strings.HasPrefix(clean, "int x; "))
		assert.NotContains(t, clean, "{")
		assert.Contains(t, clean, "\nint y;\n")
	})

	t.Run("block comment keeps newlines", func(t *testing.T) {
		clean := Sanitize("a /* {\n} */ b\n", rulesCPP)
		assert.Equal(t, "a     \n     b\n", clean)
	})

	t.Run("unterminated block comment blanks rest of file", func(t *testing.T) {
		clean := Sanitize("a /* oops {\nint x;\n", rulesCPP)
		assert.NotContains(t, clean, "{")
		assert.NotContains(t, clean, "x")
		assert.Contains(t, clean, "a ")
	})
}

func TestSanitizeStrings(t *testing.T) {
	t.Parallel()

	t.Run("escaped quote does not terminate", func(t *testing.T) {
		clean := Sanitize(`x = "a\"b{" + y;`, rulesCPP)
		assert.NotContains(t, clean, "{")
		assert.Contains(t, clean, "+ y;")
	})

	t.Run("char literal", func(t *testing.T) {
		clean := Sanitize(`if (c == '{') n++;`, rulesC)
		assert.Equal(t, `if (c ==    ) n++;`, clean)
	})

	t.Run("digit separator is not a char literal", func(t *testing.T) {
		clean := Sanitize("int n = 1'000'000; { }", rulesCPP)
		assert.Contains(t, clean, "{ }")
	})

	t.Run("encoding-prefixed char literals", func(t *testing.T) {
		cases := []struct {
			raw     string
			blanked string
		}{
			{`wchar_t c = L'{';`, "{"},
			{`auto a = u'(';`, "("},
			{`auto b = U'"';`, `"`},
			{`auto d = u8'}';`, "}"},
		}
		for _, tc := range cases {
			clean := Sanitize(tc.raw, rulesCPP)
			assert.NotContains(t, clean, tc.blanked, "input %q", tc.raw)
			assert.Len(t, clean, len(tc.raw))
		}
	})

	t.Run("identifier before quote is still a separator", func(t *testing.T) {
		// Only the standard encoding prefixes open a literal; any other
		// identifier run keeps the digit-separator reading.
		clean := Sanitize("int mask = 0xFF'00; { }", rulesCPP)
		assert.Contains(t, clean, "{ }")
	})

	t.Run("verbatim doubled quote is an escape", func(t *testing.T) {
		clean := Sanitize(`var s = @"he said ""{"" loudly"; int after;`, rulesCSharp)
		assert.NotContains(t, clean, "{")
		assert.Contains(t, clean, "int after;")
	})

	t.Run("verbatim form ignored outside csharp", func(t *testing.T) {
		// In C++ '@' is not a string prefix; the quoted part still blanks.
		clean := Sanitize(`x @"abc{" y`, rulesCPP)
		assert.NotContains(t, clean, "{")
	})

	t.Run("triple quote raw block", func(t *testing.T) {
		clean := Sanitize("var s = \"\"\"\n{ \"inner\" }\n\"\"\";\nint after;\n", rulesCSharp)
		assert.NotContains(t, clean, "{")
		assert.NotContains(t, clean, "inner")
		assert.Contains(t, clean, "int after;")
	})

	t.Run("cpp delimited raw string", func(t *testing.T) {
		clean := Sanitize(`auto s = R"x(close attempt )" here)x"; int after;`, rulesCPP)
		assert.NotContains(t, clean, "close attempt")
		assert.Contains(t, clean, "int after;")
	})

	t.Run("identifier ending in R is not a raw string", func(t *testing.T) {
		clean := Sanitize(`int VAR"s";`, rulesCPP)
		// The quote still opens an ordinary string; VAR survives.
		assert.Contains(t, clean, "VAR")
	})
}

// No structural character originating inside a literal or comment may
// survive sanitization.
func TestSanitizeRemovesStructuralChars(t *testing.T) {
	t.Parallel()

	raw := `void f() {
	s = "{(<'\")}";
	c = '(';
	// stray } ) "
	/* more { ( */
}`
	clean := Sanitize(raw, rulesCPP)

	// Exactly the structural chars of the real code remain.
	count := func(s, sub string) int { return strings.Count(s, sub) }
	assert.Equal(t, 1, count(clean, "{"))
	assert.Equal(t, 1, count(clean, "}"))
	assert.Equal(t, 1, count(clean, "("))
	assert.Equal(t, 1, count(clean, ")"))
	assert.Equal(t, 0, count(clean, `"`))
	assert.Equal(t, 0, count(clean, "'"))
}
