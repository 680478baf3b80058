package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// anchorAtLine gives the offset of the first character of a 1-based line.
func anchorAtLine(v *FileView, line int) int {
	return v.LineStart(line)
}

func TestSignatureStartLine(t *testing.T) {
	t.Parallel()

	t.Run("wrapped parameter list with template", func(t *testing.T) {
		src := strings.Join([]string{
			"template <typename T>",
			"static int wrapped(",
			"    T first,",
			"    T second)",
			"{",
			"}",
		}, "\n")
		v := viewFor(src, rulesCPP)
		assert.Equal(t, 1, signatureStartLine(v, anchorAtLine(v, 4), DefaultOptions()))
	})

	t.Run("stops at statement terminator", func(t *testing.T) {
		src := "int done();\nvoid next()\n{\n}\n"
		v := viewFor(src, rulesCPP)
		assert.Equal(t, 2, signatureStartLine(v, anchorAtLine(v, 2), DefaultOptions()))
	})

	t.Run("stops at blank line", func(t *testing.T) {
		src := "int unrelated\n\nvoid next()\n{\n}\n"
		v := viewFor(src, rulesCPP)
		assert.Equal(t, 3, signatureStartLine(v, anchorAtLine(v, 3), DefaultOptions()))
	})

	t.Run("stops at preprocessor directive", func(t *testing.T) {
		src := "#ifdef WIN32\nvoid next()\n{\n}\n"
		v := viewFor(src, rulesCPP)
		assert.Equal(t, 2, signatureStartLine(v, anchorAtLine(v, 2), DefaultOptions()))
	})

	t.Run("absorbs attributes", func(t *testing.T) {
		src := "[Fact]\npublic void Button_Click()\n{\n}\n"
		v := viewFor(src, rulesCSharp)
		assert.Equal(t, 1, signatureStartLine(v, anchorAtLine(v, 2), DefaultOptions()))
	})

	t.Run("absorbs decorator macro", func(t *testing.T) {
		src := "DECLARE_EXPORT(Render)\nvoid Render()\n{\n}\n"
		v := viewFor(src, rulesCPP)
		assert.Equal(t, 1, signatureStartLine(v, anchorAtLine(v, 2), DefaultOptions()))
	})

	t.Run("trailing qualifier continues", func(t *testing.T) {
		src := "void Frob() const\n{\n}\n"
		v := viewFor(src, rulesCPP)
		// Anchored at the brace line, the const-terminated line above merges.
		assert.Equal(t, 1, signatureStartLine(v, anchorAtLine(v, 2), DefaultOptions()))
	})

	t.Run("initializer list continuation", func(t *testing.T) {
		src := strings.Join([]string{
			"Widget::Widget(int w)",
			"    : width_(w),",
			"      height_(0)",
			"{",
			"}",
		}, "\n")
		v := viewFor(src, rulesCPP)
		assert.Equal(t, 1, signatureStartLine(v, anchorAtLine(v, 3), DefaultOptions()))
	})

	t.Run("merge limit is respected", func(t *testing.T) {
		lines := make([]string, 0, 32)
		for i := 0; i < 30; i++ {
			lines = append(lines, "    int a,")
		}
		lines = append(lines, "    int z)")
		src := strings.Join(lines, "\n") + "\n"
		v := viewFor(src, rulesCPP)

		opts := DefaultOptions()
		opts.BacktrackLimit = 5
		assert.Equal(t, 26, signatureStartLine(v, anchorAtLine(v, 31), opts))
	})
}

func TestContinuesSignature(t *testing.T) {
	t.Parallel()

	assert.True(t, continuesSignature("int open_paren("))
	assert.True(t, continuesSignature("int a,"))
	assert.True(t, continuesSignature("template <typename T>"))
	assert.True(t, continuesSignature("<TKey, TValue>"))
	assert.True(t, continuesSignature("[MethodImpl(MethodImplOptions.AggressiveInlining)]"))
	assert.True(t, continuesSignature("void f() const"))
	assert.True(t, continuesSignature("    : Base(0),")) // via trailing comma
	assert.True(t, continuesSignature("MY_MACRO(arg)"))

	assert.False(t, continuesSignature("x = compute()"))
	assert.False(t, continuesSignature("return value"))
	assert.False(t, continuesSignature("}"))
}
