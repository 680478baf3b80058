package source

import (
	"regexp"
	"strings"
)

// decoratorCallRe matches a line that is a single macro/decorator-style
// invocation, e.g. DECLARE_EXPORT(Foo) above a C++ function.
var decoratorCallRe = regexp.MustCompile(`^[A-Za-z_][\w:]*\s*\(.*\)\s*$`)

// trailingQualifiers are the keywords that, when ending a line, mean the
// signature continues on the line below.
var trailingQualifiers = map[string]bool{
	"const": true, "noexcept": true, "override": true, "final": true,
	"requires": true, "volatile": true, "where": true, "async": true,
	"unsafe": true, "extern": true,
}

// signatureStartLine extends an anchor backward to the first line of the
// full signature, absorbing wrapped parameter lists, attributes, templates
// and constructor initializer continuations. It never crosses a blank line,
// a statement terminator or a preprocessor directive.
func signatureStartLine(v *FileView, anchor int, opts Options) int {
	line := v.LineOf(anchor)
	limit := opts.BacktrackLimit
	if limit <= 0 {
		limit = 20
	}

	for merged := 0; line > 1 && merged < limit; merged++ {
		prev := strings.TrimSpace(v.CleanLine(line - 1))
		if prev == "" || strings.HasSuffix(prev, ";") || strings.HasPrefix(prev, "#") {
			break
		}
		if !continuesSignature(prev) {
			break
		}
		line--
	}
	return line
}

// continuesSignature reports whether a (trimmed, cleaned) line above the
// current signature start belongs to the same signature.
func continuesSignature(prev string) bool {
	switch {
	case strings.HasPrefix(prev, "["):
		// Attribute: [Fact], [[nodiscard]].
		return true
	case strings.HasPrefix(prev, "template") && strings.Contains(prev, "<"):
		return true
	case strings.HasPrefix(prev, "<") && strings.HasSuffix(prev, ">"):
		// A generic parameter list wrapped onto its own line.
		return true
	case strings.Count(prev, "(") > strings.Count(prev, ")"):
		// Unclosed parameter list.
		return true
	case strings.HasSuffix(prev, ","):
		return true
	case strings.HasSuffix(prev, ":") || strings.Contains(prev, " : "):
		// Constructor initializer or base list continuation.
		return true
	case trailingQualifiers[lastWord(prev)]:
		return true
	case decoratorCallRe.MatchString(prev):
		return true
	}
	return false
}
