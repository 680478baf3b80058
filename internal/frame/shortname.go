package frame

import "strings"

// ShortName reduces a frame's symbol text to the bare identifier the
// extraction core anchors on: the argument list is dropped, template/generic
// arguments are stripped, and the name is taken after the last scope
// separator. Operator overloads of any spelling collapse to the literal word
// "operator", which is also how headers are matched for them.
func ShortName(symbol string) string {
	s := strings.TrimSpace(symbol)
	if s == "" {
		return ""
	}

	// Drop the argument list, if the caller left one on. Only a trailing
	// paren group counts: gdb wraps anonymous namespaces in parens too.
	s = trimArgList(s)

	s = stripTemplateArgs(s)

	// .NET arity suffixes: List`1.Add keeps Add, only the `1 goes.
	for {
		i := strings.IndexByte(s, '`')
		if i < 0 {
			break
		}
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		s = s[:i] + s[j:]
	}

	// Take the segment after the last scope separator. C++ uses ::, C# and
	// .NET traces use dots.
	if i := strings.LastIndex(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}

	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "operator") && (len(s) == len("operator") || !isWordChar(s[len("operator")])) {
		return "operator"
	}
	return s
}

// trimArgList removes a balanced paren group ending the symbol, walking
// backward from the trailing ')' to its opener. Unbalanced text is returned
// unchanged.
func trimArgList(s string) string {
	if !strings.HasSuffix(s, ")") {
		return s
	}
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return s[:i]
			}
		}
	}
	return s
}

// stripTemplateArgs removes balanced <...> groups so `Foo<Bar<T>>::baz`
// becomes `Foo::baz`. Unbalanced input keeps whatever precedes the first
// unmatched bracket.
func stripTemplateArgs(s string) string {
	var b strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
				continue
			}
		}
		if depth == 0 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
