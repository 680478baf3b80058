package source

import "strings"

// Sanitize blanks the contents of comments, string literals and character
// literals so that brace, paren and name matching can run on the result
// without tripping over quoted text. The output has exactly the same length
// as the input and every newline stays at its original offset, so line
// numbers computed from either text agree.
//
// Malformed input never fails: an unterminated literal or comment blanks the
// rest of the file.
func Sanitize(raw string, rules DialectRules) string {
	out := []byte(raw)
	n := len(raw)

	// blank replaces out[i] with a space unless it is a line break.
	blank := func(i int) {
		if out[i] != '\n' && out[i] != '\r' {
			out[i] = ' '
		}
	}

	i := 0
	for i < n {
		c := raw[i]

		switch {
		case c == '/' && i+1 < n && raw[i+1] == '/':
			// Line comment: blank to end of line.
			for i < n && raw[i] != '\n' {
				blank(i)
				i++
			}

		case c == '/' && i+1 < n && raw[i+1] == '*':
			// Block comment: blank to */ inclusive, newlines kept.
			blank(i)
			blank(i + 1)
			i += 2
			for i < n {
				if raw[i] == '*' && i+1 < n && raw[i+1] == '/' {
					blank(i)
					blank(i + 1)
					i += 2
					break
				}
				blank(i)
				i++
			}

		case rules.VerbatimStrings && isVerbatimStart(raw, i):
			i = blankVerbatim(raw, out, i, blank)

		case rules.TripleQuoteRaw && c == '"' && quoteRun(raw, i) >= 3:
			i = blankRawQuotes(raw, out, i, blank)

		case rules.DelimitedRaw && isDelimitedRawStart(raw, i):
			i = blankDelimitedRaw(raw, out, i, blank)

		case c == '"':
			i = blankQuoted(raw, out, i, '"', blank)

		case c == '\'' && isCharLiteralStart(raw, i):
			i = blankQuoted(raw, out, i, '\'', blank)

		default:
			i++
		}
	}

	return string(out)
}

// blankQuoted blanks an ordinary quoted literal starting at the opening
// quote, honoring backslash escapes. Unterminated literals blank to EOF.
func blankQuoted(raw string, out []byte, start int, quote byte, blank func(int)) int {
	n := len(raw)
	blank(start)
	i := start + 1
	for i < n {
		c := raw[i]
		if c == '\\' && i+1 < n {
			blank(i)
			blank(i + 1)
			i += 2
			continue
		}
		blank(i)
		i++
		if c == quote {
			break
		}
	}
	return i
}

// isVerbatimStart reports whether raw[i:] begins a C# verbatim string:
// @" or the interpolated variants $@" / @$".
func isVerbatimStart(raw string, i int) bool {
	n := len(raw)
	switch {
	case raw[i] == '@' && i+1 < n && raw[i+1] == '"':
		return true
	case raw[i] == '@' && i+2 < n && raw[i+1] == '$' && raw[i+2] == '"':
		return true
	case raw[i] == '$' && i+2 < n && raw[i+1] == '@' && raw[i+2] == '"':
		return true
	}
	return false
}

// blankVerbatim blanks a C# verbatim string. Inside the body a doubled quote
// is an escaped quote and does not terminate the literal.
func blankVerbatim(raw string, out []byte, start int, blank func(int)) int {
	n := len(raw)
	i := start
	for i < n && raw[i] != '"' {
		blank(i)
		i++
	}
	if i < n {
		blank(i) // opening quote
		i++
	}
	for i < n {
		if raw[i] == '"' {
			if i+1 < n && raw[i+1] == '"' {
				blank(i)
				blank(i + 1)
				i += 2
				continue
			}
			blank(i)
			return i + 1
		}
		blank(i)
		i++
	}
	return i
}

// quoteRun counts consecutive double quotes starting at i.
func quoteRun(raw string, i int) int {
	run := 0
	for i+run < len(raw) && raw[i+run] == '"' {
		run++
	}
	return run
}

// blankRawQuotes blanks a triple-or-more quote raw string block. The block
// closes on a run of the same length as the opener.
func blankRawQuotes(raw string, out []byte, start int, blank func(int)) int {
	n := len(raw)
	open := quoteRun(raw, start)
	i := start
	for ; i < start+open; i++ {
		blank(i)
	}
	for i < n {
		if raw[i] == '"' && quoteRun(raw, i) >= open {
			for j := 0; j < open; j++ {
				blank(i + j)
			}
			return i + open
		}
		blank(i)
		i++
	}
	return i
}

// delimitedRawPrefixes are the recognized openers for C++ raw string
// literals, longest first so u8R wins over uR.
var delimitedRawPrefixes = []string{"u8R", "LR", "uR", "UR", "R"}

// isDelimitedRawStart reports whether raw[i:] begins a C++ raw string
// literal such as R"tag(...)tag". The position must sit on an identifier
// boundary so FooR" is not misread.
func isDelimitedRawStart(raw string, i int) bool {
	if i > 0 && isIdentChar(raw[i-1]) {
		return false
	}
	for _, p := range delimitedRawPrefixes {
		if strings.HasPrefix(raw[i:], p+`"`) {
			return true
		}
	}
	return false
}

// blankDelimitedRaw blanks a C++ raw string literal. The delimiter between
// the quote and the opening paren must reappear between the closing paren
// and the final quote.
func blankDelimitedRaw(raw string, out []byte, start int, blank func(int)) int {
	n := len(raw)
	i := start
	for i < n && raw[i] != '"' {
		blank(i)
		i++
	}
	if i >= n {
		return i
	}
	blank(i) // opening quote
	i++

	// Delimiter: up to 16 chars, terminated by '('.
	dStart := i
	for i < n && raw[i] != '(' && i-dStart <= 16 {
		blank(i)
		i++
	}
	if i >= n || raw[i] != '(' {
		// Not actually a raw literal; treat the rest conservatively as one.
		for ; i < n; i++ {
			blank(i)
		}
		return i
	}
	delim := raw[dStart:i]
	blank(i) // opening paren
	i++

	closer := ")" + delim + `"`
	for i < n {
		if raw[i] == ')' && strings.HasPrefix(raw[i:], closer) {
			for j := 0; j < len(closer); j++ {
				blank(i + j)
			}
			return i + len(closer)
		}
		blank(i)
		i++
	}
	return i
}

// isCharLiteralStart reports whether the quote at i opens a character
// literal. A quote directly after an identifier character is usually a C++14
// digit separator (1'000'000), except when the identifier run before it is
// one of the standard encoding prefixes: L'x', u'x', U'x', u8'x'.
func isCharLiteralStart(raw string, i int) bool {
	if !precededByIdentChar(raw, i) {
		return true
	}
	start := i
	for start > 0 && isIdentChar(raw[start-1]) {
		start--
	}
	switch raw[start:i] {
	case "L", "u", "U", "u8":
		return true
	}
	return false
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func precededByIdentChar(raw string, i int) bool {
	return i > 0 && isIdentChar(raw[i-1])
}
