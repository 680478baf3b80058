package source

// Balanced-delimiter scanning over cleaned text. These helpers assume the
// input went through Sanitize, so no delimiter inside a literal or comment
// can confuse the depth counting.

// closerFor maps an opening delimiter to its closer.
func closerFor(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '{':
		return '}'
	case '[':
		return ']'
	case '<':
		return '>'
	}
	return 0
}

// matchForward returns the offset of the delimiter that closes the group
// opened at open, or -1 when the group never closes.
func matchForward(clean string, open int) int {
	if open < 0 || open >= len(clean) {
		return -1
	}
	opener := clean[open]
	closer := closerFor(opener)
	if closer == 0 {
		return -1
	}

	depth := 0
	for i := open; i < len(clean); i++ {
		switch clean[i] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// maxAngleSpan bounds how far a speculative template-argument scan may run.
// Angle brackets double as comparison operators, so a scan that drifts past
// a statement boundary is a misparse, not a template.
const maxAngleSpan = 512

// matchAngle returns the offset of the '>' closing the '<' at open, or -1.
// Unlike matchForward it aborts on statement-level characters that cannot
// appear inside a template argument list.
func matchAngle(clean string, open int) int {
	if open < 0 || open >= len(clean) || clean[open] != '<' {
		return -1
	}

	depth := 0
	limit := open + maxAngleSpan
	if limit > len(clean) {
		limit = len(clean)
	}
	for i := open; i < limit; i++ {
		switch clean[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i
			}
		case ';', '{', '}':
			return -1
		}
	}
	return -1
}

// skipSpace returns the first offset at or after i that is not whitespace.
func skipSpace(clean string, i int) int {
	for i < len(clean) && isSpace(clean[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
