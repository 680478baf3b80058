package source

import "strings"

// span is a half-open character range into a FileView's text.
type span struct {
	start, end int
}

// bodyKind distinguishes how a candidate signature terminated.
type bodyKind int

const (
	bodyBlock      bodyKind = iota // { ... }
	bodyExpression                 // => expr ;
)

// locateByName is the primary strategy: find an occurrence of the function's
// short name near the target offset, then validate that a full signature and
// body actually follow it. Candidates are tried nearest-first, occurrences
// before the target ahead of those after it; the first one that parses and
// covers the target wins.
func locateByName(v *FileView, name string, target int, opts Options) (span, bool) {
	if name == "" || len(v.Clean) == 0 {
		return span{}, false
	}
	if target > len(v.Clean) {
		target = len(v.Clean)
	}

	lo := target - opts.SearchRadius
	if lo < 0 {
		lo = 0
	}
	hi := target + opts.SearchRadius
	if hi > len(v.Clean) {
		hi = len(v.Clean)
	}

	var before, after []int
	for i := lo; i < hi; {
		j := strings.Index(v.Clean[i:hi], name)
		if j < 0 {
			break
		}
		occ := i + j
		i = occ + 1
		if !identBoundary(v.Clean, occ, len(name)) {
			continue
		}
		if occ < target {
			if target-occ <= opts.CandidateCutoff {
				before = append(before, occ)
			}
		} else if occ-target <= opts.CandidateCutoff {
			after = append(after, occ)
		}
	}

	// Nearest-first: decreasing offsets before the target, then increasing
	// offsets after it.
	for i := len(before) - 1; i >= 0; i-- {
		if s, ok := tryCandidate(v, before[i], len(name), target, opts); ok {
			return s, true
		}
	}
	for _, occ := range after {
		if s, ok := tryCandidate(v, occ, len(name), target, opts); ok {
			return s, true
		}
	}
	return span{}, false
}

// identBoundary reports whether clean[occ:occ+n] is delimited by
// non-identifier characters on both sides.
func identBoundary(clean string, occ, n int) bool {
	if occ > 0 && isIdentChar(clean[occ-1]) {
		return false
	}
	if occ+n < len(clean) && isIdentChar(clean[occ+n]) {
		return false
	}
	return true
}

// tryCandidate parses a signature starting right after the name occurrence
// and applies the coverage rules from the locator contract.
func tryCandidate(v *FileView, occ, nameLen, target int, opts Options) (span, bool) {
	bodyEnd, kind, ok := parseSignature(v.Clean, occ+nameLen, v.Rules)
	if !ok {
		return span{}, false
	}

	s := span{start: occ, end: bodyEnd + 1}
	targetLine := v.LineOf(target)
	startLine := v.LineOf(s.start)
	endLine := v.LineOf(bodyEnd)

	switch kind {
	case bodyExpression:
		// Expression bodies are one statement; tolerate the stack line
		// pointing one line off.
		if targetLine >= startLine-1 && targetLine <= endLine+1 {
			return s, true
		}
		return span{}, false
	default:
		if targetLine >= startLine && targetLine <= endLine {
			return s, true
		}
		// Stack lines often point just past a call near the function, e.g.
		// at a trailing logging statement. Accept close misses by raw
		// character distance.
		if abs(occ-target) <= opts.NearMissDistance {
			return s, true
		}
		return span{}, false
	}
}

// parseSignature consumes, starting at p (just past the name): optional
// template/generic arguments, a required parameter list, then any run of
// post-signature decorations. It returns the offset of the final body
// character and the body kind.
//
// Decorations cover constructor initializer lists, inheritance lists,
// trailing return types, attributes, qualifier keywords and macro-style
// decorator invocations. A bare ';' in decoration position means the
// candidate is a declaration, not a definition, and is rejected.
func parseSignature(clean string, p int, rules DialectRules) (bodyEnd int, kind bodyKind, ok bool) {
	n := len(clean)

	i := skipSpace(clean, p)
	if i < n && clean[i] == '<' {
		j := matchAngle(clean, i)
		if j < 0 {
			return 0, 0, false
		}
		i = skipSpace(clean, j+1)
	}

	if i >= n || clean[i] != '(' {
		return 0, 0, false
	}
	parenEnd := matchForward(clean, i)
	if parenEnd < 0 {
		return 0, 0, false
	}

	i = parenEnd + 1
	for {
		i = skipSpace(clean, i)
		if i >= n {
			return 0, 0, false
		}

		switch c := clean[i]; {
		case c == '{':
			// Body must be a structurally complete balanced region.
			end := matchForward(clean, i)
			if end < 0 {
				return 0, 0, false
			}
			return end, bodyBlock, true

		case c == '=' && i+1 < n && clean[i+1] == '>':
			if !rules.ExpressionBodies {
				return 0, 0, false
			}
			end := findStatementEnd(clean, i+2)
			if end < 0 {
				return 0, 0, false
			}
			return end, bodyExpression, true

		case c == ';':
			// Declaration only.
			return 0, 0, false

		case c == ':', c == ',', c == '=', c == '&', c == '*':
			// Initializer/inheritance introducers and the punctuation that
			// strings initializer items and ref qualifiers together.
			i++

		case c == '-' && i+1 < n && clean[i+1] == '>':
			i = consumeTypeRun(clean, i+2)

		case c == '[':
			end := matchForward(clean, i)
			if end < 0 {
				return 0, 0, false
			}
			i = end + 1

		case isIdentChar(c):
			for i < n && isIdentChar(clean[i]) {
				i++
			}
			j := skipSpace(clean, i)
			if j < n && clean[j] == '(' {
				// Qualifier with arguments or a macro/decorator invocation:
				// noexcept(...), requires(...), THROW_SPEC(...).
				end := matchForward(clean, j)
				if end < 0 {
					return 0, 0, false
				}
				i = end + 1
			}

		case c == '<':
			// Template arguments inside a requires clause or similar.
			end := matchAngle(clean, i)
			if end < 0 {
				return 0, 0, false
			}
			i = end + 1

		default:
			return 0, 0, false
		}
	}
}

// consumeTypeRun advances over a trailing-return-type token run: identifiers,
// scope separators, pointers/references, and balanced angle, paren and
// bracket groups. It stops before anything that belongs to the decoration
// scan proper.
func consumeTypeRun(clean string, i int) int {
	n := len(clean)
	for i < n {
		i = skipSpace(clean, i)
		if i >= n {
			return i
		}
		switch c := clean[i]; {
		case isIdentChar(c), c == ':', c == '*', c == '&', c == ',', c == '.':
			i++
		case c == '<':
			end := matchAngle(clean, i)
			if end < 0 {
				return i
			}
			i = end + 1
		case c == '(', c == '[':
			end := matchForward(clean, i)
			if end < 0 {
				return i
			}
			i = end + 1
		default:
			return i
		}
	}
	return i
}

// findStatementEnd returns the offset of the next ';' at top level relative
// to any bracket groups opened at or after start, or -1.
func findStatementEnd(clean string, start int) int {
	depth := 0
	for i := start; i < len(clean); i++ {
		switch clean[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
