package source

import (
	"regexp"
	"strings"
)

// headerLines is how many lines immediately above a '{' are considered when
// classifying the block's header.
const headerLines = 5

// maxBlockCandidates bounds how many enclosing braces the fallback walk may
// examine, so the scan terminates quickly even in pathological files.
const maxBlockCandidates = 256

// locateEnclosingBlock is the fallback strategy: find the smallest
// brace-delimited block containing the target whose preceding header
// plausibly reads as a function or property accessor. It is used when the
// symbol name never matched, e.g. for heavily mangled or inlined frames.
func locateEnclosingBlock(v *FileView, target int, nameHint string, opts Options) (span, bool) {
	clean := v.Clean
	if len(clean) == 0 {
		return span{}, false
	}
	if target >= len(clean) {
		target = len(clean) - 1
	}

	examined := 0
	for pos := target; pos >= 0 && examined < maxBlockCandidates; pos-- {
		if clean[pos] != '{' {
			continue
		}
		examined++

		closing := matchForward(clean, pos)
		if closing < 0 || target < pos || target > closing {
			continue
		}

		header := headerBefore(v, pos)
		switch classifyHeader(header, nameHint, v.Rules) {
		case headerFunction, headerAccessor:
			return span{start: headerAnchor(v, pos), end: closing + 1}, true
		}
	}

	if v.Rules.ExpressionBodies {
		return locateExpressionBody(v, target)
	}
	return span{}, false
}

// headerBefore returns the last headerLines lines of cleaned text
// immediately preceding the brace at pos, plus whatever sits before the
// brace on its own line.
func headerBefore(v *FileView, pos int) string {
	line := v.LineOf(pos)
	first := line - headerLines
	if first < 1 {
		first = 1
	}
	return v.Clean[v.LineStart(first):pos]
}

// headerAnchor picks the offset the signature backtracker starts from: the
// first non-blank content before the brace, falling back to the brace
// itself. Without this a brace on its own line would anchor the extraction
// below its signature.
func headerAnchor(v *FileView, pos int) int {
	i := pos - 1
	for i >= 0 && isSpace(v.Clean[i]) {
		i--
	}
	if i < 0 {
		return pos
	}
	return v.LineStart(v.LineOf(i)) + leadingSpace(v.CleanLine(v.LineOf(i)))
}

func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

type headerClass int

const (
	headerRejected headerClass = iota
	headerFunction
	headerAccessor
)

var (
	controlParenRe = regexp.MustCompile(`\b(if|for|while|switch|catch)\s*\(`)
	typeDeclRe     = regexp.MustCompile(`\b(class|struct|namespace|enum|union)\b`)
)

// classifyHeader decides whether the text before an opening brace reads as a
// function definition header or a property accessor. The predicates run in a
// fixed priority order; each is independently testable.
func classifyHeader(header, nameHint string, rules DialectRules) headerClass {
	trimmed := strings.TrimSpace(header)
	if trimmed == "" {
		return headerRejected
	}

	if isLambdaHeader(trimmed) {
		return headerRejected
	}
	if isControlHeader(trimmed) {
		return headerRejected
	}
	if isTypeDeclHeader(trimmed) {
		return headerRejected
	}

	if strings.Contains(trimmed, "(") {
		if !matchesNameHint(trimmed, nameHint) {
			return headerRejected
		}
		return headerFunction
	}

	if rules.AccessorKeywords && isAccessorHeader(trimmed, nameHint) {
		return headerAccessor
	}
	return headerRejected
}

// isLambdaHeader reports whether the header ends in a lambda capture plus
// parameter list, i.e. `](`.
func isLambdaHeader(header string) bool {
	return strings.Contains(header, "](")
}

// isControlHeader rejects control statements: keywords taking a paren
// condition, and the bare else/do/try forms.
func isControlHeader(header string) bool {
	if controlParenRe.MatchString(header) {
		return true
	}
	switch lastWord(header) {
	case "else", "do", "try":
		return true
	}
	return false
}

// isTypeDeclHeader rejects type-introducing declarations whose brace opens a
// member list rather than a function body.
func isTypeDeclHeader(header string) bool {
	return typeDeclRe.MatchString(header)
}

// matchesNameHint checks that the header textually contains the wanted
// function name when one is known. Operator-named hints match on the literal
// word "operator" since the operator token itself varies.
func matchesNameHint(header, nameHint string) bool {
	if nameHint == "" {
		return true
	}
	if strings.HasPrefix(nameHint, "operator") {
		return strings.Contains(header, "operator")
	}
	return strings.Contains(header, nameHint)
}

// accessorPrefixes maps the compiler-generated accessor method prefixes to
// the source keyword that opens the accessor block.
var accessorPrefixes = map[string]string{
	"get_":    "get",
	"set_":    "set",
	"add_":    "add",
	"remove_": "remove",
}

var accessorKeywords = map[string]bool{
	"get": true, "set": true, "add": true, "remove": true, "init": true,
}

// isAccessorHeader accepts property accessor blocks: the header has no
// parameter list, the name hint identifies an accessor, and the header's
// trailing word is the matching accessor keyword.
func isAccessorHeader(header, nameHint string) bool {
	if nameHint == "" {
		return false
	}
	last := lastWord(header)
	if last == "" {
		return false
	}
	for prefix, keyword := range accessorPrefixes {
		if strings.HasPrefix(nameHint, prefix) {
			return last == keyword
		}
	}
	return accessorKeywords[nameHint] && last == nameHint
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// locateExpressionBody is the last structural resort for dialects with
// expression-bodied members: scan the target line and up to five lines above
// it for an arrow form terminated by the next ';'.
func locateExpressionBody(v *FileView, target int) (span, bool) {
	targetLine := v.LineOf(target)
	for line := targetLine; line >= 1 && line >= targetLine-5; line-- {
		text := v.CleanLine(line)
		col := strings.Index(text, "=>")
		if col < 0 {
			continue
		}
		arrow := v.LineStart(line) + col
		end := findStatementEnd(v.Clean, arrow+2)
		if end < 0 {
			continue
		}
		start := v.LineStart(line) + leadingSpace(text)
		return span{start: start, end: end + 1}, true
	}
	return span{}, false
}
