package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DialectRules controls which structural forms the sanitizer and locators
// recognize for a file. Rules are derived once per file from its name and
// never change afterwards.
type DialectRules struct {
	Name string

	// VerbatimStrings enables C# @"..." strings where "" is an escaped quote.
	VerbatimStrings bool
	// TripleQuoteRaw enables C# 11 """...""" raw string blocks (three or
	// more quotes, closed by a run of the same length).
	TripleQuoteRaw bool
	// DelimitedRaw enables C++ R"delim(...)delim" raw strings, including
	// the LR/uR/UR/u8R encoding-prefixed forms.
	DelimitedRaw bool
	// ExpressionBodies enables => expression-bodied members.
	ExpressionBodies bool
	// AccessorKeywords enables the get/set/add/remove property accessor
	// classification in the enclosing-block locator.
	AccessorKeywords bool
}

// Built-in rule sets. Unknown extensions fall back to C++ rules: they are the
// most permissive set that cannot misread C or C++ input, and headers are
// shared between C and C++ anyway.
var (
	rulesC = DialectRules{
		Name: "c",
	}
	rulesCPP = DialectRules{
		Name:         "cpp",
		DelimitedRaw: true,
	}
	rulesCSharp = DialectRules{
		Name:             "csharp",
		VerbatimStrings:  true,
		TripleQuoteRaw:   true,
		ExpressionBodies: true,
		AccessorKeywords: true,
	}
)

// DefaultDialectGlobs is the built-in file-pattern table mapping dialect
// names to file name globs. It can be overridden through configuration.
func DefaultDialectGlobs() map[string][]string {
	return map[string][]string{
		"c":      {"*.c"},
		"cpp":    {"*.cpp", "*.cc", "*.cxx", "*.hpp", "*.hh", "*.hxx", "*.h", "*.ipp", "*.inl"},
		"csharp": {"*.cs", "*.csx"},
	}
}

type dialectEntry struct {
	pattern glob.Glob
	rules   DialectRules
}

// DialectResolver maps file paths to dialect rules using glob patterns
// matched against the lowercased base name.
type DialectResolver struct {
	entries []dialectEntry
}

// NewDialectResolver compiles a dialect glob table. Keys must be one of
// "c", "cpp" or "csharp"; patterns are matched against base names.
func NewDialectResolver(globs map[string][]string) (*DialectResolver, error) {
	if len(globs) == 0 {
		globs = DefaultDialectGlobs()
	}

	r := &DialectResolver{}
	// Fixed key order so resolution is deterministic when patterns overlap.
	for _, name := range []string{"csharp", "c", "cpp"} {
		rules, ok := rulesByName(name)
		if !ok {
			continue
		}
		for _, pattern := range globs[name] {
			g, err := glob.Compile(strings.ToLower(pattern))
			if err != nil {
				return nil, fmt.Errorf("invalid dialect pattern %q for %s: %w", pattern, name, err)
			}
			r.entries = append(r.entries, dialectEntry{pattern: g, rules: rules})
		}
	}

	for name := range globs {
		if _, ok := rulesByName(name); !ok {
			return nil, fmt.Errorf("unknown dialect %q (want c, cpp or csharp)", name)
		}
	}

	return r, nil
}

// Resolve returns the dialect rules for a file path. Paths that match no
// pattern get the C++ rules.
func (r *DialectResolver) Resolve(path string) DialectRules {
	base := strings.ToLower(filepath.Base(path))
	for _, e := range r.entries {
		if e.pattern.Match(base) {
			return e.rules
		}
	}
	return rulesCPP
}

func rulesByName(name string) (DialectRules, bool) {
	switch name {
	case "c":
		return rulesC, true
	case "cpp":
		return rulesCPP, true
	case "csharp":
		return rulesCSharp, true
	}
	return DialectRules{}, false
}
