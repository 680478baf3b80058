// Package source locates and renders the function definition a stack-trace
// frame points at, given only the file text, a symbol name and an
// approximate line number. It parses no grammar: a lexical sanitizer plus
// layered structural heuristics keep it fast and tolerant of malformed,
// partial or dialect-mixed C, C++ and C# sources.
package source

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two conditions where extraction is not attempted.
// A failed structural match is not an error: it degrades to the
// nearby-context fallback and still returns text.
var (
	ErrMissingLocation = errors.New("no source location info")
	ErrFileNotFound    = errors.New("source file not found")
)

// Strategy identifies which extraction strategy produced a result.
type Strategy string

const (
	StrategyName   Strategy = "name-anchor"
	StrategyBlock  Strategy = "enclosing-block"
	StrategyNearby Strategy = "nearby-context"
)

// Options are the tunable windows and thresholds of the extraction core.
// All scans they bound are fixed-size, so extraction always terminates
// without a timeout.
type Options struct {
	// SearchRadius bounds, in characters, how far around the target the
	// name-anchored locator looks for occurrences of the symbol.
	SearchRadius int
	// CandidateCutoff drops name occurrences farther than this many
	// characters from the target, bounding the candidate count.
	CandidateCutoff int
	// NearMissDistance accepts a parsed function that does not cover the
	// target line when the name sits within this many characters of the
	// target. Stack lines often point just past a call site; this is a
	// precision/recall trade-off and may misfire on dense one-line code,
	// which is why it is configurable rather than fixed.
	NearMissDistance int
	// BacktrackLimit caps how many lines the signature-start backtracker
	// may merge upward.
	BacktrackLimit int
	// MaxSnippetLines crops rendered snippets to a centered window of this
	// many lines.
	MaxSnippetLines int
	// FallbackRadius is the half-height of the nearby-context window.
	FallbackRadius int
	// Marker is the current-line token appended to the target line.
	Marker string
	// MaxCachedFiles bounds the FileView cache.
	MaxCachedFiles int
}

// DefaultOptions returns the tuning used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		SearchRadius:     4096,
		CandidateCutoff:  2048,
		NearMissDistance: 160,
		BacktrackLimit:   20,
		MaxSnippetLines:  60,
		FallbackRadius:   24,
		Marker:           "  // <-- HERE",
		MaxCachedFiles:   1024,
	}
}

// Request is the lookup key supplied by the stack-trace-parsing layer.
// Symbol must already be reduced to a short name (or the literal word
// "operator"); see frame.ShortName.
type Request struct {
	Path   string
	Line   int // 1-based; <= 0 means the frame carried no line info
	Symbol string
	// MaxLines, when positive, overrides the configured crop window for
	// this request only.
	MaxLines int
}

// Result is the outcome of one extraction. Text is always best-effort
// non-empty on OK; Status is a human-readable one-liner saying which lines
// were used or why the result is degraded.
type Result struct {
	OK        bool
	Text      string
	Status    string
	Strategy  Strategy
	StartLine int
	EndLine   int
}

// locateFunc is the shape every structural strategy shares, which keeps the
// fallback chain an ordered list rather than hard-wired control flow.
type locateFunc func(v *FileView, target int, symbol string, opts Options) (span, bool)

type strategyStep struct {
	name   Strategy
	locate locateFunc
}

// Extractor runs the strategy chain over cached file views. It is safe for
// concurrent use: views are immutable and the cache tolerates racing
// populators.
type Extractor struct {
	cache *Cache
	opts  Options
	chain []strategyStep
}

// NewExtractor creates an extractor with the given options. A nil resolver
// uses the built-in dialect table.
func NewExtractor(resolver *DialectResolver, opts Options) (*Extractor, error) {
	cache, err := NewCache(resolver, opts.MaxCachedFiles)
	if err != nil {
		return nil, err
	}
	return &Extractor{
		cache: cache,
		opts:  opts,
		chain: []strategyStep{
			{StrategyName, func(v *FileView, target int, symbol string, o Options) (span, bool) {
				return locateByName(v, symbol, target, o)
			}},
			{StrategyBlock, func(v *FileView, target int, symbol string, o Options) (span, bool) {
				return locateEnclosingBlock(v, target, symbol, o)
			}},
		},
	}, nil
}

// Cache exposes the underlying view cache, so a long-running server can
// invalidate entries when files change on disk.
func (e *Extractor) Cache() *Cache { return e.cache }

// Close releases the extractor's cache.
func (e *Extractor) Close() { e.cache.Close() }

// Context resolves a request to a rendered snippet. Structural strategies
// are tried in order; when none matches, the nearby-context fallback still
// produces text, flagged as degraded through OK=false and the status line.
//
// The returned error is non-nil only for ErrMissingLocation and file access
// failures; in both cases the Result still carries a usable Status.
func (e *Extractor) Context(req Request) (Result, error) {
	if req.Path == "" || req.Line <= 0 {
		return Result{Status: "no location info in frame"}, ErrMissingLocation
	}

	view, err := e.cache.View(req.Path)
	if err != nil {
		return Result{Status: err.Error()}, err
	}

	opts := e.opts
	if req.MaxLines > 0 {
		opts.MaxSnippetLines = req.MaxLines
	}

	targetLine := req.Line
	if targetLine > view.LineCount() {
		targetLine = view.LineCount()
	}
	target := view.LineStart(targetLine)

	for _, step := range e.chain {
		s, ok := step.locate(view, target, req.Symbol, opts)
		if !ok {
			continue
		}
		startLine := signatureStartLine(view, s.start, opts)
		endLine := view.LineOf(s.end - 1)
		text, from, to := renderSnippet(view, startLine, endLine, targetLine, opts)
		return Result{
			OK:        true,
			Text:      text,
			Status:    fmt.Sprintf("%s via %s: lines %d-%d", describeSymbol(req.Symbol), step.name, from, to),
			Strategy:  step.name,
			StartLine: from,
			EndLine:   to,
		}, nil
	}

	text, from, to := renderNearby(view, targetLine, opts)
	status := fmt.Sprintf("no structural match for %s; showing lines %d-%d around line %d",
		describeSymbol(req.Symbol), from, to, targetLine)
	if hint, ok := nearestIdentifier(view, req.Symbol, targetLine, opts.FallbackRadius); ok {
		status += fmt.Sprintf(" (nearest identifier: %q)", hint)
	}
	return Result{
		OK:        false,
		Text:      text,
		Status:    status,
		Strategy:  StrategyNearby,
		StartLine: from,
		EndLine:   to,
	}, nil
}

func describeSymbol(symbol string) string {
	if symbol == "" {
		return "frame"
	}
	return fmt.Sprintf("%q", symbol)
}
