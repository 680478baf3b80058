package source

import (
	"fmt"
	"strings"
)

// renderSnippet produces the final text for an extracted line range: the
// current-line marker is stamped on the target line (clamped into range),
// and spans longer than MaxSnippetLines are cropped to a centered window
// with elision markers for the omitted material.
//
// It returns the rendered text and the line range that survived the crop.
func renderSnippet(v *FileView, startLine, endLine, targetLine int, opts Options) (string, int, int) {
	if startLine < 1 {
		startLine = 1
	}
	if endLine > v.LineCount() {
		endLine = v.LineCount()
	}
	if targetLine < startLine {
		targetLine = startLine
	}
	if targetLine > endLine {
		targetLine = endLine
	}

	from, to := startLine, endLine
	if limit := opts.MaxSnippetLines; limit > 0 && endLine-startLine+1 > limit {
		// Center on the target, re-centering toward either edge when the
		// naive window would run past the span.
		from = targetLine - limit/2
		if from < startLine {
			from = startLine
		}
		to = from + limit - 1
		if to > endLine {
			to = endLine
			from = to - limit + 1
			if from < startLine {
				from = startLine
			}
		}
	}

	var b strings.Builder
	if from > startLine {
		fmt.Fprintf(&b, "... (%d lines omitted)\n", from-startLine)
	}
	for line := from; line <= to; line++ {
		b.WriteString(v.RawLine(line))
		if line == targetLine {
			b.WriteString(opts.Marker)
		}
		b.WriteByte('\n')
	}
	if to < endLine {
		fmt.Fprintf(&b, "... (%d lines omitted)\n", endLine-to)
	}
	return b.String(), from, to
}

// renderNearby is the last-resort view: a fixed-radius numbered window of
// raw lines around the target. It always returns text, whatever the file
// contains.
func renderNearby(v *FileView, targetLine int, opts Options) (string, int, int) {
	radius := opts.FallbackRadius
	if radius <= 0 {
		radius = 24
	}
	if targetLine < 1 {
		targetLine = 1
	}
	if targetLine > v.LineCount() {
		targetLine = v.LineCount()
	}

	from := targetLine - radius
	if from < 1 {
		from = 1
	}
	to := targetLine + radius
	if to > v.LineCount() {
		to = v.LineCount()
	}

	var b strings.Builder
	for line := from; line <= to; line++ {
		fmt.Fprintf(&b, "%5d  %s", line, v.RawLine(line))
		if line == targetLine {
			b.WriteString(opts.Marker)
		}
		b.WriteByte('\n')
	}
	return b.String(), from, to
}
