// Package frame parses stack-trace text into (module, symbol, file, line)
// records and derives the short function names the extraction core anchors
// on. It recognizes the common .NET, WinDbg/Visual Studio and gdb/lldb frame
// shapes plus generic path:line references; anything else is skipped rather
// than failing the whole trace.
package frame

import (
	"strings"

	"github.com/google/uuid"
)

// Frame is one parsed stack-trace line.
type Frame struct {
	Index   int    `json:"index"`
	Module  string `json:"module,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	HasLine bool   `json:"hasLine"`
	Raw     string `json:"raw"`
}

// Report is the result of parsing a whole trace. The ID correlates CLI/MCP
// output with server logs.
type Report struct {
	ID     string  `json:"id"`
	Frames []Frame `json:"frames"`
}

// Parse splits trace text into lines and extracts one Frame per recognized
// line. Unparseable lines are dropped. The returned report is never nil.
func Parse(text string) *Report {
	report := &Report{ID: uuid.NewString()}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if f, ok := parseLine(line); ok {
			f.Index = len(report.Frames)
			f.Raw = line
			report.Frames = append(report.Frames, f)
		}
	}
	return report
}
