package frame

import (
	"regexp"
	"strconv"
	"strings"
)

// Frame line shapes, tried in order. Paths may contain drive colons, so the
// line number is always anchored from the right.
var (
	// .NET: `at Ns.Type.Method(String arg) in C:\src\File.cs:line 42`
	// (the ` in …` suffix is optional).
	dotnetRe = regexp.MustCompile(`^\s*at\s+(?P<sym>[^(]+)\((?P<args>[^)]*)\)(?:\s+in\s+(?P<path>.+):line\s+(?P<line>\d+))?\s*$`)

	// WinDbg / VS native: `03 mymod!ns::Type::method+0x1a [C:\src\file.cpp @ 42]`
	// (frame number, displacement and source bracket all optional).
	windbgRe = regexp.MustCompile(`^\s*(?:[0-9a-fA-F]+\s+)?(?P<mod>[\w.\-]+)!(?P<sym>[^\[+]+?)(?:\+0x[0-9a-fA-F]+)?\s*(?:\[(?P<path>.+?)\s*@\s*(?P<line>\d+)\s*\])?\s*$`)

	// gdb / lldb: `#3  0x00007ffff7a05b97 in ns::func (x=1) at /src/file.cpp:42`
	gdbRe = regexp.MustCompile(`^\s*#\d+\s+(?:0x[0-9a-fA-F]+\s+in\s+)?(?P<sym>.+?)\s*\((?P<args>[^)]*)\)\s+at\s+(?P<path>.+):(?P<line>\d+)\s*$`)

	// gdb frames inside stripped libraries carry the library instead of a
	// source location: `#5 0x… in __libc_start_main () from /lib/libc.so.6`.
	gdbFromRe = regexp.MustCompile(`^\s*#\d+\s+(?:0x[0-9a-fA-F]+\s+in\s+)?(?P<sym>.+?)\s*\((?P<args>[^)]*)\)\s+from\s+(?P<mod>\S+)\s*$`)

	// Generic: `Symbol (path:42)` or a bare `path:42`.
	genericRe = regexp.MustCompile(`^\s*(?P<sym>[^()\s]+)?\s*\(\s*(?P<loc>[^()]+)\s*\)\s*$`)
)

func parseLine(line string) (Frame, bool) {
	if m := dotnetRe.FindStringSubmatch(line); m != nil {
		f := Frame{Symbol: strings.TrimSpace(group(dotnetRe, m, "sym"))}
		if path := group(dotnetRe, m, "path"); path != "" {
			f.Path = strings.TrimSpace(path)
			f.Line, f.HasLine = atoi(group(dotnetRe, m, "line"))
		}
		return f, f.Symbol != ""
	}

	if m := windbgRe.FindStringSubmatch(line); m != nil {
		f := Frame{
			Module: group(windbgRe, m, "mod"),
			Symbol: strings.TrimSpace(group(windbgRe, m, "sym")),
		}
		if path := group(windbgRe, m, "path"); path != "" {
			f.Path = strings.TrimSpace(path)
			f.Line, f.HasLine = atoi(group(windbgRe, m, "line"))
		}
		return f, f.Symbol != ""
	}

	if m := gdbRe.FindStringSubmatch(line); m != nil {
		return Frame{
			Symbol:  strings.TrimSpace(group(gdbRe, m, "sym")),
			Path:    strings.TrimSpace(group(gdbRe, m, "path")),
			Line:    mustAtoi(group(gdbRe, m, "line")),
			HasLine: true,
		}, true
	}

	if m := gdbFromRe.FindStringSubmatch(line); m != nil {
		return Frame{
			Symbol: strings.TrimSpace(group(gdbFromRe, m, "sym")),
			Module: group(gdbFromRe, m, "mod"),
		}, true
	}

	if m := genericRe.FindStringSubmatch(line); m != nil {
		if path, num, ok := splitLocation(group(genericRe, m, "loc")); ok {
			return Frame{
				Symbol:  strings.TrimSpace(group(genericRe, m, "sym")),
				Path:    path,
				Line:    num,
				HasLine: true,
			}, true
		}
	}

	if path, num, ok := splitLocation(strings.TrimSpace(line)); ok && looksLikePath(path) {
		return Frame{Path: path, Line: num, HasLine: true}, true
	}

	return Frame{}, false
}

// splitLocation splits `path:42` on the last colon followed by digits, so
// Windows drive letters survive.
func splitLocation(loc string) (string, int, bool) {
	i := strings.LastIndex(loc, ":")
	if i <= 0 || i == len(loc)-1 {
		return "", 0, false
	}
	num, ok := atoi(loc[i+1:])
	if !ok {
		return "", 0, false
	}
	return strings.TrimSpace(loc[:i]), num, true
}

// looksLikePath filters bare path:line candidates: the path part needs a
// separator or a source-ish extension, otherwise `foo:12` in prose would
// produce phantom frames.
func looksLikePath(path string) bool {
	if strings.ContainsAny(path, `/\`) {
		return true
	}
	dot := strings.LastIndex(path, ".")
	return dot > 0 && dot < len(path)-1
}

func group(re *regexp.Regexp, m []string, name string) string {
	idx := re.SubexpIndex(name)
	if idx < 0 || idx >= len(m) {
		return ""
	}
	return m[idx]
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

func mustAtoi(s string) int {
	n, _ := atoi(s)
	return n
}
