package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maypok86/otter"
)

// FileView is the immutable per-file value the extraction core works on.
// Raw and Clean always have the same length and identical newline positions,
// so offsets and line numbers computed against either one agree.
type FileView struct {
	Path        string
	Raw         string
	Clean       string
	LineOffsets []int // offset of the start of each line; LineOffsets[0] == 0
	Rules       DialectRules
}

// NewFileView builds a view from file content. It is deterministic: two
// views built from the same content are identical.
func NewFileView(path, raw string, rules DialectRules) *FileView {
	return &FileView{
		Path:        path,
		Raw:         raw,
		Clean:       Sanitize(raw, rules),
		LineOffsets: lineOffsets(raw),
		Rules:       rules,
	}
}

func lineOffsets(raw string) []int {
	offsets := []int{0}
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// LineCount returns the number of lines in the file. A trailing newline does
// not start a new countable line unless text follows it.
func (v *FileView) LineCount() int {
	n := len(v.LineOffsets)
	if n > 1 && v.LineOffsets[n-1] == len(v.Raw) {
		return n - 1
	}
	return n
}

// LineOf converts a character offset into a 1-based line number using binary
// search over the line start table. Offsets past EOF map to the last line.
func (v *FileView) LineOf(offset int) int {
	if offset < 0 {
		return 1
	}
	if offset >= len(v.Raw) {
		return v.LineCount()
	}
	// First line start strictly greater than offset; the offset's line is
	// the one before it.
	i := sort.Search(len(v.LineOffsets), func(i int) bool {
		return v.LineOffsets[i] > offset
	})
	return i
}

// LineStart returns the character offset where the 1-based line begins.
// Out-of-range lines clamp to the file edges.
func (v *FileView) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(v.LineOffsets) {
		return len(v.Raw)
	}
	return v.LineOffsets[line-1]
}

// LineEnd returns the offset one past the last content character of the
// line, excluding the line break.
func (v *FileView) LineEnd(line int) int {
	if line < 1 {
		return 0
	}
	if line >= len(v.LineOffsets) {
		return len(v.Raw)
	}
	end := v.LineOffsets[line] - 1 // position of '\n'
	if end > 0 && v.Raw[end-1] == '\r' {
		end--
	}
	return end
}

// RawLine returns the text of the 1-based line without its line break.
func (v *FileView) RawLine(line int) string {
	return v.Raw[v.LineStart(line):v.LineEnd(line)]
}

// CleanLine returns the sanitized text of the 1-based line.
func (v *FileView) CleanLine(line int) string {
	return v.Clean[v.LineStart(line):v.LineEnd(line)]
}

// Cache hands out FileViews, building each one at most once per distinct
// path for the life of the process. Views are immutable, so concurrent
// lookups for the same path racing on first use simply compute the same
// value; the last writer wins with no correctness impact.
type Cache struct {
	views    otter.Cache[string, *FileView]
	resolver *DialectResolver
}

// NewCache creates a view cache bounded to maxFiles entries. The resolver
// decides per-file dialect rules; nil means the built-in table.
func NewCache(resolver *DialectResolver, maxFiles int) (*Cache, error) {
	if resolver == nil {
		r, err := NewDialectResolver(nil)
		if err != nil {
			return nil, err
		}
		resolver = r
	}
	if maxFiles <= 0 {
		maxFiles = 1024
	}

	views, err := otter.MustBuilder[string, *FileView](maxFiles).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build view cache: %w", err)
	}

	return &Cache{views: views, resolver: resolver}, nil
}

// View returns the FileView for a path, reading and sanitizing the file on
// first use. The cache key is case-insensitive so stack traces that differ
// only in path casing share one entry.
func (c *Cache) View(path string) (*FileView, error) {
	key := normalizePath(path)

	if v, ok := c.views.Get(key); ok {
		return v, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	v := NewFileView(path, string(data), c.resolver.Resolve(path))
	c.views.Set(key, v)
	return v, nil
}

// Invalidate drops the cached view for a path, if any. Used by long-running
// servers when a watched source file changes on disk; one-shot extraction
// never calls it.
func (c *Cache) Invalidate(path string) {
	c.views.Delete(normalizePath(path))
}

// Close releases the cache's internal resources.
func (c *Cache) Close() {
	c.views.Close()
}

func normalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return strings.ToLower(abs)
}
