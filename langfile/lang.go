// Package langfile implements reading and writing of Minecraft-style .lang
// localization files.
//
// Format: key=value pairs, one per line. Lines starting with '#' are comments
// and are preserved verbatim in rendered output. Blank lines are also
// preserved. Only the first '=' separates the key from the value, so values
// may contain '='. Literal newlines inside a value are written as the two
// characters \n and are never interpreted here.
//
// File naming convention: each language lives next to the source language:
//
//	assets/<mod>/lang/en_us.lang  (source)
//	assets/<mod>/lang/zh_cn.lang  (translation)
//
// The File type keeps every raw line, terminators included, so that rendering
// a file with its own values reproduces it byte for byte.
package langfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the file extension of localization files.
const Ext = ".lang"

// utf8BOM is tolerated at the start of a file.
const utf8BOM = "\ufeff"

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// lineKind classifies each line in the file.
type lineKind int

const (
	lineBlank     lineKind = iota // blank / whitespace-only line
	lineComment                   // comment line (starts with #)
	lineEntry                     // key=value pair
	lineMalformed                 // non-comment line without a usable '='
)

// line is a single line in the file.
type line struct {
	kind  lineKind
	raw   string // original text without terminator
	eol   string // "\n", "\r\n" or "" for a final unterminated line
	key   string // only for lineEntry
	value string // only for lineEntry
}

// File represents a parsed .lang file.
type File struct {
	lines []line
	// index maps key → index of the first line declaring it.
	index map[string]int
	// values holds the effective value per key (last declaration wins).
	values map[string]string
}

// Option configures parsing.
type Option func(*parseOptions)

type parseOptions struct {
	onMalformed func(lineNo int, raw string)
}

// WithMalformedHandler registers fn to be called for every non-comment line
// that has no '=' or an empty key. Such lines are never part of the mapping.
func WithMalformedHandler(fn func(lineNo int, raw string)) Option {
	return func(o *parseOptions) { o.onMalformed = fn }
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a .lang file from disk.
func ParseFile(path string, opts ...Option) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, opts...), nil
}

// Parse parses .lang content. It never fails: lines it cannot interpret are
// kept as malformed passthrough lines.
func Parse(data []byte, opts ...Option) *File {
	var po parseOptions
	for _, opt := range opts {
		opt(&po)
	}

	f := &File{
		index:  make(map[string]int),
		values: make(map[string]string),
	}

	for i, chunk := range splitLines(string(data)) {
		ln := classify(chunk, i == 0)
		if ln.kind == lineMalformed && po.onMalformed != nil {
			po.onMalformed(i+1, ln.raw)
		}
		if ln.kind == lineEntry {
			if _, exists := f.index[ln.key]; !exists {
				f.index[ln.key] = len(f.lines)
			}
			f.values[ln.key] = ln.value
		}
		f.lines = append(f.lines, ln)
	}

	return f
}

// splitLines splits text after every '\n', keeping terminators attached.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	chunks := strings.SplitAfter(text, "\n")
	if chunks[len(chunks)-1] == "" {
		chunks = chunks[:len(chunks)-1]
	}
	return chunks
}

func classify(chunk string, first bool) line {
	raw, eol := chunk, ""
	switch {
	case strings.HasSuffix(raw, "\r\n"):
		raw, eol = raw[:len(raw)-2], "\r\n"
	case strings.HasSuffix(raw, "\n"):
		raw, eol = raw[:len(raw)-1], "\n"
	}

	text := raw
	if first {
		text = strings.TrimPrefix(text, utf8BOM)
	}
	trimmed := strings.TrimSpace(text)

	switch {
	case trimmed == "":
		return line{kind: lineBlank, raw: raw, eol: eol}
	case strings.HasPrefix(trimmed, "#"):
		return line{kind: lineComment, raw: raw, eol: eol}
	}

	k, v, ok := strings.Cut(trimmed, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return line{kind: lineMalformed, raw: raw, eol: eol}
	}
	return line{kind: lineEntry, raw: raw, eol: eol, key: k, value: strings.TrimSpace(v)}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Keys returns all keys in document order, each once.
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.index))
	for i, ln := range f.lines {
		if ln.kind == lineEntry && f.index[ln.key] == i {
			keys = append(keys, ln.key)
		}
	}
	return keys
}

// Len returns the number of distinct keys.
func (f *File) Len() int {
	return len(f.index)
}

// Get returns the value for key and whether it was found.
func (f *File) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Values returns a copy of the key → value mapping.
func (f *File) Values() map[string]string {
	m := make(map[string]string, len(f.values))
	for k, v := range f.values {
		m[k] = v
	}
	return m
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// WriteFile writes data to path, creating parent directories with 0755
// permissions.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
