package langfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

// Render writes template back out with values taken from resolved.
//
// Blank, comment and malformed lines are copied verbatim. An entry whose key
// is in resolved is written as key=value, keeping the line terminator; when
// the resolved value equals the template's own value the original line is
// kept untouched. Entries missing from resolved are copied unchanged, so a
// missing translation never drops a key.
func Render(template *File, resolved map[string]string) []byte {
	var buf bytes.Buffer
	for i, ln := range template.lines {
		if ln.kind != lineEntry {
			buf.WriteString(ln.raw)
			buf.WriteString(ln.eol)
			continue
		}
		v, ok := resolved[ln.key]
		if !ok || v == ln.value {
			buf.WriteString(ln.raw)
			buf.WriteString(ln.eol)
			continue
		}
		if i == 0 && strings.HasPrefix(ln.raw, utf8BOM) {
			buf.WriteString(utf8BOM)
		}
		buf.WriteString(ln.key)
		buf.WriteByte('=')
		buf.WriteString(v)
		if ln.eol == "" {
			buf.WriteByte('\n')
		} else {
			buf.WriteString(ln.eol)
		}
	}
	return buf.Bytes()
}

// RenderSorted writes every key of resolved in ascending lexicographic order.
// It is used when no template is available.
func RenderSorted(resolved map[string]string) []byte {
	keys := make([]string, 0, len(resolved))
	for k := range resolved {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(resolved[k])
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// RenderFile renders resolved using the file at templatePath as template.
// If the template cannot be read, it falls back to RenderSorted and returns
// usedTemplate=false along with the read error; the output is still valid.
func RenderFile(templatePath string, resolved map[string]string) (out []byte, usedTemplate bool, err error) {
	tmpl, err := ParseFile(templatePath)
	if err != nil {
		return RenderSorted(resolved), false, err
	}
	return Render(tmpl, resolved), true, nil
}

// ---------------------------------------------------------------------------
// JSON document
// ---------------------------------------------------------------------------

// JSON returns the mapping as a JSON object with keys in document order,
// four-space indentation and no escaping of non-ASCII or HTML characters.
func (f *File) JSON() ([]byte, error) {
	keys := f.Keys()
	if len(keys) == 0 {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, k := range keys {
		kb, err := marshalString(k)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", k, err)
		}
		vb, err := marshalString(f.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding value of %q: %w", k, err)
		}
		buf.WriteString("    ")
		buf.Write(kb)
		buf.WriteString(": ")
		buf.Write(vb)
		if i < len(keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
