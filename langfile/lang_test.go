package langfile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Basic(t *testing.T) {
	f := Parse([]byte("item.sword.name=Sword\nitem.bow.name=Bow\n"))
	if got, _ := f.Get("item.sword.name"); got != "Sword" {
		t.Errorf("item.sword.name = %q, want %q", got, "Sword")
	}
	if got, _ := f.Get("item.bow.name"); got != "Bow" {
		t.Errorf("item.bow.name = %q, want %q", got, "Bow")
	}
	if f.Len() != 2 {
		t.Errorf("Len() = %d, want 2", f.Len())
	}
}

func TestParse_CommentsAndBlanks(t *testing.T) {
	f := Parse([]byte("# This is a comment\n\n   # indented comment\nkey=value\n"))
	if got := f.Keys(); !reflect.DeepEqual(got, []string{"key"}) {
		t.Errorf("Keys() = %#v, want [key]", got)
	}
}

func TestParse_TrimsAndSplitsOnFirstEquals(t *testing.T) {
	f := Parse([]byte("  url = http://example.com?a=1&b=2  \n"))
	if got, _ := f.Get("url"); got != "http://example.com?a=1&b=2" {
		t.Errorf("url = %q", got)
	}
}

func TestParse_MalformedLinesSkipped(t *testing.T) {
	var reported []int
	f := Parse([]byte("a=1\nno separator here\n=orphan\nb=2\n"),
		WithMalformedHandler(func(lineNo int, raw string) {
			reported = append(reported, lineNo)
		}))

	if got := f.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %#v, want [a b]", got)
	}
	if !reflect.DeepEqual(reported, []int{2, 3}) {
		t.Errorf("malformed lines = %v, want [2 3]", reported)
	}
}

func TestParse_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	f := Parse([]byte("a=1\nb=2\na=3\n"))
	if got := f.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %#v, want [a b]", got)
	}
	if got, _ := f.Get("a"); got != "3" {
		t.Errorf("a = %q, want last value 3", got)
	}
}

func TestParse_BOM(t *testing.T) {
	f := Parse([]byte("\ufeffgreeting=Hello\n"))
	if got, ok := f.Get("greeting"); !ok || got != "Hello" {
		t.Errorf("greeting = %q (found %v), want Hello", got, ok)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	cases := map[string]string{
		"plain":          "# header\n\nkey=value\nother=thing\n",
		"spacing":        "#comment\n  key = value with spaces  \n\n\nx=y",
		"crlf":           "# win\r\na=1\r\n\r\nb=2\r\n",
		"escapes":        "tip=Line one\\nLine two\ntab=a\\tb\n",
		"non-ascii":      "name=Épée\nzh=中文\n",
		"malformed kept": "a=1\njunk line\nb=2\n",
		"empty":          "",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			f := Parse([]byte(src))
			got := string(Render(f, f.Values()))
			if diff := cmp.Diff(src, got); diff != "" {
				t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_ReplacesValuesAndKeepsMissing(t *testing.T) {
	tmpl := Parse([]byte("# Blocks\ntile.stone.name=Stone\ntile.dirt.name = Dirt\n\n# Items\nitem.stick.name=Stick\n"))
	resolved := map[string]string{
		"tile.stone.name": "石头",
		"item.stick.name": "木棍",
		"unused.key":      "ignored",
	}

	want := "# Blocks\ntile.stone.name=石头\ntile.dirt.name = Dirt\n\n# Items\nitem.stick.name=木棍\n"
	if diff := cmp.Diff(want, string(Render(tmpl, resolved))); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_TerminatesReplacedFinalLine(t *testing.T) {
	tmpl := Parse([]byte("a=1\nb=2"))
	got := string(Render(tmpl, map[string]string{"b": "two"}))
	if got != "a=1\nb=two\n" {
		t.Errorf("Render = %q", got)
	}
}

func TestRenderSorted(t *testing.T) {
	got := string(RenderSorted(map[string]string{"b": "2", "a": "1", "C": "3", "a.b": "4"}))
	want := "C=3\na=1\na.b=4\nb=2\n"
	if got != want {
		t.Errorf("RenderSorted = %q, want %q", got, want)
	}
}

func TestRenderFile_FallsBackWithoutTemplate(t *testing.T) {
	dir := t.TempDir()
	out, used, err := RenderFile(filepath.Join(dir, "en_us.lang"), map[string]string{"z": "1", "a": "2"})
	if used {
		t.Fatal("usedTemplate = true for missing template")
	}
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if string(out) != "a=2\nz=1\n" {
		t.Errorf("out = %q", out)
	}

	tmplPath := filepath.Join(dir, "en_us.lang")
	if err := os.WriteFile(tmplPath, []byte("z=Z\n# c\na=A\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, used, err = RenderFile(tmplPath, map[string]string{"z": "1", "a": "2"})
	if err != nil || !used {
		t.Fatalf("RenderFile() used=%v err=%v", used, err)
	}
	if string(out) != "z=1\n# c\na=2\n" {
		t.Errorf("out = %q", out)
	}
}

func TestJSON_PreservesOrderAndUnicode(t *testing.T) {
	f := Parse([]byte("zeta=Z\nalpha=<b>Épée</b> & co\nquote=say \"hi\"\n"))
	got, err := f.JSON()
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n" +
		"    \"zeta\": \"Z\",\n" +
		"    \"alpha\": \"<b>Épée</b> & co\",\n" +
		"    \"quote\": \"say \\\"hi\\\"\"\n" +
		"}"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}

	var decoded map[string]string
	if err := json.Unmarshal(got, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(decoded, f.Values()) {
		t.Errorf("decoded = %#v", decoded)
	}
}

func TestWriteFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "zh_cn.lang")
	if err := WriteFile(path, []byte("k=v\n")); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "k=v\n" {
		t.Errorf("content = %q", data)
	}
}
