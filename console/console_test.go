package console

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

func TestLoggerPrefixes(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	var buf bytes.Buffer
	l := New(&buf)
	l.Info("Found %d file(s)", 3)
	l.Success("done")
	l.Warning("careful: %s", "x")
	l.Error("failed: %v", "boom")

	want := "[INFO] Found 3 file(s)\n[OK] done\n[WARN] careful: x\n[ERROR] failed: boom\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}
