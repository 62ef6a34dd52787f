package langsync

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/paralang/paralang/langfile"
	"github.com/paralang/paralang/paratranz"
)

// Uploader stores a JSON document on the remote service.
type Uploader interface {
	UploadFile(ctx context.Context, remotePath string, content []byte) (*paratranz.UploadResult, error)
}

// Hooks receive progress messages from a pipeline. Nil hooks are ignored.
type Hooks struct {
	// OnLog emits informational messages.
	OnLog func(format string, args ...any)
	// OnSuccess emits a message for each completed file.
	OnSuccess func(format string, args ...any)
	// OnWarn emits non-fatal problems (skipped files, malformed lines).
	OnWarn func(format string, args ...any)
	// OnError emits per-file failures.
	OnError func(format string, args ...any)
}

func (h Hooks) log(format string, args ...any) {
	if h.OnLog != nil {
		h.OnLog(format, args...)
	}
}

func (h Hooks) logSuccess(format string, args ...any) {
	if h.OnSuccess != nil {
		h.OnSuccess(format, args...)
	} else {
		h.log(format, args...)
	}
}

func (h Hooks) logWarn(format string, args ...any) {
	if h.OnWarn != nil {
		h.OnWarn(format, args...)
	} else {
		h.log(format, args...)
	}
}

func (h Hooks) logError(format string, args ...any) {
	if h.OnError != nil {
		h.OnError(format, args...)
	} else {
		h.log(format, args...)
	}
}

// Exporter uploads every base locale file under Layout.SourceDir.
type Exporter struct {
	Layout   Layout
	Uploader Uploader
	Hooks    Hooks
}

// Export walks the source tree and uploads each base locale file. It fails
// only when the source tree cannot be read; per-file failures are recorded
// in the report.
func (e *Exporter) Export(ctx context.Context) (ExportReport, error) {
	var report ExportReport

	files, err := e.findBaseFiles()
	if err != nil {
		return report, err
	}
	e.Hooks.log("Found %d %s file(s) in %s", len(files), e.Layout.BaseFileName(), e.Layout.SourceDir)

	for _, local := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Results = append(report.Results, e.exportOne(ctx, local))
	}
	return report, nil
}

func (e *Exporter) findBaseFiles() ([]string, error) {
	info, err := os.Stat(e.Layout.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source directory %s is not a directory", e.Layout.SourceDir)
	}

	var files []string
	want := e.Layout.BaseFileName()
	err = filepath.WalkDir(e.Layout.SourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == want {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", e.Layout.SourceDir, err)
	}
	return files, nil
}

func (e *Exporter) exportOne(ctx context.Context, local string) ExportResult {
	res := ExportResult{Local: local}

	remote, err := e.Layout.RemotePath(local)
	if err != nil {
		res.Err = err
		e.Hooks.logError("%s: %v", local, err)
		return res
	}
	res.Remote = remote

	f, err := langfile.ParseFile(local, langfile.WithMalformedHandler(func(lineNo int, raw string) {
		e.Hooks.logWarn("%s:%d: skipping line without '=': %q", local, lineNo, raw)
	}))
	if err != nil {
		res.Err = err
		e.Hooks.logError("%v", err)
		return res
	}
	res.Keys = f.Len()
	if res.Keys == 0 {
		res.Skipped = true
		e.Hooks.logWarn("%s is empty or has no entries, skipping", local)
		return res
	}

	content, err := f.JSON()
	if err != nil {
		res.Err = fmt.Errorf("encoding %s: %w", local, err)
		e.Hooks.logError("%v", res.Err)
		return res
	}

	up, err := e.Uploader.UploadFile(ctx, remote, content)
	if err != nil {
		res.Err = err
		e.Hooks.logError("Upload failed: %s: %v", remote, err)
		return res
	}
	res.Upload = up

	if up != nil && up.Status != "" {
		e.Hooks.logSuccess("Uploaded: %s (%d keys, status: %s)", remote, res.Keys, up.Status)
	} else {
		e.Hooks.logSuccess("Uploaded: %s (%d keys)", remote, res.Keys)
	}
	return res
}
