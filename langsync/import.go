package langsync

import (
	"context"
	"fmt"

	"github.com/paralang/paralang/langfile"
	"github.com/paralang/paralang/paratranz"
)

// Source provides the remote file list and per-file translations.
type Source interface {
	ListFiles(ctx context.Context) ([]paratranz.File, error)
	Translations(ctx context.Context, fileID int) ([]paratranz.Translation, error)
}

// Importer writes a target locale file for every file on the remote service.
type Importer struct {
	Layout Layout
	Source Source
	Policy StagePolicy
	Hooks  Hooks
}

// Import lists remote files and renders each into Layout.OutputDir. Only a
// failure to list the files is returned as an error; per-file failures are
// recorded in the report.
func (im *Importer) Import(ctx context.Context) (ImportReport, error) {
	var report ImportReport

	files, err := im.Source.ListFiles(ctx)
	if err != nil {
		return report, err
	}
	im.Hooks.logSuccess("Fetched %d file(s) from Paratranz", len(files))

	for _, rf := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Results = append(report.Results, im.importOne(ctx, rf))
	}
	return report, nil
}

func (im *Importer) importOne(ctx context.Context, rf paratranz.File) ImportResult {
	res := ImportResult{Remote: rf}
	im.Hooks.log("Processing: %s (ID: %d)", rf.Name, rf.ID)

	fail := func(err error) ImportResult {
		res.Err = err
		im.Hooks.logError("%s (ID: %d): %v", rf.Name, rf.ID, err)
		return res
	}

	tmplPath, err := im.Layout.TemplatePath(rf.Name)
	if err != nil {
		return fail(err)
	}
	outPath, err := im.Layout.OutputPath(rf.Name)
	if err != nil {
		return fail(err)
	}
	res.Template, res.Output = tmplPath, outPath

	entries, err := im.Source.Translations(ctx, rf.ID)
	if err != nil {
		return fail(err)
	}

	resolved, fallbacks := Resolve(entries, im.policy())
	res.Keys, res.Fallbacks = len(resolved), fallbacks

	out, used, err := langfile.RenderFile(tmplPath, resolved)
	res.UsedTemplate = used
	if err != nil {
		im.Hooks.logWarn("Source file %s is unavailable (%v), writing keys in alphabetical order", tmplPath, err)
	}

	if err := langfile.WriteFile(outPath, out); err != nil {
		return fail(fmt.Errorf("saving output: %w", err))
	}
	im.Hooks.logSuccess("Saved: %s (%d keys, %d untranslated)", outPath, res.Keys, res.Fallbacks)
	return res
}

func (im *Importer) policy() StagePolicy {
	if im.Policy.fallback == nil {
		return DefaultStagePolicy()
	}
	return im.Policy
}
