// Package langsync implements the two paralang pipelines: exporting base
// locale .lang files to Paratranz as JSON, and importing translations back
// into .lang files that follow the layout of their source.
//
// Both pipelines are sequential and best-effort: a failure on one file is
// recorded in the returned report and processing moves on to the next file.
package langsync

import (
	"strings"

	"github.com/paralang/paralang/paratranz"
)

// DefaultFallbackStages are the stages for which the original text is kept:
// untranslated, hidden and disputed entries.
var DefaultFallbackStages = []int{
	paratranz.StageUntranslated,
	paratranz.StageHidden,
	paratranz.StageDisputed,
}

// StagePolicy decides, per Paratranz stage code, whether the original text
// should be written instead of the translation.
type StagePolicy struct {
	fallback map[int]bool
}

// NewStagePolicy returns a policy that falls back to the original text for
// the given stages.
func NewStagePolicy(fallbackStages ...int) StagePolicy {
	p := StagePolicy{fallback: make(map[int]bool, len(fallbackStages))}
	for _, s := range fallbackStages {
		p.fallback[s] = true
	}
	return p
}

// DefaultStagePolicy returns NewStagePolicy(DefaultFallbackStages...).
func DefaultStagePolicy() StagePolicy {
	return NewStagePolicy(DefaultFallbackStages...)
}

// KeepsOriginal reports whether entries in stage use the original text.
func (p StagePolicy) KeepsOriginal(stage int) bool {
	return p.fallback[stage]
}

// Select returns the raw value to write for e and whether it fell back to
// the original text. Empty translations always fall back.
func (p StagePolicy) Select(e paratranz.Translation) (value string, fellBack bool) {
	if p.KeepsOriginal(e.Stage) || e.Translation == "" {
		return e.Original, true
	}
	return e.Translation, false
}

var unescaper = strings.NewReplacer(`&#92;`, `\`)

// Unescape undoes Paratranz's escaping of backslashes: "&#92;" becomes "\"
// and an accidentally doubled "\\n" collapses back to the .lang escape "\n".
func Unescape(s string) string {
	s = unescaper.Replace(s)
	return strings.ReplaceAll(s, `\\n`, `\n`)
}

// Resolve builds the key → value mapping written for one remote file. It
// also returns how many entries fell back to the original text.
func Resolve(entries []paratranz.Translation, policy StagePolicy) (resolved map[string]string, fallbacks int) {
	resolved = make(map[string]string, len(entries))
	for _, e := range entries {
		v, fellBack := policy.Select(e)
		if fellBack {
			fallbacks++
		}
		resolved[e.Key] = Unescape(v)
	}
	return resolved, fallbacks
}
