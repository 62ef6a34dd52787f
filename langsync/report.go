package langsync

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/paralang/paralang/paratranz"
)

// ExportResult is the outcome of exporting one local file.
type ExportResult struct {
	Local   string // local base locale file
	Remote  string // Paratranz name it was uploaded as
	Keys    int
	Skipped bool // file had no entries and was not uploaded
	Upload  *paratranz.UploadResult
	Err     error
}

// ImportResult is the outcome of importing one remote file.
type ImportResult struct {
	Remote       paratranz.File
	Template     string // local base locale file used as template
	Output       string // written target locale file
	Keys         int
	Fallbacks    int  // entries written with their original text
	UsedTemplate bool // false when keys were written in sorted order
	Err          error
}

// ExportReport lists one result per base locale file found.
type ExportReport struct {
	Results []ExportResult
}

// ImportReport lists one result per remote file.
type ImportReport struct {
	Results []ImportResult
}

// Counts returns the number of uploaded, skipped and failed files.
func (r ExportReport) Counts() (uploaded, skipped, failed int) {
	for _, res := range r.Results {
		switch {
		case res.Err != nil:
			failed++
		case res.Skipped:
			skipped++
		default:
			uploaded++
		}
	}
	return uploaded, skipped, failed
}

// Failed returns the results that carry an error.
func (r ExportReport) Failed() []ExportResult {
	var out []ExportResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Err combines all per-file errors, or returns nil.
func (r ExportReport) Err() error {
	var err error
	for _, res := range r.Failed() {
		err = multierr.Append(err, fmt.Errorf("%s: %w", res.Local, res.Err))
	}
	return err
}

// Counts returns the number of written and failed files.
func (r ImportReport) Counts() (written, failed int) {
	for _, res := range r.Results {
		if res.Err != nil {
			failed++
		} else {
			written++
		}
	}
	return written, failed
}

// Written returns the output paths of every file written successfully.
func (r ImportReport) Written() []string {
	var out []string
	for _, res := range r.Results {
		if res.Err == nil {
			out = append(out, res.Output)
		}
	}
	return out
}

// Failed returns the results that carry an error.
func (r ImportReport) Failed() []ImportResult {
	var out []ImportResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Err combines all per-file errors, or returns nil.
func (r ImportReport) Err() error {
	var err error
	for _, res := range r.Failed() {
		err = multierr.Append(err, fmt.Errorf("%s (id %d): %w", res.Remote.Name, res.Remote.ID, res.Err))
	}
	return err
}
