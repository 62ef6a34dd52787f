// Package console prints leveled status lines for the paralang commands.
//
// Each line is prefixed with [INFO], [OK], [WARN] or [ERROR]. Prefixes are
// colored when the output is a terminal; color is disabled automatically
// otherwise and when NO_COLOR is set. Format strings are passed through
// i18n.T before formatting, so messages follow the user's locale.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/paralang/paralang/i18n"
)

// Logger writes status lines to W.
type Logger struct {
	W io.Writer

	info, ok, warn, fail *color.Color
}

// New returns a Logger writing to w (os.Stderr if nil).
func New(w io.Writer) *Logger {
	if w == nil {
		w = color.Error
	}
	return &Logger{
		W:    w,
		info: color.New(color.FgBlue),
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow, color.Bold),
		fail: color.New(color.FgRed),
	}
}

// Stderr is the default logger.
var Stderr = New(nil)

func (l *Logger) line(c *color.Color, prefix, format string, args ...any) {
	fmt.Fprintf(l.W, "%s %s\n", c.Sprint(prefix), fmt.Sprintf(i18n.T(format), args...))
}

// Info prints an informational line.
func (l *Logger) Info(format string, args ...any) { l.line(l.info, "[INFO]", format, args...) }

// Success prints a completion line.
func (l *Logger) Success(format string, args ...any) { l.line(l.ok, "[OK]", format, args...) }

// Warning prints a non-fatal problem.
func (l *Logger) Warning(format string, args ...any) { l.line(l.warn, "[WARN]", format, args...) }

// Error prints a failure.
func (l *Logger) Error(format string, args ...any) { l.line(l.fail, "[ERROR]", format, args...) }

// Fatal prints a failure and exits with status 1.
func (l *Logger) Fatal(format string, args ...any) {
	l.Error(format, args...)
	os.Exit(1)
}
