package pkgdocs

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
)

// Reporter prints build status lines to the terminal.
type Reporter struct {
	out   io.Writer
	color bool
	quiet bool
}

// NewReporter creates a Reporter writing to w. Color escapes are emitted
// only when useColor is true.
func NewReporter(w io.Writer, useColor, quiet bool) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{out: w, color: useColor, quiet: quiet}
}

// Writer returns the underlying output, for tools whose output is streamed.
func (r *Reporter) Writer() io.Writer {
	return r.out
}

// Quiet reports whether informational lines are suppressed.
func (r *Reporter) Quiet() bool {
	return r.quiet
}

// Info prints an uncolored progress line.
func (r *Reporter) Info(format string, args ...any) {
	if r.quiet {
		return
	}
	r.println(fmt.Sprintf(format, args...))
}

// Stage prints a section heading in cyan.
func (r *Reporter) Stage(format string, args ...any) {
	if r.quiet {
		return
	}
	r.printColored(color.FgCyan, fmt.Sprintf(format, args...))
}

// Success prints a positive outcome in green.
func (r *Reporter) Success(format string, args ...any) {
	if r.quiet {
		return
	}
	r.printColored(color.FgGreen, fmt.Sprintf(format, args...))
}

// Failure prints a negative outcome in red. Failures are printed in quiet
// mode too.
func (r *Reporter) Failure(format string, args ...any) {
	r.printColored(color.FgRed, fmt.Sprintf(format, args...))
}

// Block prints preformatted lines, each prefixed with indent spaces.
// Blocks are printed in quiet mode too.
func (r *Reporter) Block(lines []string, indent int) {
	pad := strings.Repeat(" ", indent)
	for _, line := range lines {
		r.println(strings.TrimRight(pad+line, " \t"))
	}
}

// printColored wraps text in c's escape codes when color is on. Terminal
// support is decided by the caller, not by the color package's detection.
func (r *Reporter) printColored(c color.Color, text string) {
	if r.color {
		text = fmt.Sprintf(color.FullColorTpl, c.Code(), text)
	}
	r.println(text)
}

func (r *Reporter) println(text string) {
	_, _ = fmt.Fprintln(r.out, text)
}
