package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed   = "\033[31m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiReset = "\033[0m"
)

// ColorMode selects when the emitter uses ANSI colours.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Emitter prints diagnostics in "file:line:col: error [CODE] title: message" form.
type Emitter struct {
	w     io.Writer
	color bool
}

// NewEmitter creates an emitter writing to w. In auto mode colours are used
// only when w is a terminal.
func NewEmitter(w io.Writer, mode ColorMode) *Emitter {
	e := &Emitter{w: w}
	switch mode {
	case ColorAlways:
		e.color = true
	case ColorNever:
		e.color = false
	default:
		if f, ok := w.(*os.File); ok {
			fd := f.Fd()
			e.color = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		}
	}
	return e
}

func (e *Emitter) paint(code, s string) string {
	if !e.color {
		return s
	}
	return code + s + ansiReset
}

// Emit prints one diagnostic.
func (e *Emitter) Emit(d *DiagnosticError) {
	if loc := d.Location(); loc != "" {
		fmt.Fprintf(e.w, "%s: ", e.paint(ansiBold, loc))
	}
	fmt.Fprintf(e.w, "%s %s: %s\n",
		e.paint(ansiRed, fmt.Sprintf("error [%s]", d.Code)),
		e.paint(ansiDim, d.Code.Title()),
		d.Message)
}

// EmitAll prints every diagnostic followed by a summary line.
func (e *Emitter) EmitAll(diags []*DiagnosticError) {
	for _, d := range diags {
		e.Emit(d)
	}
	if n := len(diags); n > 0 {
		fmt.Fprintln(e.w, e.paint(ansiRed, fmt.Sprintf("\nBinding failed with %d error(s)", n)))
	}
}
