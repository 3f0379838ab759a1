// Package styles contains Lip Gloss style definitions and the console
// writer for user-facing output.
package styles

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color mode values accepted by NewConsole.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Console writes status lines for the user. It is separate from the debug
// log: everything here is meant to be read.
type Console struct {
	w io.Writer

	status  lipgloss.Style
	warn    lipgloss.Style
	errs    lipgloss.Style
	success lipgloss.Style
	muted   lipgloss.Style
}

// NewConsole builds a console writing to w. mode is one of ColorAuto,
// ColorAlways, ColorNever; auto detection follows the renderer (TTY,
// NO_COLOR, TERM).
func NewConsole(w io.Writer, mode string) *Console {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case ColorAlways:
		if r.ColorProfile() == termenv.Ascii {
			r.SetColorProfile(termenv.ANSI256)
		}
	}

	return &Console{
		w:       w,
		status:  r.NewStyle(),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		errs:    r.NewStyle().Foreground(lipgloss.Color("1")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Statusf prints one plain status line.
func (c *Console) Statusf(format string, args ...any) {
	fmt.Fprintln(c.w, c.status.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints one warning line.
func (c *Console) Warnf(format string, args ...any) {
	fmt.Fprintln(c.w, c.warn.Render("warning: "+fmt.Sprintf(format, args...)))
}

// Errorf prints one error line.
func (c *Console) Errorf(format string, args ...any) {
	fmt.Fprintln(c.w, c.errs.Render("error: "+fmt.Sprintf(format, args...)))
}

// Successf prints one success line.
func (c *Console) Successf(format string, args ...any) {
	fmt.Fprintln(c.w, c.success.Render(fmt.Sprintf(format, args...)))
}

// Mutedf prints one de-emphasized line.
func (c *Console) Mutedf(format string, args ...any) {
	fmt.Fprintln(c.w, c.muted.Render(fmt.Sprintf(format, args...)))
}

// Print writes s verbatim followed by a newline.
func (c *Console) Print(s string) {
	fmt.Fprintln(c.w, s)
}
