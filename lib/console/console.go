// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package console provides the line-printing sink used by CLI commands
// for user-facing output. A Console wraps an explicit io.Writer so
// commands never print through package-level globals; tests construct
// one over a bytes.Buffer and assert on the output.
//
// Styling renders through lipgloss with a termenv color profile
// detected from the destination writer. When the writer is not a
// terminal (or NO_COLOR is set, or the mode says never), styles
// degrade to plain text automatically.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode controls whether output is colored.
type Mode string

const (
	// ModeAuto colors output only when the destination is a terminal
	// and NO_COLOR is unset.
	ModeAuto Mode = "auto"

	// ModeAlways colors output unconditionally.
	ModeAlways Mode = "always"

	// ModeNever produces plain text.
	ModeNever Mode = "never"
)

// Console is a styled line printer bound to a single writer.
type Console struct {
	out io.Writer

	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

// New creates a Console writing to w. The color profile is chosen from
// mode: ModeAuto probes w for a terminal, ModeAlways forces ANSI 256
// colors, ModeNever strips all styling.
func New(w io.Writer, mode Mode) *Console {
	profile := termenv.Ascii
	switch mode {
	case ModeAlways:
		profile = termenv.ANSI256
	case ModeAuto:
		if isTerminalWriter(w) && os.Getenv("NO_COLOR") == "" {
			profile = termenv.ANSI256
		}
	}

	// A renderer bound to w with the profile pinned explicitly:
	// lipgloss would otherwise detect one from the writer, which is
	// wrong for injected writers and defeats ModeAlways on a pipe.
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(profile)

	return &Console{
		out:     w,
		success: renderer.NewStyle().Foreground(lipgloss.Color("2")),
		warning: renderer.NewStyle().Foreground(lipgloss.Color("3")),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// NewPlain creates an unstyled Console. Intended for tests that assert
// on exact output.
func NewPlain(w io.Writer) *Console {
	return New(w, ModeNever)
}

// Printf writes one plain line. A trailing newline is added when the
// format does not end with one.
func (c *Console) Printf(format string, args ...any) {
	c.line("", fmt.Sprintf(format, args...))
}

// Successf writes one line styled as a success.
func (c *Console) Successf(format string, args ...any) {
	c.styled(c.success, fmt.Sprintf(format, args...))
}

// Warnf writes one line prefixed with "warning: " styled as a warning.
func (c *Console) Warnf(format string, args ...any) {
	c.styled(c.warning, "warning: "+fmt.Sprintf(format, args...))
}

// Errorf writes one line prefixed with "error: " styled as a failure.
func (c *Console) Errorf(format string, args ...any) {
	c.styled(c.failure, "error: "+fmt.Sprintf(format, args...))
}

// Table writes rows as tab-aligned columns. Pass a nil header to omit
// the header row. Cells are never styled: ANSI escapes would throw off
// tabwriter's column width accounting.
func (c *Console) Table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(c.out, 2, 0, 3, ' ', 0)
	if header != nil {
		fmt.Fprintln(tw, strings.Join(header, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

func (c *Console) styled(style lipgloss.Style, text string) {
	c.line("", style.Render(strings.TrimSuffix(text, "\n")))
}

func (c *Console) line(prefix, text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	fmt.Fprint(c.out, prefix+text)
}

// isTerminalWriter reports whether w is an *os.File attached to a
// terminal.
func isTerminalWriter(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
