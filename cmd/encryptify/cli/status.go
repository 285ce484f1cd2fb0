// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Status writes one-line command results with a colored marker. Color
// is chosen from the writer: a pipe or buffer gets plain text.
type Status struct {
	w       io.Writer
	success lipgloss.Style
	warn    lipgloss.Style
	failure lipgloss.Style
	info    lipgloss.Style
}

// NewStatus returns a Status writing to w.
func NewStatus(w io.Writer) *Status {
	renderer := lipgloss.NewRenderer(w)
	return &Status{
		w:       w,
		success: renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		warn:    renderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		info:    renderer.NewStyle().Foreground(lipgloss.Color("4")),
	}
}

// Writer returns the underlying writer.
func (s *Status) Writer() io.Writer { return s.w }

func (s *Status) Success(format string, args ...any) { s.line(s.success, "✓", format, args) }
func (s *Status) Warn(format string, args ...any)    { s.line(s.warn, "!", format, args) }
func (s *Status) Error(format string, args ...any)   { s.line(s.failure, "✗", format, args) }
func (s *Status) Info(format string, args ...any)    { s.line(s.info, "·", format, args) }

func (s *Status) line(style lipgloss.Style, marker, format string, args []any) {
	fmt.Fprintf(s.w, "%s %s\n", style.Render(marker), fmt.Sprintf(format, args...))
}
