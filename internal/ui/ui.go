// Package ui provides the small set of lipgloss-styled renderers
// cmd/fswatchctl uses for status output, in place of the teacher's own
// internal/ui package (not present in this retrieval).
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warn   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	fail   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dim    = lipgloss.NewStyle().Faint(true)
)

// RenderAccent highlights a positive status line, mirroring
// cmd/bd/turso.go's ui.RenderAccent calls.
func RenderAccent(format string, args ...interface{}) string {
	return accent.Render(fmt.Sprintf(format, args...))
}

// RenderWarn highlights a degraded-but-recovered status line (e.g. a
// fallback from the external to the native backend).
func RenderWarn(format string, args ...interface{}) string {
	return warn.Render(fmt.Sprintf(format, args...))
}

// RenderFail highlights an unreachable/unavailable status line.
func RenderFail(format string, args ...interface{}) string {
	return fail.Render(fmt.Sprintf(format, args...))
}

// RenderDim renders secondary detail beneath a status line.
func RenderDim(format string, args ...interface{}) string {
	return dim.Render(fmt.Sprintf(format, args...))
}
