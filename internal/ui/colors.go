// package ui holds the terminal stylesheet used by the CLI commands.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders s as a section heading.
func Title(s string) string { return styles.title.Render(s) }

// OK renders s as a success message.
func OK(s string) string { return styles.ok.Render(s) }

// Err renders s as an error message.
func Err(s string) string { return styles.err.Render(s) }

// Warn renders s as a warning.
func Warn(s string) string { return styles.warn.Render(s) }

// Help renders s as de-emphasized hint text.
func Help(s string) string { return styles.help.Render(s) }
