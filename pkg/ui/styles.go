package ui

import "github.com/charmbracelet/lipgloss"

// Color Palette
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // errors and headers
	coralPink   = lipgloss.Color("#FFCCCB") // navigation path
	mintGreen   = lipgloss.Color("#A8E6CF") // success
	butterCream = lipgloss.Color("#FFE5A8") // warnings
	mutedGray   = lipgloss.Color("#6B7280") // secondary text, borders
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

// styles are bound to the renderer of one output so colors are dropped when
// that output is not a terminal.
type styles struct {
	path    lipgloss.Style
	prompt  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	error   lipgloss.Style
	info    lipgloss.Style
	title   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		path: r.NewStyle().
			Foreground(coralPink).
			Bold(true),

		prompt: r.NewStyle().
			Foreground(brightWhite),

		success: r.NewStyle().
			Foreground(mintGreen),

		warning: r.NewStyle().
			Foreground(butterCream),

		error: r.NewStyle().
			Foreground(salmonPink),

		info: r.NewStyle().
			Foreground(mutedGray),

		title: r.NewStyle().
			Foreground(salmonPink).
			Bold(true),

		header: r.NewStyle().
			Foreground(salmonPink).
			Bold(true).
			Padding(0, 1),

		cell: r.NewStyle().
			Foreground(brightWhite).
			Padding(0, 1),

		border: r.NewStyle().
			Foreground(mutedGray),
	}
}
