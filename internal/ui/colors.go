package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/tonelink/internal/colors"
)

// terminalBackground approximates the dark terminal the dialog renders in;
// brand colors that fail contrast against it fall back to a neutral.
const terminalBackground = "#000000"

var styles = BrandPalette("#7D56F4")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	help     lipgloss.Style
}

// BrandPalette derives a dialog palette from a brand color, substituting a
// neutral when the brand fails contrast on the terminal background.
func BrandPalette(brand string) *Palette {
	theme := colors.Compute(brand, terminalBackground)

	return &Palette{
		title:    NewBold(theme.Foreground).MarginBottom(1),
		ok:       NewBold("#04B575"),
		err:      NewBold("#FF0000"),
		selected: NewBold(theme.Foreground).Background(lipgloss.Color(theme.Active)),
		dim:      NewStyle("#626262"),
		help:     NewEm("#626262"),
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
