// package colors computes accessible theme colors from a profile's brand color.
//
// Public pages render buttons in the artist's brand color; when that color
// would fail WCAG contrast against the page background, a neutral foreground
// steps in. Hover/active states are alpha blends of the brand color over the
// background.
package colors

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// MinContrast is the minimum acceptable luminance contrast ratio (WCAG AA, normal text).
const MinContrast = 4.5

// Neutral fallbacks used when a brand color fails contrast.
const (
	NeutralDark  = "#111111"
	NeutralLight = "#ffffff"
)

// Blend fractions for interaction states.
const (
	hoverBlend  = 0.15
	activeBlend = 0.30
)

// Theme holds the computed colors for one profile page.
type Theme struct {
	Foreground string `json:"foreground"`
	Hover      string `json:"hover"`
	Active     string `json:"active"`
}

// Luminance returns the WCAG relative luminance of a hex color, in [0, 1].
// Malformed input counts as black.
func Luminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	return luminance(c)
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio returns the luminance contrast ratio between two hex colors,
// in [1, 21]. Order of arguments does not matter.
func ContrastRatio(a, b string) float64 {
	la, lb := Luminance(a), Luminance(b)
	if lb > la {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// AccessibleForeground returns brand if it clears [MinContrast] against
// background, otherwise a neutral chosen for the background's lightness.
// Malformed brand colors always fall back to a neutral.
func AccessibleForeground(brand, background string) string {
	if _, err := colorful.Hex(brand); err != nil {
		return neutralFor(background)
	}
	if ContrastRatio(brand, background) >= MinContrast {
		return normalize(brand)
	}
	return neutralFor(background)
}

// Blend alpha-blends top over bottom at the given opacity and returns hex.
// Malformed inputs yield the bottom color unchanged when possible.
func Blend(top, bottom string, alpha float64) string {
	t, err := colorful.Hex(top)
	if err != nil {
		return normalize(bottom)
	}
	b, err := colorful.Hex(bottom)
	if err != nil {
		return t.Hex()
	}
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return b.BlendRgb(t, alpha).Hex()
}

// Compute derives the full interaction [Theme] for a brand color on a background.
func Compute(brand, background string) Theme {
	return Theme{
		Foreground: AccessibleForeground(brand, background),
		Hover:      Blend(brand, background, hoverBlend),
		Active:     Blend(brand, background, activeBlend),
	}
}

// neutralFor picks dark text for light backgrounds and light text for dark ones.
func neutralFor(background string) string {
	if Luminance(background) > 0.5 {
		return NeutralDark
	}
	return NeutralLight
}

// normalize round-trips a hex color through the parser for consistent casing.
func normalize(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return c.Hex()
}
