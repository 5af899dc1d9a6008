// Package theme provides the color palettes the greeting can be drawn in.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the semantic colors used by the greeting.
// All methods return AdaptiveColor for automatic light/dark terminal support.
type Theme interface {
	Primary() lipgloss.AdaptiveColor // Headings, welcome text
	Accent() lipgloss.AdaptiveColor  // Card titles, photo numbers
	Heart() lipgloss.AdaptiveColor   // Hearts and the final message

	// Balloons cycles through these colors.
	Balloons() []lipgloss.AdaptiveColor

	Text() lipgloss.AdaptiveColor
	TextMuted() lipgloss.AdaptiveColor // Prompts, hints

	Background() lipgloss.AdaptiveColor
	Surface() lipgloss.AdaptiveColor // Cards and photo frames
	Border() lipgloss.AdaptiveColor
	Error() lipgloss.AdaptiveColor
}

// Palette is a Theme backed by plain color values.
type Palette struct {
	PrimaryColor    lipgloss.AdaptiveColor
	AccentColor     lipgloss.AdaptiveColor
	HeartColor      lipgloss.AdaptiveColor
	BalloonColors   []lipgloss.AdaptiveColor
	TextColor       lipgloss.AdaptiveColor
	TextMutedColor  lipgloss.AdaptiveColor
	BackgroundColor lipgloss.AdaptiveColor
	SurfaceColor    lipgloss.AdaptiveColor
	BorderColor     lipgloss.AdaptiveColor
	ErrorColor      lipgloss.AdaptiveColor
}

func (p Palette) Primary() lipgloss.AdaptiveColor    { return p.PrimaryColor }
func (p Palette) Accent() lipgloss.AdaptiveColor     { return p.AccentColor }
func (p Palette) Heart() lipgloss.AdaptiveColor      { return p.HeartColor }
func (p Palette) Text() lipgloss.AdaptiveColor       { return p.TextColor }
func (p Palette) TextMuted() lipgloss.AdaptiveColor  { return p.TextMutedColor }
func (p Palette) Background() lipgloss.AdaptiveColor { return p.BackgroundColor }
func (p Palette) Surface() lipgloss.AdaptiveColor    { return p.SurfaceColor }
func (p Palette) Border() lipgloss.AdaptiveColor     { return p.BorderColor }
func (p Palette) Error() lipgloss.AdaptiveColor      { return p.ErrorColor }

// Balloons returns a copy so callers cannot reorder the palette.
func (p Palette) Balloons() []lipgloss.AdaptiveColor {
	out := make([]lipgloss.AdaptiveColor, len(p.BalloonColors))
	copy(out, p.BalloonColors)
	return out
}
