package ui

import (
	"github.com/charmbracelet/lipgloss"

	"greetcard/internal/ui/theme"
)

// Surface wraps a Canvas plus theme-aware styles that already carry the
// surface background, so text drawn on it does not punch holes in the fill.
type Surface struct {
	Canvas *Canvas
	Styles SurfaceStyles
}

// SurfaceStyles are the styles used when drawing directly onto a surface.
type SurfaceStyles struct {
	Text      lipgloss.Style
	TextMuted lipgloss.Style
	Primary   lipgloss.Style
	Accent    lipgloss.Style
	Heart     lipgloss.Style
	Error     lipgloss.Style
}

// NewPrimarySurface returns a Surface filled with the theme background.
func NewPrimarySurface(width, height int) Surface {
	return newSurface(width, height, theme.Current().Background())
}

func newSurface(width, height int, bg lipgloss.TerminalColor) Surface {
	canvas := NewCanvas(width, height)
	canvas.Fill(bg)
	th := theme.Current()
	base := lipgloss.NewStyle().Background(bg)
	return Surface{
		Canvas: canvas,
		Styles: SurfaceStyles{
			Text:      base.Foreground(th.Text()),
			TextMuted: base.Foreground(th.TextMuted()),
			Primary:   base.Foreground(th.Primary()).Bold(true),
			Accent:    base.Foreground(th.Accent()).Bold(true),
			Heart:     base.Foreground(th.Heart()),
			Error:     base.Foreground(th.Error()).Bold(true),
		},
	}
}

// Width and Height report the surface size in cells.
func (s Surface) Width() int  { return s.Canvas.Width() }
func (s Surface) Height() int { return s.Canvas.Height() }

// Render flushes the surface to a string (ANSI frame).
func (s Surface) Render() string {
	if s.Canvas == nil {
		return ""
	}
	return s.Canvas.Render()
}
