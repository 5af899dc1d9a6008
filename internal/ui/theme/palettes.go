package theme

import "github.com/charmbracelet/lipgloss"

func color(dark, light string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: dark, Light: light}
}

// Confetti is the bright party palette.
var Confetti = Palette{
	PrimaryColor: color("#ff6ec7", "#c2185b"),
	AccentColor:  color("#ffd166", "#b7791f"),
	HeartColor:   color("#ff4d6d", "#d00000"),
	BalloonColors: []lipgloss.AdaptiveColor{
		color("#ff4d6d", "#d00000"),
		color("#4cc9f0", "#0077b6"),
		color("#ffd166", "#b7791f"),
		color("#80ed99", "#2d6a4f"),
		color("#c77dff", "#7b2cbf"),
		color("#ff9f1c", "#e85d04"),
	},
	TextColor:       color("#f8f9fa", "#212529"),
	TextMutedColor:  color("#adb5bd", "#6c757d"),
	BackgroundColor: color("#1a1033", "#fff7fb"),
	SurfaceColor:    color("#2b1b4d", "#ffe5f1"),
	BorderColor:     color("#ff6ec7", "#c2185b"),
	ErrorColor:      color("#ff6b6b", "#c92a2a"),
}

// Pastel is a soft palette for light terminals.
var Pastel = Palette{
	PrimaryColor: color("#f4acb7", "#b5838d"),
	AccentColor:  color("#cdb4db", "#6d597a"),
	HeartColor:   color("#ffafcc", "#e5989b"),
	BalloonColors: []lipgloss.AdaptiveColor{
		color("#ffc8dd", "#e5989b"),
		color("#bde0fe", "#5e8bb0"),
		color("#fdffb6", "#a3a35c"),
		color("#caffbf", "#6a994e"),
		color("#cdb4db", "#6d597a"),
	},
	TextColor:       color("#fefae0", "#3d405b"),
	TextMutedColor:  color("#d8e2dc", "#8d99ae"),
	BackgroundColor: color("#3d405b", "#fffcf2"),
	SurfaceColor:    color("#4a4e69", "#f7ede2"),
	BorderColor:     color("#cdb4db", "#b5838d"),
	ErrorColor:      color("#f28482", "#bc4749"),
}

// Midnight is a dim palette with gold accents.
var Midnight = Palette{
	PrimaryColor: color("#e9c46a", "#9c6644"),
	AccentColor:  color("#8ecae6", "#1d3557"),
	HeartColor:   color("#e76f51", "#9d0208"),
	BalloonColors: []lipgloss.AdaptiveColor{
		color("#e9c46a", "#9c6644"),
		color("#8ecae6", "#1d3557"),
		color("#e76f51", "#9d0208"),
		color("#b8c0ff", "#3a0ca3"),
	},
	TextColor:       color("#edf2f4", "#0b090a"),
	TextMutedColor:  color("#8d99ae", "#5c677d"),
	BackgroundColor: color("#0b132b", "#edf2f4"),
	SurfaceColor:    color("#1c2541", "#dee2e6"),
	BorderColor:     color("#3a506b", "#8d99ae"),
	ErrorColor:      color("#ef476f", "#9d0208"),
}

func init() {
	RegisterTheme("confetti", Confetti)
	RegisterTheme("pastel", Pastel)
	RegisterTheme("midnight", Midnight)
}
