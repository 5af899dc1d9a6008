package ui

import (
	"github.com/charmbracelet/lipgloss"

	"greetcard/internal/ui/theme"
)

const (
	maxCardWidth   = 64
	photoFrameWide = 18
)

// Styles are rebuilt from the active theme on every frame so cycling themes
// takes effect immediately.

func styleCard() lipgloss.Style {
	th := theme.Current()
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Border()).
		BorderBackground(th.Background()).
		Background(th.Surface()).
		Foreground(th.Text()).
		Padding(1, 2)
}

func styleCardTitle() lipgloss.Style {
	th := theme.Current()
	return lipgloss.NewStyle().
		Background(th.Surface()).
		Foreground(th.Accent()).
		Bold(true)
}

func styleCardHeart() lipgloss.Style {
	th := theme.Current()
	return lipgloss.NewStyle().Background(th.Surface()).Foreground(th.Heart())
}

func styleCardMuted() lipgloss.Style {
	th := theme.Current()
	return lipgloss.NewStyle().Background(th.Surface()).Foreground(th.TextMuted())
}

func styleErrorCard() lipgloss.Style {
	th := theme.Current()
	return styleCard().BorderForeground(th.Error())
}

func stylePhotoFrame(loaded bool) lipgloss.Style {
	th := theme.Current()
	border := th.Border()
	if !loaded {
		border = th.TextMuted()
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		BorderBackground(th.Background()).
		Background(th.Surface()).
		Foreground(th.Text()).
		Width(photoFrameWide).
		Height(3).
		Align(lipgloss.Center, lipgloss.Center)
}

func styleBalloon(i int) lipgloss.Style {
	th := theme.Current()
	colors := th.Balloons()
	c := th.Primary()
	if len(colors) > 0 {
		c = colors[i%len(colors)]
	}
	return lipgloss.NewStyle().Background(th.Background()).Foreground(c).Bold(true)
}
