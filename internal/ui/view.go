package ui

import (
	"fmt"
	"strings"
	"time"

	"greetcard/internal/sequence"
	"greetcard/internal/ui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const (
	balloonCount   = 15
	balloonStagger = 150 * time.Millisecond
	footerRows     = 2
)

func (m *App) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}
	return compose(m.width, m.height, m.layers()...)
}

// layers lists what is on screen, back to front. Every revealed stage stays
// mounted in script order; stages left behind draw only their backdrop.
func (m *App) layers() []Layer {
	current := m.seq.Current()
	layers := make([]Layer, 0, 4)
	for _, stage := range m.seq.RevealedStages() {
		if l := m.stageLayer(stage, stage == current); l != nil {
			layers = append(layers, l)
		}
	}
	return append(layers, LayerFunc(m.drawFooter))
}

// stageLayer returns the layer for stage, or nil when a superseded stage
// leaves nothing behind.
func (m *App) stageLayer(stage sequence.Stage, current bool) Layer {
	switch stage {
	case sequence.StageBalloons:
		if current {
			return LayerFunc(func(s Surface) {
				m.drawBalloons(s)
				m.drawHeading(s)
			})
		}
		return LayerFunc(func(s Surface) {
			m.drawBalloons(s)
			m.drawBanner(s)
		})
	}
	if !current {
		return nil
	}
	switch stage {
	case sequence.StageWelcome:
		return LayerFunc(m.drawWelcome)
	case sequence.StageIntro:
		return LayerFunc(m.drawIntro)
	case sequence.StageMessage:
		return LayerFunc(m.drawMessage)
	case sequence.StagePhotos:
		return LayerFunc(m.drawPhotos)
	case sequence.StageFinal:
		return LayerFunc(m.drawFinal)
	case sequence.StageOutro:
		return LayerFunc(m.drawOutro)
	}
	return nil
}

func (m *App) copy() sequence.Copy {
	return m.seq.Script().Copy
}

func (m *App) contentWidth() int {
	return max(min(m.width-6, maxCardWidth), 10)
}

func (m *App) drawWelcome(s Surface) {
	word := spaced(m.copy().Welcome)
	block := lipgloss.JoinVertical(lipgloss.Center,
		s.Styles.Primary.Render(word),
		"",
		s.Styles.TextMuted.Render(m.copy().Prompt),
	)
	s.Canvas.Center(block, 0, footerRows)
}

func (m *App) drawIntro(s Surface) {
	tw := m.seq.Intro()
	text := tw.Visible()
	if !tw.Done() {
		text += "▌"
	}
	lines := strings.Split(wrap(text, m.contentWidth()), "\n")
	for i, line := range lines {
		lines[i] = s.Styles.Text.Render(line)
	}
	s.Canvas.Center(strings.Join(lines, "\n"), 0, footerRows)
}

// heading personalizes the balloons heading with the recipient's name.
func (m *App) heading() string {
	h := m.copy().Heading
	if name := strings.TrimSpace(m.greeting.Message.RecipientName); name != "" {
		h = fmt.Sprintf("%s, %s", h, strings.ToUpper(name))
	}
	return h
}

func (m *App) drawHeading(s Surface) {
	if !m.seq.BalloonsComplete() {
		return
	}
	block := lipgloss.JoinVertical(lipgloss.Center,
		s.Styles.Primary.Render(m.heading()),
		"",
		s.Styles.TextMuted.Render(m.copy().MessagePrompt),
	)
	s.Canvas.Center(block, 0, footerRows)
}

// drawBanner keeps the heading along the top once later stages cover the
// middle of the screen.
func (m *App) drawBanner(s Surface) {
	if !m.seq.BalloonsComplete() {
		return
	}
	s.Canvas.CenterAt(1, s.Styles.Primary.Render(m.heading()))
}

// balloonProgress is how far balloon i has risen, from 0 to 1.
func (m *App) balloonProgress(i int) float64 {
	if m.seq.BalloonsComplete() || m.seq.Current() != sequence.StageBalloons {
		return 1
	}
	rise := m.seq.Timings().BalloonRise
	if rise <= 0 {
		return 1
	}
	elapsed := m.now().Sub(m.balloonsSince) - time.Duration(i)*balloonStagger
	return min(max(float64(elapsed)/float64(rise), 0), 1)
}

func (m *App) drawBalloons(s Surface) {
	w, h := s.Width(), s.Height()
	if w < 4 || h < 4 {
		return
	}
	for i := range balloonCount {
		x := (i + 1) * w / (balloonCount + 1)
		rest := 1 + (i%3)*2
		start := h - 1
		y := start - int(float64(start-rest)*m.balloonProgress(i))
		if y >= h-footerRows {
			continue
		}
		style := styleBalloon(i)
		s.Canvas.DrawStringAt(x, y, style.Render("O"))
		if y+1 < h-footerRows {
			s.Canvas.DrawStringAt(x, y+1, s.Styles.TextMuted.Render("|"))
		}
	}
}

func (m *App) drawMessage(s Surface) {
	width := m.contentWidth()
	var card string
	switch {
	case m.loading:
		card = styleCard().Width(width).Render(
			styleCardMuted().Render(m.spinner.View() + " Fetching your message..."))
	case m.loadErr != nil:
		card = styleErrorCard().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
			styleCardTitle().Foreground(theme.Current().Error()).Render("Message unavailable"),
			"",
			styleCardMuted().Render(wrap("The message service could not be reached and no default message is configured.", width-6)),
		))
	default:
		render := buildMarkdownRenderer(m.markdownStyle, width-6)
		hearts := styleCardHeart().Render("♥")
		title := hearts + styleCardTitle().Render(" "+m.copy().MessageTitle+" ") + hearts
		card = styleCard().Width(width).Render(lipgloss.JoinVertical(lipgloss.Center,
			title,
			"",
			render(m.greeting.Message.Text),
		))
	}
	s.Canvas.Center(lipgloss.JoinVertical(lipgloss.Center,
		card,
		"",
		s.Styles.TextMuted.Render(m.copy().Prompt),
	), 0, footerRows)
}

func (m *App) drawPhotos(s Surface) {
	total := len(m.photos)
	visible := min(m.seq.VisiblePhotos(), total)

	rows := []string{s.Styles.Accent.Render(m.copy().PhotosTitle), ""}
	if total > 0 {
		bar := progress.New(
			progress.WithSolidFill(theme.Current().Accent().Dark),
			progress.WithWidth(min(m.contentWidth(), 40)),
			progress.WithoutPercentage(),
		)
		rows = append(rows,
			bar.ViewAs(float64(visible)/float64(total)),
			s.Styles.TextMuted.Render(fmt.Sprintf("%d of %d", visible, total)),
			"",
		)
	}

	perRow := max((m.width-2)/(photoFrameWide+3), 1)
	var line []string
	for i := range visible {
		slot := m.photos[i]
		frame := stylePhotoFrame(slot.state == photoLoaded).Render(
			truncate(slot.label(i), photoFrameWide-2))
		line = append(line, frame)
		if len(line) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line = nil
		}
	}
	if len(line) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	if total == 0 && !m.loading {
		rows = append(rows, s.Styles.TextMuted.Render("No photos yet"))
	}
	if !m.seq.Terminal() {
		rows = append(rows, "", s.Styles.TextMuted.Render(m.copy().Prompt))
	}
	s.Canvas.Center(lipgloss.JoinVertical(lipgloss.Center, rows...), 0, footerRows)
}

func (m *App) drawFinal(s Surface) {
	hearts := s.Styles.Heart.Render("♥  ♥  ♥")
	block := lipgloss.JoinVertical(lipgloss.Center,
		hearts,
		"",
		s.Styles.Primary.Render(m.copy().Final),
		"",
		hearts,
	)
	if !m.seq.Terminal() {
		block = lipgloss.JoinVertical(lipgloss.Center, block, "", s.Styles.TextMuted.Render(m.copy().Prompt))
	}
	s.Canvas.Center(block, 0, footerRows)
}

func (m *App) drawOutro(s Surface) {
	lines := make([]string, 0, len(m.seq.Outro()))
	for i, tw := range m.seq.Outro() {
		style := s.Styles.Text
		if i == 0 {
			style = s.Styles.Accent
		}
		lines = append(lines, style.Render(tw.Visible()))
	}
	s.Canvas.Center(strings.Join(lines, "\n\n"), 0, footerRows)
}

func (m *App) drawFooter(s Surface) {
	parts := make([]string, 0, 5)
	if m.notice != "" {
		parts = append(parts, m.notice)
	}
	if !m.seq.Terminal() {
		parts = append(parts, "space continue")
	}
	motion := "m reduce motion"
	if m.seq.ReducedMotion() {
		motion = "m restore motion"
	}
	parts = append(parts, motion, "t theme", "q quit")
	footer := truncate(strings.Join(parts, "  ·  "), s.Width()-2)
	s.Canvas.BottomRight(s.Styles.TextMuted.Render(footer), 1)
}

// spaced puts a space between letters, for the big welcome word.
func spaced(word string) string {
	return strings.Join(strings.Split(word, ""), " ")
}
