package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
)

// Canvas composes lipgloss-rendered blocks into a cell buffer so later layers
// can be painted over earlier ones, then flattens the frame for Bubble Tea.
type Canvas struct {
	screen *cellbuf.Screen
	writer *cellbuf.ScreenWriter
	width  int
	height int
}

func NewCanvas(width, height int) *Canvas {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	screen := cellbuf.NewScreen(io.Discard, width, height, &cellbuf.ScreenOptions{
		ShowCursor: false,
		AltScreen:  false,
	})
	return &Canvas{
		screen: screen,
		writer: cellbuf.NewScreenWriter(screen),
		width:  width,
		height: height,
	}
}

// Width and Height report the frame size in cells.
func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Fill paints the entire canvas with the provided background color.
func (c *Canvas) Fill(bg lipgloss.TerminalColor) {
	if c == nil {
		return
	}
	fill := lipgloss.NewStyle().
		Background(bg).
		Width(c.width).
		Height(c.height).
		Render("")
	c.DrawStringAt(0, 0, fill)
}

// DrawStringAt writes the block starting at x,y. Each line of the block
// starts at column x; anything past the edge is cropped.
func (c *Canvas) DrawStringAt(x, y int, content string) {
	if content == "" || c == nil || c.writer == nil {
		return
	}
	c.drawBlockAt(x, y, splitLines(content))
}

// Center draws the block centered horizontally and vertically within the rows
// left free by the top and bottom margins.
func (c *Canvas) Center(block string, topMargin, bottomMargin int) {
	lines := splitLines(block)
	if len(lines) == 0 || c == nil {
		return
	}
	topMargin = max(topMargin, 0)
	bottomMargin = max(bottomMargin, 0)

	blockHeight := len(lines)
	usable := max(c.height-topMargin-bottomMargin, blockHeight)
	startY := topMargin + (usable-blockHeight)/2
	startY = min(startY, c.height-bottomMargin-blockHeight)
	startY = max(startY, topMargin, 0)

	c.drawBlockAt(c.centerX(lines), startY, lines)
}

// CenterAt draws the block centered horizontally with its first line at row y.
func (c *Canvas) CenterAt(y int, block string) {
	lines := splitLines(block)
	if len(lines) == 0 || c == nil {
		return
	}
	c.drawBlockAt(c.centerX(lines), y, lines)
}

// BottomRight anchors the block to the bottom-right corner, inset by padding.
func (c *Canvas) BottomRight(block string, padding int) {
	lines := splitLines(block)
	if len(lines) == 0 || c == nil {
		return
	}
	padding = max(padding, 0)
	startY := max(c.height-len(lines)-padding, 0)
	startX := max(c.width-maxLineWidth(lines)-padding, 0)
	c.drawBlockAt(startX, startY, lines)
}

func (c *Canvas) centerX(lines []string) int {
	w := min(maxLineWidth(lines), c.width)
	return max((c.width-w)/2, 0)
}

func (c *Canvas) drawBlockAt(x, y int, lines []string) {
	x = max(x, 0)
	for i, line := range lines {
		row := y + i
		if row < 0 {
			continue
		}
		if row >= c.height {
			break
		}
		if line == "" {
			continue
		}
		c.writer.PrintCropAt(x, row, line, "")
	}
}

// Render returns the composed frame as a newline-delimited string suitable for
// Bubble Tea consumption. The canvas cannot be drawn on afterwards.
func (c *Canvas) Render() string {
	if c == nil || c.screen == nil {
		return ""
	}
	raw := cellbuf.Render(c.screen)
	_ = c.screen.Close()
	return strings.ReplaceAll(raw, "\r\n", "\n")
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}
