package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func blankCanvas(width, height int) *Canvas {
	canvas := NewCanvas(width, height)
	canvas.DrawStringAt(0, 0, lipgloss.NewStyle().Width(width).Height(height).Render(""))
	return canvas
}

func renderedLines(c *Canvas) []string {
	return strings.Split(ansi.Strip(c.Render()), "\n")
}

func TestCanvasNormalizesNewlines(t *testing.T) {
	canvas := NewCanvas(8, 4)
	canvas.DrawStringAt(0, 0, "A\r\nB")

	lines := renderedLines(canvas)
	if len(lines) < 2 {
		t.Fatalf("expected at least 2 lines, got %d", len(lines))
	}
	if got := strings.TrimSpace(lines[0]); got != "A" {
		t.Fatalf("line 0 mismatch, expected A got %q", got)
	}
	if got := strings.TrimSpace(lines[1]); got != "B" {
		t.Fatalf("line 1 mismatch, expected B got %q", got)
	}
}

func TestCanvasCenterPositionsContent(t *testing.T) {
	const width, height = 20, 10
	canvas := blankCanvas(width, height)

	canvas.Center("AA\nBB", 1, 1)
	lines := renderedLines(canvas)

	expectedRow := 4 // topMargin=1, bottomMargin=1, block height=2
	if len(lines) <= expectedRow+1 {
		t.Fatalf("not enough lines rendered, got %d", len(lines))
	}
	if idx := strings.Index(lines[expectedRow], "AA"); idx != 9 {
		t.Fatalf("expected 'AA' centered at column 9, got column %d", idx)
	}
	if idx := strings.Index(lines[expectedRow+1], "BB"); idx != 9 {
		t.Fatalf("expected 'BB' centered at column 9, got column %d", idx)
	}
}

func TestCanvasCenterAtUsesRow(t *testing.T) {
	canvas := blankCanvas(10, 5)
	canvas.CenterAt(3, "XY")
	lines := renderedLines(canvas)
	if idx := strings.Index(lines[3], "XY"); idx != 4 {
		t.Fatalf("expected XY at column 4 of row 3, got %d in %q", idx, lines[3])
	}
}

func TestCanvasBottomRightAnchorsBlock(t *testing.T) {
	const width, height = 30, 6
	canvas := blankCanvas(width, height)

	canvas.BottomRight("ERR", 1)
	lines := renderedLines(canvas)
	targetRow := height - 1 - 1
	idx := strings.Index(lines[targetRow], "ERR")
	if idx == -1 {
		t.Fatalf("expected text in row %d, got %q", targetRow, lines[targetRow])
	}
	if idx != width-len("ERR")-1 {
		t.Fatalf("expected text at column %d, got %d", width-len("ERR")-1, idx)
	}
}

func TestLaterDrawsCoverEarlierOnes(t *testing.T) {
	canvas := blankCanvas(10, 3)
	canvas.DrawStringAt(0, 1, "aaaaaaaaaa")
	canvas.DrawStringAt(3, 1, "BB")
	lines := renderedLines(canvas)
	if got := strings.TrimSpace(lines[1]); got != "aaaBBaaaaa" {
		t.Fatalf("row 1 = %q", got)
	}
}

func TestCanvasCropsOffscreenRows(t *testing.T) {
	canvas := blankCanvas(5, 2)
	canvas.DrawStringAt(0, 1, "one\ntwo\nthree")
	canvas.DrawStringAt(0, -1, "gone\nkeep")
	lines := renderedLines(canvas)
	if got := strings.TrimSpace(lines[0]); got != "keep" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := strings.TrimSpace(lines[1]); got != "one" {
		t.Fatalf("row 1 = %q", got)
	}
}
