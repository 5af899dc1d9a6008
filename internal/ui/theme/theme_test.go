package theme

import (
	"slices"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestAllThemesRegistered(t *testing.T) {
	want := []string{"confetti", "midnight", "pastel"}
	if got := Available(); !slices.Equal(got, want) {
		t.Fatalf("Available() = %v, want %v", got, want)
	}
}

func TestDefaultThemeIsConfetti(t *testing.T) {
	// init registers confetti first; later registrations must not steal it.
	t.Cleanup(func() { SetTheme(DefaultName) })
	SetTheme(DefaultName)
	if CurrentName() != "confetti" {
		t.Fatalf("CurrentName() = %q", CurrentName())
	}
}

func TestSetInvalidTheme(t *testing.T) {
	if SetTheme("nonexistent-theme") {
		t.Error("SetTheme(\"nonexistent-theme\") returned true, expected false")
	}
}

func TestCycleThemeWrapsAround(t *testing.T) {
	t.Cleanup(func() { SetTheme(DefaultName) })
	SetTheme("confetti")

	var seen []string
	for range len(Available()) {
		seen = append(seen, CycleTheme())
	}
	if want := []string{"midnight", "pastel", "confetti"}; !slices.Equal(seen, want) {
		t.Fatalf("cycle order = %v, want %v", seen, want)
	}
}

func TestThemeColorsNotEmpty(t *testing.T) {
	t.Cleanup(func() { SetTheme(DefaultName) })
	for _, name := range Available() {
		SetTheme(name)
		th := Current()

		check := func(colorName string, c lipgloss.AdaptiveColor) {
			if c.Dark == "" || c.Light == "" {
				t.Errorf("theme %q: %s is missing a variant", name, colorName)
			}
		}
		check("Primary", th.Primary())
		check("Accent", th.Accent())
		check("Heart", th.Heart())
		check("Text", th.Text())
		check("TextMuted", th.TextMuted())
		check("Background", th.Background())
		check("Surface", th.Surface())
		check("Border", th.Border())
		check("Error", th.Error())

		balloons := th.Balloons()
		if len(balloons) == 0 {
			t.Errorf("theme %q has no balloon colors", name)
		}
		for _, c := range balloons {
			check("Balloon", c)
		}
	}
}

func TestBalloonsReturnsCopy(t *testing.T) {
	b := Confetti.Balloons()
	b[0] = lipgloss.AdaptiveColor{}
	if Confetti.Balloons()[0].Dark == "" {
		t.Fatal("mutating the returned slice changed the palette")
	}
}
