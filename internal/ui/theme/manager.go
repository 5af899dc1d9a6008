package theme

import (
	"slices"
	"sync"
)

// DefaultName is the palette used when nothing else is configured.
const DefaultName = "confetti"

// registry holds the known palettes and which one is showing.
type registry struct {
	mu     sync.RWMutex
	byName map[string]Theme
	active string
}

var palettes = &registry{byName: map[string]Theme{}}

func (r *registry) names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// RegisterTheme makes t selectable under name. The first registration becomes
// active until DefaultName itself is registered.
func RegisterTheme(name string, t Theme) {
	palettes.mu.Lock()
	defer palettes.mu.Unlock()
	palettes.byName[name] = t
	if palettes.active == "" || name == DefaultName {
		palettes.active = name
	}
}

// SetTheme activates name and reports whether it was known.
func SetTheme(name string) bool {
	palettes.mu.Lock()
	defer palettes.mu.Unlock()
	if _, ok := palettes.byName[name]; !ok {
		return false
	}
	palettes.active = name
	return true
}

// Current returns the active palette, or nil before any registration.
func Current() Theme {
	palettes.mu.RLock()
	defer palettes.mu.RUnlock()
	return palettes.byName[palettes.active]
}

func CurrentName() string {
	palettes.mu.RLock()
	defer palettes.mu.RUnlock()
	return palettes.active
}

// Available lists palette names alphabetically.
func Available() []string {
	palettes.mu.RLock()
	defer palettes.mu.RUnlock()
	return palettes.names()
}

// CycleTheme activates the palette after the current one, wrapping around,
// and returns its name.
func CycleTheme() string {
	palettes.mu.Lock()
	defer palettes.mu.Unlock()
	order := palettes.names()
	if len(order) == 0 {
		return ""
	}
	palettes.active = order[(slices.Index(order, palettes.active)+1)%len(order)]
	return palettes.active
}
