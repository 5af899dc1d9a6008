package ui

// Layer paints one part of the greeting onto a frame. Layers are drawn in
// order, so later layers cover earlier ones.
type Layer interface {
	Draw(s Surface)
}

// LayerFunc is an adapter to allow ordinary functions to act as layers.
type LayerFunc func(s Surface)

// Draw implements Layer for LayerFunc.
func (f LayerFunc) Draw(s Surface) {
	f(s)
}

// compose draws layers onto a fresh primary surface and returns the frame.
func compose(width, height int, layers ...Layer) string {
	s := NewPrimarySurface(width, height)
	for _, l := range layers {
		if l != nil {
			l.Draw(s)
		}
	}
	return s.Render()
}
