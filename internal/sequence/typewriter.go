package sequence

import "time"

// Typewriter reveals a string one rune per tick.
type Typewriter struct {
	text     []rune
	revealed int
	interval time.Duration
}

// NewTypewriter returns a typewriter over text with nothing revealed.
func NewTypewriter(text string, interval time.Duration) Typewriter {
	return Typewriter{text: []rune(text), interval: interval}
}

// Tick reveals one more rune. It reports whether anything changed.
func (t *Typewriter) Tick() bool {
	if t.revealed >= len(t.text) {
		return false
	}
	t.revealed++
	return true
}

// Complete reveals the whole text at once.
func (t *Typewriter) Complete() {
	t.revealed = len(t.text)
}

// Done reports whether the full text is revealed. Empty text is always done.
func (t Typewriter) Done() bool {
	return t.revealed >= len(t.text)
}

// Visible returns the revealed prefix.
func (t Typewriter) Visible() string {
	return string(t.text[:t.revealed])
}

// Text returns the full target text.
func (t Typewriter) Text() string {
	return string(t.text)
}

// Revealed is the number of runes shown so far.
func (t Typewriter) Revealed() int {
	return t.revealed
}

// Len is the target length in runes.
func (t Typewriter) Len() int {
	return len(t.text)
}

// Interval is the delay between ticks.
func (t Typewriter) Interval() time.Duration {
	return t.interval
}

// Duration is the nominal time to reveal the whole text.
func (t Typewriter) Duration() time.Duration {
	return time.Duration(len(t.text)) * t.interval
}
