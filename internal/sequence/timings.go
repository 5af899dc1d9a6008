package sequence

import "time"

// LinePacing paces one outro line: a pause before typing starts, then one
// character per Char.
type LinePacing struct {
	Pause time.Duration
	Char  time.Duration
}

// Timings holds every delay the sequencer schedules.
type Timings struct {
	IntroChar   time.Duration
	IntroSettle time.Duration
	BalloonRise time.Duration

	PhotoFirst   time.Duration
	PhotoGap     time.Duration
	PhotoGapStep time.Duration
	PhotoGapMax  time.Duration

	// Outro paces each outro line; lines beyond the list reuse the last entry.
	Outro []LinePacing
}

// DefaultTimings returns the stock greeting pacing.
func DefaultTimings() Timings {
	return Timings{
		IntroChar:    80 * time.Millisecond,
		IntroSettle:  800 * time.Millisecond,
		BalloonRise:  2000 * time.Millisecond,
		PhotoFirst:   300 * time.Millisecond,
		PhotoGap:     400 * time.Millisecond,
		PhotoGapStep: 50 * time.Millisecond,
		PhotoGapMax:  500 * time.Millisecond,
		Outro: []LinePacing{
			{Pause: 0, Char: 100 * time.Millisecond},
			{Pause: 500 * time.Millisecond, Char: 100 * time.Millisecond},
			{Pause: 800 * time.Millisecond, Char: 150 * time.Millisecond},
		},
	}
}

// PhotoDelay is the wait before photo i is revealed, measured from the
// previous reveal (or from entering the stage for i == 0).
func (t Timings) PhotoDelay(i int) time.Duration {
	if i <= 0 {
		return t.PhotoFirst
	}
	gap := t.PhotoGap + time.Duration(i-1)*t.PhotoGapStep
	if t.PhotoGapMax > 0 && gap > t.PhotoGapMax {
		gap = t.PhotoGapMax
	}
	return gap
}

// OutroPacing returns the pacing for outro line i.
func (t Timings) OutroPacing(i int) LinePacing {
	if len(t.Outro) == 0 {
		return LinePacing{Char: 100 * time.Millisecond}
	}
	if i >= len(t.Outro) {
		return t.Outro[len(t.Outro)-1]
	}
	return t.Outro[i]
}
