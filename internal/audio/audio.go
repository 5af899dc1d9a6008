// Package audio plays the greeting's sound cues.
//
// Sound is optional. Every Player failure is swallowed by Safe, so stage
// logic never depends on whether a terminal can make noise.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"greetcard/internal/debug"
)

// ErrUnavailable reports that no output device is attached.
var ErrUnavailable = errors.New("audio output unavailable")

// Note is a single pitch held for Duration.
type Note struct {
	Freq     float64
	Duration time.Duration
}

// Tone is a short sequence of notes separated by Gap.
type Tone struct {
	Name  string
	Notes []Note
	Gap   time.Duration
}

// Length is the total playing time of the tone.
func (t Tone) Length() time.Duration {
	var total time.Duration
	for i, n := range t.Notes {
		total += n.Duration
		if i < len(t.Notes)-1 {
			total += t.Gap
		}
	}
	return total
}

var (
	// Melody is the six-note birthday phrase.
	Melody = Tone{
		Name: "melody",
		Notes: []Note{
			{Freq: 523.25, Duration: 300 * time.Millisecond},
			{Freq: 523.25, Duration: 100 * time.Millisecond},
			{Freq: 587.33, Duration: 400 * time.Millisecond},
			{Freq: 523.25, Duration: 400 * time.Millisecond},
			{Freq: 698.46, Duration: 400 * time.Millisecond},
			{Freq: 659.25, Duration: 800 * time.Millisecond},
		},
		Gap: 100 * time.Millisecond,
	}

	// Click acknowledges an activation.
	Click = Tone{
		Name:  "click",
		Notes: []Note{{Freq: 800, Duration: 100 * time.Millisecond}},
	}

	// Drop is the short falling tone played as a photo lands.
	Drop = Tone{
		Name: "drop",
		Notes: []Note{
			{Freq: 880, Duration: 60 * time.Millisecond},
			{Freq: 440, Duration: 90 * time.Millisecond},
		},
	}
)

// Player plays tones.
type Player interface {
	Play(ctx context.Context, tone Tone) error
}

// Nop discards every tone.
type Nop struct{}

// Play implements Player.
func (Nop) Play(context.Context, Tone) error { return nil }

// Bell renders tones as terminal bells, one per note, paced by note length.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play rings once per note. Tones are serialized so overlapping cues queue
// rather than interleave.
func (b *Bell) Play(ctx context.Context, tone Tone) error {
	if b == nil || b.w == nil {
		return ErrUnavailable
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, note := range tone.Notes {
		if _, err := io.WriteString(b.w, "\a"); err != nil {
			return fmt.Errorf("ring bell: %w", err)
		}
		wait := note.Duration
		if i < len(tone.Notes)-1 {
			wait += tone.Gap
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type safePlayer struct {
	p Player
}

// Safe wraps p so that errors and panics are logged and dropped.
func Safe(p Player) Player {
	if p == nil {
		return Nop{}
	}
	if _, ok := p.(safePlayer); ok {
		return p
	}
	return safePlayer{p: p}
}

func (s safePlayer) Play(ctx context.Context, tone Tone) (err error) {
	defer func() {
		if r := recover(); r != nil {
			debug.Logf("audio: %s panicked: %v", tone.Name, r)
		}
		err = nil
	}()
	if playErr := s.p.Play(ctx, tone); playErr != nil {
		debug.Logf("audio: %s failed: %v", tone.Name, playErr)
	}
	return nil
}

// New returns a fail-safe player: a Bell on w when enabled, otherwise Nop.
func New(enabled bool, w io.Writer) Player {
	if !enabled {
		return Nop{}
	}
	return Safe(NewBell(w))
}
