package audio

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestMelodyShape(t *testing.T) {
	if len(Melody.Notes) != 6 {
		t.Fatalf("expected six notes, got %d", len(Melody.Notes))
	}
	want := 2400*time.Millisecond + 5*100*time.Millisecond
	if got := Melody.Length(); got != want {
		t.Fatalf("melody length = %v, want %v", got, want)
	}
	if Click.Length() != 100*time.Millisecond {
		t.Fatalf("click length = %v", Click.Length())
	}
	if Drop.Notes[0].Freq <= Drop.Notes[1].Freq {
		t.Fatal("drop tone should descend")
	}
}

func TestBellRingsOncePerNote(t *testing.T) {
	var buf bytes.Buffer
	tone := Tone{Name: "test", Notes: []Note{{Freq: 1, Duration: time.Millisecond}, {Freq: 2, Duration: time.Millisecond}}}
	if err := NewBell(&buf).Play(context.Background(), tone); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := buf.String(); got != "\a\a" {
		t.Fatalf("expected two bells, got %q", got)
	}
}

func TestBellStopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewBell(&buf).Play(ctx, Melody)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if buf.Len() != 1 {
		t.Fatalf("expected a single bell before cancellation, got %q", buf.String())
	}
}

func TestBellWithoutWriterIsUnavailable(t *testing.T) {
	if err := NewBell(nil).Play(context.Background(), Click); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

type failingPlayer struct {
	panic bool
	calls int
}

func (f *failingPlayer) Play(context.Context, Tone) error {
	f.calls++
	if f.panic {
		panic("device exploded")
	}
	return errors.New("autoplay blocked")
}

func TestSafeSwallowsFailures(t *testing.T) {
	for _, panics := range []bool{false, true} {
		inner := &failingPlayer{panic: panics}
		p := Safe(inner)
		if err := p.Play(context.Background(), Click); err != nil {
			t.Fatalf("Safe should swallow errors, got %v", err)
		}
		if inner.calls != 1 {
			t.Fatalf("inner player called %d times", inner.calls)
		}
	}
}

func TestSafeIsIdempotent(t *testing.T) {
	p := Safe(Nop{})
	if Safe(p) != p {
		t.Fatal("wrapping twice should return the same player")
	}
	if _, ok := Safe(nil).(Nop); !ok {
		t.Fatal("Safe(nil) should be Nop")
	}
}

func TestNewDisabledIsNop(t *testing.T) {
	var buf bytes.Buffer
	p := New(false, &buf)
	if err := p.Play(context.Background(), Click); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatal("disabled audio must not write")
	}
}
