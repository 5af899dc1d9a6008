package sequence

import (
	"fmt"
	"time"
)

// Cue names a sound the host should play.
type Cue int

const (
	// CueClick acknowledges an accepted activation.
	CueClick Cue = iota
	// CueMelody is the six-note song played when the balloons first appear.
	CueMelody
	// CueDrop accompanies each photo reveal.
	CueDrop
)

func (c Cue) String() string {
	switch c {
	case CueClick:
		return "click"
	case CueMelody:
		return "melody"
	case CueDrop:
		return "drop"
	default:
		return fmt.Sprintf("cue(%d)", int(c))
	}
}

// TaskKind identifies what a scheduled task does when fired.
type TaskKind int

const (
	// TaskTypeTick reveals one more rune of a typewriter.
	TaskTypeTick TaskKind = iota
	// TaskAutoAdvance leaves the intro once its text has settled.
	TaskAutoAdvance
	// TaskBalloonsComplete opens the balloons gate.
	TaskBalloonsComplete
	// TaskRevealPhoto shows the photo at Index.
	TaskRevealPhoto
	// TaskStartLine begins typing outro line Index.
	TaskStartLine
)

func (k TaskKind) String() string {
	switch k {
	case TaskTypeTick:
		return "type-tick"
	case TaskAutoAdvance:
		return "auto-advance"
	case TaskBalloonsComplete:
		return "balloons-complete"
	case TaskRevealPhoto:
		return "reveal-photo"
	case TaskStartLine:
		return "start-line"
	default:
		return fmt.Sprintf("task(%d)", int(k))
	}
}

// Token ties a task to the sequencer lifetime (Epoch) and the stage that
// scheduled it. Seq makes every token unique.
type Token struct {
	Epoch uint64
	Stage Stage
	Seq   uint64
}

// Task is a unit of delayed work. The host waits Delay and hands the task
// back through Sequencer.Fire.
type Task struct {
	Token Token
	Kind  TaskKind
	Delay time.Duration
	// Index is the typewriter line for TaskTypeTick and TaskStartLine, or
	// the photo for TaskRevealPhoto.
	Index int
}

// Effect is a side effect requested by the sequencer: PlayCue or Schedule.
type Effect interface {
	effect()
}

// PlayCue asks the host to play a sound. Failures must not affect sequencing.
type PlayCue struct {
	Cue Cue
}

// Schedule asks the host to fire Task after Task.Delay.
type Schedule struct {
	Task Task
}

func (PlayCue) effect()  {}
func (Schedule) effect() {}
