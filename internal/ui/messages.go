package ui

import (
	"context"
	"time"

	"greetcard/internal/audio"
	"greetcard/internal/messageclient"
	"greetcard/internal/sequence"

	tea "github.com/charmbracelet/bubbletea"
)

// taskMsg returns a scheduled sequencer task to the update loop.
type taskMsg struct {
	task sequence.Task
}

func scheduleTask(task sequence.Task) tea.Cmd {
	return tea.Tick(task.Delay, func(time.Time) tea.Msg {
		return taskMsg{task: task}
	})
}

type greetingMsg struct {
	greeting messageclient.Greeting
	err      error
}

func resolveGreetingCmd(ctx context.Context, g Greeter) tea.Cmd {
	return func() tea.Msg {
		greeting, err := g.Resolve(ctx)
		return greetingMsg{greeting: greeting, err: err}
	}
}

type photoCheckedMsg struct {
	index int
	ref   string
	err   error
}

func checkPhotoCmd(ctx context.Context, check PhotoChecker, index int, ref string) tea.Cmd {
	return func() tea.Msg {
		return photoCheckedMsg{index: index, ref: ref, err: check(ctx, ref)}
	}
}

type motionMsg struct {
	reduced bool
	ok      bool
}

// waitForMotion blocks on the next reduced-motion change. The app
// re-subscribes after each message.
func waitForMotion(updates <-chan bool) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		on, ok := <-updates
		return motionMsg{reduced: on, ok: ok}
	}
}

// frameMsg drives the balloon rise animation.
type frameMsg struct{}

const frameInterval = 100 * time.Millisecond

func scheduleFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

type themeSavedMsg struct {
	name string
	err  error
}

func saveThemeCmd(save func(string) error, name string) tea.Cmd {
	if save == nil {
		return nil
	}
	return func() tea.Msg {
		return themeSavedMsg{name: name, err: save(name)}
	}
}

// playCmd plays a tone off the update loop. Errors are already swallowed by
// the player, so the command yields no message.
func playCmd(ctx context.Context, p audio.Player, tone audio.Tone) tea.Cmd {
	return func() tea.Msg {
		_ = p.Play(ctx, tone)
		return nil
	}
}

func toneFor(cue sequence.Cue) (audio.Tone, bool) {
	switch cue {
	case sequence.CueClick:
		return audio.Click, true
	case sequence.CueMelody:
		return audio.Melody, true
	case sequence.CueDrop:
		return audio.Drop, true
	default:
		return audio.Tone{}, false
	}
}
