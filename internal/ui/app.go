package ui

import (
	"context"
	"time"

	"greetcard/internal/audio"
	"greetcard/internal/debug"
	"greetcard/internal/domain"
	"greetcard/internal/messageclient"
	"greetcard/internal/sequence"
	"greetcard/internal/ui/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Greeter supplies the message and photos shown by the greeting.
type Greeter interface {
	Resolve(ctx context.Context) (messageclient.Greeting, error)
}

// Config configures the greeting app.
type Config struct {
	Script  sequence.Script
	Timings *sequence.Timings // nil uses sequence.DefaultTimings

	Greeter       Greeter
	Player        audio.Player
	CheckPhoto    PhotoChecker
	SaveTheme     func(name string) error
	MarkdownStyle string // glamour style name, or "plain"

	ReducedMotion bool
	MotionUpdates <-chan bool

	// Now is the clock used by the balloon animation.
	Now func() time.Time
}

// App implements the Bubble Tea model for the greeting.
type App struct {
	seq  *sequence.Sequencer
	keys KeyMap

	ctx    context.Context
	cancel context.CancelFunc

	greeter       Greeter
	player        audio.Player
	checkPhoto    PhotoChecker
	saveTheme     func(string) error
	markdownStyle string
	motion        <-chan bool
	now           func() time.Time

	width  int
	height int

	loading  bool
	greeting messageclient.Greeting
	loadErr  error
	photos   []photoSlot
	spinner  spinner.Model

	balloonsSince time.Time
	animating     bool
	notice        string
	quitting      bool
}

// NewApp validates the script and builds the model. Nothing is played until
// the program calls Init.
func NewApp(cfg Config) (*App, error) {
	opts := []sequence.Option{sequence.WithReducedMotion(cfg.ReducedMotion)}
	if cfg.Timings != nil {
		opts = append(opts, sequence.WithTimings(*cfg.Timings))
	}
	seq, err := sequence.New(cfg.Script, opts...)
	if err != nil {
		return nil, err
	}

	player := cfg.Player
	if player == nil {
		player = audio.Nop{}
	}
	check := cfg.CheckPhoto
	if check == nil {
		check = NewPhotoChecker(nil)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		seq:           seq,
		keys:          DefaultKeyMap(),
		ctx:           ctx,
		cancel:        cancel,
		greeter:       cfg.Greeter,
		player:        audio.Safe(player),
		checkPhoto:    check,
		saveTheme:     cfg.SaveTheme,
		markdownStyle: cfg.MarkdownStyle,
		motion:        cfg.MotionUpdates,
		now:           now,
		loading:       cfg.Greeter != nil,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	if cfg.Greeter == nil {
		app.greeting = messageclient.Greeting{
			Message: domain.DefaultMessage(),
			Source:  messageclient.SourceDefault,
		}
	}
	return app, nil
}

// Sequencer exposes the underlying state machine.
func (m *App) Sequencer() *sequence.Sequencer {
	return m.seq
}

func (m *App) Init() tea.Cmd {
	cmds := []tea.Cmd{m.apply(m.seq.Start())}
	if m.greeter != nil {
		cmds = append(cmds, resolveGreetingCmd(m.ctx, m.greeter), m.spinner.Tick)
	}
	cmds = append(cmds, waitForMotion(m.motion))
	return tea.Batch(cmds...)
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m, m.advance()
		}
		return m, nil

	case taskMsg:
		before := m.seq.Current()
		return m, m.afterInput(before, m.seq.Fire(msg.task))

	case greetingMsg:
		return m, m.handleGreeting(msg)

	case photoCheckedMsg:
		if msg.index < len(m.photos) && m.photos[msg.index].ref == msg.ref {
			if msg.err != nil {
				debug.Logf("ui: photo %d (%s) unavailable: %v", msg.index+1, msg.ref, msg.err)
				m.photos[msg.index].state = photoFailed
			} else {
				m.photos[msg.index].state = photoLoaded
			}
		}
		return m, nil

	case motionMsg:
		if !msg.ok {
			m.motion = nil
			return m, nil
		}
		debug.Logf("ui: reduced motion -> %v", msg.reduced)
		return m, tea.Batch(m.apply(m.seq.SetReducedMotion(msg.reduced)), waitForMotion(m.motion))

	case frameMsg:
		if m.seq.Current() != sequence.StageBalloons || m.seq.BalloonsComplete() || m.seq.TornDown() {
			m.animating = false
			return m, nil
		}
		return m, scheduleFrame()

	case themeSavedMsg:
		if msg.err != nil {
			debug.Logf("ui: save theme %s: %v", msg.name, msg.err)
			m.notice = "theme not saved"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quit()
		return tea.Quit
	case key.Matches(msg, m.keys.Advance):
		return m.advance()
	case key.Matches(msg, m.keys.Motion):
		on := !m.seq.ReducedMotion()
		if on {
			m.notice = "reduced motion on"
		} else {
			m.notice = "reduced motion off"
		}
		return m.apply(m.seq.SetReducedMotion(on))
	case key.Matches(msg, m.keys.Theme):
		name := theme.CycleTheme()
		m.notice = "theme: " + name
		return saveThemeCmd(m.saveTheme, name)
	}
	return nil
}

func (m *App) advance() tea.Cmd {
	before := m.seq.Current()
	return m.afterInput(before, m.seq.Advance())
}

// afterInput runs the effects and starts the presentation work for a stage
// the sequencer just entered.
func (m *App) afterInput(before sequence.Stage, effects []sequence.Effect) tea.Cmd {
	cmd := m.apply(effects)
	if m.seq.Current() == before {
		return cmd
	}
	m.notice = ""
	debug.Logf("ui: stage %s -> %s", before, m.seq.Current())
	if m.seq.Current() == sequence.StageBalloons && !m.seq.BalloonsComplete() && !m.animating {
		m.balloonsSince = m.now()
		m.animating = true
		cmd = tea.Batch(cmd, scheduleFrame())
	}
	return cmd
}

func (m *App) handleGreeting(msg greetingMsg) tea.Cmd {
	m.loading = false
	m.greeting = msg.greeting
	m.loadErr = msg.err
	if msg.err != nil {
		debug.Logf("ui: greeting unavailable: %v", msg.err)
		return nil
	}
	if msg.greeting.FetchErr != nil {
		debug.Logf("ui: using default message: %v", msg.greeting.FetchErr)
	}

	m.photos = make([]photoSlot, len(msg.greeting.Photos))
	cmds := make([]tea.Cmd, 0, len(m.photos)+1)
	for i, ref := range msg.greeting.Photos {
		m.photos[i] = photoSlot{ref: ref}
		cmds = append(cmds, checkPhotoCmd(m.ctx, m.checkPhoto, i, ref))
	}
	cmds = append(cmds, m.apply(m.seq.SetPhotoCount(len(m.photos))))
	return tea.Batch(cmds...)
}

// apply turns sequencer effects into commands.
func (m *App) apply(effects []sequence.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		switch e := eff.(type) {
		case sequence.PlayCue:
			if tone, ok := toneFor(e.Cue); ok {
				cmds = append(cmds, playCmd(m.ctx, m.player, tone))
			}
		case sequence.Schedule:
			cmds = append(cmds, scheduleTask(e.Task))
		}
	}
	return tea.Batch(cmds...)
}

func (m *App) quit() {
	if m.quitting {
		return
	}
	m.quitting = true
	m.seq.Teardown()
	m.cancel()
}
