package sequence

import (
	"sort"
	"time"
)

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithTimings replaces the default pacing.
func WithTimings(t Timings) Option {
	return func(s *Sequencer) {
		s.timings = t
	}
}

// WithReducedMotion sets the reduced-motion preference read at mount.
func WithReducedMotion(on bool) Option {
	return func(s *Sequencer) {
		s.reduced = on
	}
}

// WithPhotoCount sets how many photos the photo stage reveals.
func WithPhotoCount(n int) Option {
	return func(s *Sequencer) {
		s.photoCount = max(n, 0)
	}
}

// Sequencer drives a Script from its first stage to its last.
type Sequencer struct {
	script     Script
	timings    Timings
	reduced    bool
	photoCount int

	started  bool
	torndown bool
	index    int
	entered  map[Stage]bool

	melodyPlayed     bool
	balloonsComplete bool
	visiblePhotos    int
	intro            Typewriter
	outro            []Typewriter

	epoch   uint64
	seq     uint64
	pending map[Token]Task
}

// New returns a sequencer for script, positioned before its first stage.
func New(script Script, opts ...Option) (*Sequencer, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}
	s := &Sequencer{
		script:  script,
		timings: DefaultTimings(),
		entered: make(map[Stage]bool, len(script.Stages)),
		pending: make(map[Token]Task),
		epoch:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.intro = NewTypewriter(script.Copy.Intro, s.timings.IntroChar)
	s.outro = make([]Typewriter, len(script.Copy.Outro))
	for i, line := range script.Copy.Outro {
		s.outro[i] = NewTypewriter(line, s.timings.OutroPacing(i).Char)
	}
	return s, nil
}

// entryEffects holds the one-shot work done when a stage is entered.
var entryEffects = map[Stage]func(*Sequencer) []Effect{
	StageIntro:    (*Sequencer).enterIntro,
	StageBalloons: (*Sequencer).enterBalloons,
	StagePhotos:   (*Sequencer).enterPhotos,
	StageOutro:    (*Sequencer).enterOutro,
}

// Start enters the first stage. Calling it again is a no-op.
func (s *Sequencer) Start() []Effect {
	if s.started || s.torndown {
		return nil
	}
	s.started = true
	return s.enter(0)
}

// Advance handles one activation (click, space, enter). Every accepted
// activation plays the click cue, including one held back by the balloons
// gate. Activations in the terminal stage are ignored.
func (s *Sequencer) Advance() []Effect {
	if !s.started || s.torndown || s.Terminal() {
		return nil
	}
	effects := []Effect{PlayCue{Cue: CueClick}}
	if s.Current() == StageBalloons && !s.balloonsComplete {
		return effects
	}
	return append(effects, s.next()...)
}

// Fire runs a task previously returned in a Schedule effect. Tasks from a
// torn-down sequencer, unknown tasks and repeats are ignored. A task whose
// stage has been left still applies its own state change but schedules
// nothing further and plays no cue.
func (s *Sequencer) Fire(task Task) []Effect {
	if s.torndown || task.Token.Epoch != s.epoch {
		return nil
	}
	stored, ok := s.pending[task.Token]
	if !ok {
		return nil
	}
	delete(s.pending, task.Token)
	live := stored.Token.Stage == s.Current()

	switch stored.Kind {
	case TaskBalloonsComplete:
		s.balloonsComplete = true
	case TaskTypeTick:
		return s.fireTick(stored, live)
	case TaskAutoAdvance:
		if live {
			return s.next()
		}
	case TaskRevealPhoto:
		return s.fireReveal(stored, live)
	case TaskStartLine:
		if live && stored.Index < len(s.outro) {
			return s.typeLine(stored.Index)
		}
	}
	return nil
}

// SetReducedMotion applies a live preference change. Turning it on collapses
// every in-flight reveal to its finished state; turning it off only affects
// stages entered afterwards.
func (s *Sequencer) SetReducedMotion(on bool) []Effect {
	if on == s.reduced {
		return nil
	}
	s.reduced = on
	if !on || !s.started || s.torndown {
		return nil
	}
	return s.collapse()
}

// SetPhotoCount updates the number of photos, for lists that arrive after
// the sequencer started. While the photo stage is current, reveals resume
// from the first hidden photo.
func (s *Sequencer) SetPhotoCount(n int) []Effect {
	s.photoCount = max(n, 0)
	if s.visiblePhotos > s.photoCount {
		s.visiblePhotos = s.photoCount
	}
	if !s.started || s.torndown || !s.entered[StagePhotos] {
		return nil
	}
	if s.reduced {
		s.visiblePhotos = s.photoCount
		return nil
	}
	if s.Current() != StagePhotos {
		return nil
	}
	return s.continuePhotos()
}

// Teardown invalidates every outstanding task. The sequencer accepts no
// further input afterwards.
func (s *Sequencer) Teardown() {
	if s.torndown {
		return
	}
	s.torndown = true
	s.epoch++
	clear(s.pending)
}

// Current returns the active stage.
func (s *Sequencer) Current() Stage {
	return s.script.Stages[s.index]
}

// TornDown reports whether Teardown has run.
func (s *Sequencer) TornDown() bool {
	return s.torndown
}

// Terminal reports whether the sequencer sits on the script's last stage.
func (s *Sequencer) Terminal() bool {
	return s.started && s.index == len(s.script.Stages)-1
}

// Revealed reports whether stage has been entered. It never reverts.
func (s *Sequencer) Revealed(stage Stage) bool {
	return s.entered[stage]
}

// RevealedStages lists entered stages in script order, bottom layer first.
func (s *Sequencer) RevealedStages() []Stage {
	var out []Stage
	for _, stage := range s.script.Stages {
		if s.entered[stage] {
			out = append(out, stage)
		}
	}
	return out
}

// BalloonsComplete reports whether the balloon rise has finished.
func (s *Sequencer) BalloonsComplete() bool {
	return s.balloonsComplete
}

// VisiblePhotos is the length of the revealed photo prefix.
func (s *Sequencer) VisiblePhotos() int {
	return s.visiblePhotos
}

// PhotoCount is the number of photos the photo stage reveals.
func (s *Sequencer) PhotoCount() int {
	return s.photoCount
}

// ReducedMotion returns the current preference.
func (s *Sequencer) ReducedMotion() bool {
	return s.reduced
}

// Intro returns the intro typewriter.
func (s *Sequencer) Intro() Typewriter {
	return s.intro
}

// Outro returns the outro typewriters, one per line.
func (s *Sequencer) Outro() []Typewriter {
	return append([]Typewriter(nil), s.outro...)
}

// Script returns the script being played.
func (s *Sequencer) Script() Script {
	return s.script
}

// Timings returns the pacing in use.
func (s *Sequencer) Timings() Timings {
	return s.timings
}

// Pending is the number of scheduled tasks not yet fired.
func (s *Sequencer) Pending() int {
	return len(s.pending)
}

// PendingTasks returns outstanding tasks in scheduling order.
func (s *Sequencer) PendingTasks() []Task {
	tasks := make([]Task, 0, len(s.pending))
	for _, task := range s.pending {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Token.Seq < tasks[j].Token.Seq
	})
	return tasks
}

func (s *Sequencer) next() []Effect {
	if s.index+1 >= len(s.script.Stages) {
		return nil
	}
	return s.enter(s.index + 1)
}

func (s *Sequencer) enter(idx int) []Effect {
	s.index = idx
	stage := s.script.Stages[idx]
	if s.entered[stage] {
		return nil
	}
	s.entered[stage] = true
	if fn, ok := entryEffects[stage]; ok {
		return fn(s)
	}
	return nil
}

func (s *Sequencer) schedule(stage Stage, kind TaskKind, delay time.Duration, index int) Effect {
	s.seq++
	task := Task{
		Token: Token{Epoch: s.epoch, Stage: stage, Seq: s.seq},
		Kind:  kind,
		Delay: delay,
		Index: index,
	}
	s.pending[task.Token] = task
	return Schedule{Task: task}
}

func (s *Sequencer) hasPending(stage Stage, kind TaskKind) bool {
	for token, task := range s.pending {
		if token.Stage == stage && task.Kind == kind {
			return true
		}
	}
	return false
}

func (s *Sequencer) enterIntro() []Effect {
	if s.reduced {
		s.intro.Complete()
	}
	if s.intro.Done() {
		return []Effect{s.schedule(StageIntro, TaskAutoAdvance, s.timings.IntroSettle, 0)}
	}
	return []Effect{s.schedule(StageIntro, TaskTypeTick, s.intro.Interval(), 0)}
}

func (s *Sequencer) enterBalloons() []Effect {
	var effects []Effect
	if !s.melodyPlayed {
		s.melodyPlayed = true
		effects = append(effects, PlayCue{Cue: CueMelody})
	}
	if s.reduced {
		s.balloonsComplete = true
		return effects
	}
	return append(effects, s.schedule(StageBalloons, TaskBalloonsComplete, s.timings.BalloonRise, 0))
}

func (s *Sequencer) enterPhotos() []Effect {
	s.visiblePhotos = 0
	return s.continuePhotos()
}

func (s *Sequencer) enterOutro() []Effect {
	if s.reduced {
		for i := range s.outro {
			s.outro[i].Complete()
		}
		return nil
	}
	return s.startLine(0)
}

// continuePhotos schedules the next reveal unless one is already queued.
func (s *Sequencer) continuePhotos() []Effect {
	if s.visiblePhotos >= s.photoCount {
		return nil
	}
	if s.reduced {
		s.visiblePhotos = s.photoCount
		return nil
	}
	if s.hasPending(StagePhotos, TaskRevealPhoto) {
		return nil
	}
	i := s.visiblePhotos
	return []Effect{s.schedule(StagePhotos, TaskRevealPhoto, s.timings.PhotoDelay(i), i)}
}

func (s *Sequencer) fireReveal(task Task, live bool) []Effect {
	if task.Index != s.visiblePhotos || task.Index >= s.photoCount {
		return nil
	}
	s.visiblePhotos++
	if !live {
		return nil
	}
	effects := []Effect{PlayCue{Cue: CueDrop}}
	return append(effects, s.continuePhotos()...)
}

func (s *Sequencer) fireTick(task Task, live bool) []Effect {
	switch task.Token.Stage {
	case StageIntro:
		s.intro.Tick()
		if !live {
			return nil
		}
		if s.intro.Done() {
			return []Effect{s.schedule(StageIntro, TaskAutoAdvance, s.timings.IntroSettle, 0)}
		}
		return []Effect{s.schedule(StageIntro, TaskTypeTick, s.intro.Interval(), 0)}
	case StageOutro:
		if task.Index >= len(s.outro) {
			return nil
		}
		line := &s.outro[task.Index]
		line.Tick()
		if !live {
			return nil
		}
		if line.Done() {
			return s.startLine(task.Index + 1)
		}
		return []Effect{s.schedule(StageOutro, TaskTypeTick, line.Interval(), task.Index)}
	}
	return nil
}

// startLine waits out line i's pause, then starts typing it.
func (s *Sequencer) startLine(i int) []Effect {
	if i >= len(s.outro) {
		return nil
	}
	if pause := s.timings.OutroPacing(i).Pause; pause > 0 {
		return []Effect{s.schedule(StageOutro, TaskStartLine, pause, i)}
	}
	return s.typeLine(i)
}

func (s *Sequencer) typeLine(i int) []Effect {
	if s.outro[i].Done() {
		return s.startLine(i + 1)
	}
	return []Effect{s.schedule(StageOutro, TaskTypeTick, s.outro[i].Interval(), i)}
}

// collapse finishes every reveal of every entered stage and drops the tasks
// that would have animated them. A pending intro auto-advance survives.
func (s *Sequencer) collapse() []Effect {
	autoAdvance := false
	for token, task := range s.pending {
		if task.Kind == TaskAutoAdvance {
			autoAdvance = true
			continue
		}
		delete(s.pending, token)
	}
	if s.entered[StageBalloons] {
		s.balloonsComplete = true
	}
	if s.entered[StageIntro] {
		s.intro.Complete()
	}
	if s.entered[StagePhotos] {
		s.visiblePhotos = s.photoCount
	}
	if s.entered[StageOutro] {
		for i := range s.outro {
			s.outro[i].Complete()
		}
	}
	if s.Current() == StageIntro && !autoAdvance {
		return []Effect{s.schedule(StageIntro, TaskAutoAdvance, s.timings.IntroSettle, 0)}
	}
	return nil
}
