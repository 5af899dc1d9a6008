// Package sequence implements the greeting's stage sequencer.
//
// The sequencer is a pure state machine: callers feed it input events
// (Start, Advance, Fire, SetReducedMotion, SetPhotoCount) and it returns the
// side effects the host must perform, either playing a cue or scheduling a
// Task to be fired back after a delay. It owns no timers and no goroutines,
// so tests drive it by firing tasks by hand.
package sequence

import (
	"fmt"
	"strings"

	appErrors "greetcard/internal/errors"

	"gopkg.in/yaml.v3"
)

// Stage is one phase of the greeting narrative.
type Stage int

// Canonical stage order. Scripts may omit stages but never reorder them.
const (
	StageWelcome Stage = iota
	StageIntro
	StageBalloons
	StageMessage
	StagePhotos
	StageFinal
	StageOutro
)

var stageNames = [...]string{
	StageWelcome:  "welcome",
	StageIntro:    "intro",
	StageBalloons: "balloons",
	StageMessage:  "message",
	StagePhotos:   "photos",
	StageFinal:    "final",
	StageOutro:    "outro",
}

// AllStages returns every known stage in canonical order.
func AllStages() []Stage {
	out := make([]Stage, len(stageNames))
	for i := range stageNames {
		out[i] = Stage(i)
	}
	return out
}

// String returns the stage's configuration name.
func (s Stage) String() string {
	if s.Known() {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Known reports whether s is one of the defined stages.
func (s Stage) Known() bool {
	return s >= 0 && int(s) < len(stageNames)
}

// ParseStage converts a configuration name into a Stage.
func ParseStage(raw string) (Stage, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for i, candidate := range stageNames {
		if candidate == name {
			return Stage(i), nil
		}
	}
	return 0, appErrors.New(appErrors.CodeInvalidScript, fmt.Sprintf("unknown stage %q", raw), nil)
}

// MarshalYAML writes the stage by name.
func (s Stage) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML reads a stage name.
func (s *Stage) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
