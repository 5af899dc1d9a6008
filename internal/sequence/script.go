package sequence

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	appErrors "greetcard/internal/errors"

	"gopkg.in/yaml.v3"
)

// Built-in script names.
const (
	ScriptClassic = "classic"
	ScriptFull    = "full"
	ScriptShort   = "short"
)

// Copy holds the words shown on each stage.
type Copy struct {
	Welcome       string   `yaml:"welcome"`
	Prompt        string   `yaml:"prompt"`
	Intro         string   `yaml:"intro"`
	Heading       string   `yaml:"heading"`
	MessagePrompt string   `yaml:"message_prompt"`
	MessageTitle  string   `yaml:"message_title"`
	PhotosTitle   string   `yaml:"photos_title"`
	Final         string   `yaml:"final"`
	Outro         []string `yaml:"outro"`
}

// DefaultCopy returns the stock birthday wording.
func DefaultCopy() Copy {
	return Copy{
		Welcome:       "HI",
		Prompt:        "Click anywhere to continue",
		Intro:         "Today is all about you, so I made you a little something...",
		Heading:       "HAPPY BIRTHDAY",
		MessagePrompt: "Click to see your special message",
		MessageTitle:  "For You",
		PhotosTitle:   "Beautiful Memories",
		Final:         "Happy Birthday",
		Outro: []string{
			"Made with love,",
			"for someone who makes every day brighter.",
			"See you next year!",
		},
	}
}

// withDefaults fills empty fields from DefaultCopy.
func (c Copy) withDefaults() Copy {
	d := DefaultCopy()
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&c.Welcome, d.Welcome)
	fill(&c.Prompt, d.Prompt)
	fill(&c.Intro, d.Intro)
	fill(&c.Heading, d.Heading)
	fill(&c.MessagePrompt, d.MessagePrompt)
	fill(&c.MessageTitle, d.MessageTitle)
	fill(&c.PhotosTitle, d.PhotosTitle)
	fill(&c.Final, d.Final)
	if len(c.Outro) == 0 {
		c.Outro = d.Outro
	}
	return c
}

// Script is the ordered list of stages a greeting plays, plus its copy.
type Script struct {
	Name   string  `yaml:"name"`
	Stages []Stage `yaml:"stages"`
	Copy   Copy    `yaml:"copy"`
}

var builtinStages = map[string][]Stage{
	ScriptClassic: {StageWelcome, StageBalloons, StageMessage, StagePhotos},
	ScriptFull:    {StageWelcome, StageIntro, StageBalloons, StageMessage, StagePhotos, StageFinal, StageOutro},
	ScriptShort:   {StageWelcome, StageBalloons, StageMessage},
}

// ScriptNames lists the built-in scripts in alphabetical order.
func ScriptNames() []string {
	names := make([]string, 0, len(builtinStages))
	for name := range builtinStages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinScript returns the named built-in script with default copy.
func BuiltinScript(name string) (Script, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	stages, ok := builtinStages[key]
	if !ok {
		return Script{}, appErrors.New(appErrors.CodeInvalidScript,
			fmt.Sprintf("unknown script %q (available: %s)", name, strings.Join(ScriptNames(), ", ")), nil)
	}
	return Script{
		Name:   key,
		Stages: append([]Stage(nil), stages...),
		Copy:   DefaultCopy(),
	}, nil
}

// ParseScript decodes and validates a YAML script. Missing copy falls back to
// DefaultCopy.
func ParseScript(data []byte) (Script, error) {
	var script Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil {
		if appErrors.IsCode(err, appErrors.CodeInvalidScript) {
			return Script{}, err
		}
		return Script{}, appErrors.New(appErrors.CodeInvalidScript, fmt.Sprintf("parse script: %v", err), err)
	}
	script.Copy = script.Copy.withDefaults()
	if strings.TrimSpace(script.Name) == "" {
		script.Name = "custom"
	}
	if err := script.Validate(); err != nil {
		return Script{}, err
	}
	return script, nil
}

// LoadScript reads a YAML script from path.
func LoadScript(path string) (Script, error) {
	//nolint:gosec // G304: Script path is supplied by the user on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, appErrors.New(appErrors.CodeInvalidScript, fmt.Sprintf("read script %s: %v", path, err), err)
	}
	return ParseScript(data)
}

// ResolveScript loads file when set, otherwise the named built-in.
func ResolveScript(name, file string) (Script, error) {
	if strings.TrimSpace(file) != "" {
		return LoadScript(file)
	}
	return BuiltinScript(name)
}

// Validate checks the structural rules every script must satisfy: non-empty,
// known stages, starts with welcome, canonical order without repeats.
func (s Script) Validate() error {
	if len(s.Stages) == 0 {
		return invalidScript("script has no stages")
	}
	if s.Stages[0] != StageWelcome {
		return invalidScript(fmt.Sprintf("script must start with %s, got %s", StageWelcome, s.Stages[0]))
	}
	prev := Stage(-1)
	for _, stage := range s.Stages {
		if !stage.Known() {
			return invalidScript(fmt.Sprintf("unknown stage %s", stage))
		}
		if stage == prev {
			return invalidScript(fmt.Sprintf("stage %s appears more than once", stage))
		}
		if stage < prev {
			return invalidScript(fmt.Sprintf("stage %s cannot follow %s", stage, prev))
		}
		prev = stage
	}
	return nil
}

func invalidScript(msg string) error {
	return appErrors.New(appErrors.CodeInvalidScript, msg, nil)
}
