package sequence

import (
	"os"
	"path/filepath"
	"testing"

	appErrors "greetcard/internal/errors"
)

func TestBuiltinScripts(t *testing.T) {
	cases := map[string][]Stage{
		ScriptClassic: {StageWelcome, StageBalloons, StageMessage, StagePhotos},
		ScriptFull:    {StageWelcome, StageIntro, StageBalloons, StageMessage, StagePhotos, StageFinal, StageOutro},
		ScriptShort:   {StageWelcome, StageBalloons, StageMessage},
	}
	for name, want := range cases {
		script, err := BuiltinScript(name)
		if err != nil {
			t.Fatalf("BuiltinScript(%s): %v", name, err)
		}
		if len(script.Stages) != len(want) {
			t.Fatalf("%s stages = %v, want %v", name, script.Stages, want)
		}
		for i := range want {
			if script.Stages[i] != want[i] {
				t.Fatalf("%s stages = %v, want %v", name, script.Stages, want)
			}
		}
		if err := script.Validate(); err != nil {
			t.Fatalf("%s should validate: %v", name, err)
		}
	}

	if _, err := BuiltinScript("nope"); !appErrors.IsCode(err, appErrors.CodeInvalidScript) {
		t.Fatalf("expected invalid_script, got %v", err)
	}
}

func TestBuiltinScriptIsACopy(t *testing.T) {
	a, _ := BuiltinScript(ScriptFull)
	a.Stages[1] = StageOutro
	b, _ := BuiltinScript(ScriptFull)
	if b.Stages[1] != StageIntro {
		t.Fatal("mutating a returned script must not affect the built-in")
	}
}

func TestParseScript(t *testing.T) {
	script, err := ParseScript([]byte(`
name: party
stages: [welcome, balloons, photos, outro]
copy:
  heading: HAPPY 30TH
  outro:
    - one
    - two
`))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if script.Name != "party" {
		t.Fatalf("unexpected name %q", script.Name)
	}
	if len(script.Stages) != 4 || script.Stages[3] != StageOutro {
		t.Fatalf("unexpected stages %v", script.Stages)
	}
	if script.Copy.Heading != "HAPPY 30TH" {
		t.Fatalf("heading = %q", script.Copy.Heading)
	}
	if script.Copy.Welcome != DefaultCopy().Welcome {
		t.Fatalf("missing copy should default, got %q", script.Copy.Welcome)
	}
	if len(script.Copy.Outro) != 2 {
		t.Fatalf("outro = %v", script.Copy.Outro)
	}
}

func TestParseScriptErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "stages: []",
		"unknown stage":  "stages: [welcome, cake]",
		"no welcome":     "stages: [balloons, message]",
		"duplicate":      "stages: [welcome, balloons, balloons]",
		"out of order":   "stages: [welcome, message, balloons]",
		"unknown field":  "stages: [welcome]\ncolour: red",
		"malformed yaml": "stages: [welcome",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScript([]byte(doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !appErrors.IsCode(err, appErrors.CodeInvalidScript) {
				t.Fatalf("expected invalid_script, got %q (%v)", appErrors.CodeOf(err), err)
			}
		})
	}
}

func TestResolveScriptPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte("stages: [welcome, message]\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	script, err := ResolveScript(ScriptFull, path)
	if err != nil {
		t.Fatalf("ResolveScript: %v", err)
	}
	if script.Name != "custom" || len(script.Stages) != 2 {
		t.Fatalf("unexpected script %+v", script)
	}

	script, err = ResolveScript(ScriptShort, "")
	if err != nil {
		t.Fatalf("ResolveScript builtin: %v", err)
	}
	if script.Name != ScriptShort {
		t.Fatalf("expected short, got %q", script.Name)
	}

	if _, err := LoadScript(filepath.Join(t.TempDir(), "missing.yaml")); !appErrors.IsCode(err, appErrors.CodeInvalidScript) {
		t.Fatalf("expected invalid_script for missing file, got %v", err)
	}
}

func TestParseStage(t *testing.T) {
	for _, stage := range AllStages() {
		got, err := ParseStage(" " + stage.String() + " ")
		if err != nil || got != stage {
			t.Fatalf("ParseStage(%s) = %v, %v", stage, got, err)
		}
	}
	if _, err := ParseStage("cake"); err == nil {
		t.Fatal("expected error for unknown stage")
	}
	if Stage(42).Known() {
		t.Fatal("stage 42 should be unknown")
	}
}
