package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"greetcard/internal/audio"
	"greetcard/internal/config"
	"greetcard/internal/debug"
	"greetcard/internal/messageclient"
	"greetcard/internal/motion"
	"greetcard/internal/sequence"
	"greetcard/internal/ui"
	"greetcard/internal/ui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "compose" {
		if err := config.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
			os.Exit(1)
		}
		if err := runCompose(context.Background(), os.Args[2:], os.Stdout); err != nil {
			if !errors.Is(err, flag.ErrHelp) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
		return
	}

	if err := config.Initialize(); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	runtime, err := parseRuntime(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if runtime.showVersion {
		printVersion(os.Stdout)
		os.Exit(0)
	}

	if err := debug.Init(runtime.debug); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
	}
	defer debug.Close()

	if err := run(runtime); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		debug.Close()
		os.Exit(1)
	}
}

func run(runtime runtimeOptions) error {
	script, err := sequence.ResolveScript(runtime.script, runtime.scriptFile)
	if err != nil {
		return err
	}
	if runtime.theme != "" && !theme.SetTheme(runtime.theme) {
		debug.Logf("main: unknown theme %q, keeping %s", runtime.theme, theme.CurrentName())
	}
	provider := newProvider(runtime)

	if runtime.plain || !isTerminal(os.Stdout) {
		return runPlain(context.Background(), os.Stdout, script, provider)
	}

	reduced := runtime.reducedMotion
	var updates <-chan bool
	if watcher, err := motion.Watch(config.Files()); err != nil {
		debug.Logf("main: reduced-motion watcher unavailable: %v", err)
	} else {
		defer func() { _ = watcher.Close() }()
		updates = watcher.Updates()
	}

	cfg := ui.Config{
		Script:        script,
		Greeter:       provider,
		Player:        audio.New(runtime.audio, os.Stderr),
		SaveTheme:     config.SaveTheme,
		MarkdownStyle: runtime.markdownStyle,
		ReducedMotion: reduced,
		MotionUpdates: updates,
	}
	return runProgram(cfg, ui.NewApp, func(app *ui.App) programRunner {
		return tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	})
}

func newProvider(runtime runtimeOptions) *messageclient.Provider {
	var client *messageclient.Client
	if runtime.serverURL != "" {
		client = messageclient.New(runtime.serverURL)
	}
	return messageclient.NewProvider(client,
		messageclient.WithMessageID(runtime.messageID),
		messageclient.WithDefaultText(runtime.defaultText),
		messageclient.WithFallbackPhotos(runtime.photos),
		messageclient.WithRequireService(runtime.requireService),
	)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type programRunner interface {
	Run() (tea.Model, error)
}

type programFactory func(*ui.App) programRunner

func runProgram(cfg ui.Config, builder func(ui.Config) (*ui.App, error), factory programFactory) error {
	app, err := builder(cfg)
	if err != nil {
		return fmt.Errorf("initialize greeting: %w", err)
	}
	if factory == nil {
		return fmt.Errorf("program factory is nil")
	}
	prog := factory(app)
	if prog == nil {
		return fmt.Errorf("program is nil")
	}
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run greeting: %w", err)
	}
	return nil
}

type runtimeOptions struct {
	showVersion    bool
	debug          bool
	plain          bool
	script         string
	scriptFile     string
	reducedMotion  bool
	audio          bool
	serverURL      string
	messageID      string
	defaultText    string
	requireService bool
	photos         []string
	theme          string
	markdownStyle  string
}

// parseRuntime reads flags on top of the loaded config. A flag only wins
// over config when it was given explicitly.
func parseRuntime(args []string, errOut io.Writer) (runtimeOptions, error) {
	fs := flag.NewFlagSet("greetcard", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: greetcard [flags]\n       greetcard compose [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	versionFlag := fs.Bool("version", false, "Print version information and exit")
	debugFlag := fs.Bool("debug", config.GetBool(config.KeyDebug), "Write a debug log to ~/.greetcard/debug.log")
	plainFlag := fs.Bool("plain", false, "Print the greeting as plain text instead of animating it")
	scriptFlag := fs.String("script", config.GetString(config.KeyGreetingScript), "Built-in script to play ("+strings.Join(sequence.ScriptNames(), ", ")+")")
	scriptFileFlag := fs.String("script-file", config.GetString(config.KeyGreetingScriptFile), "YAML script file (overrides -script)")
	reducedFlag := fs.Bool("reduced-motion", motion.Current(), "Skip animations and show every reveal immediately")
	audioFlag := fs.Bool("audio", config.GetBool(config.KeyAudio), "Play tones through the terminal bell")
	serverFlag := fs.String("server-url", config.GetString(config.KeyServerURL), "Message service base URL (empty uses the built-in message)")
	messageFlag := fs.String("message-id", config.GetString(config.KeyMessageID), "Stored message to show")
	requireFlag := fs.Bool("require-service", config.GetBool(config.KeyRequireService), "Show an error card when the service fails and no default message is configured")
	themeFlag := fs.String("theme", config.GetString(config.KeyTheme), "Color theme ("+strings.Join(theme.Available(), ", ")+")")
	styleFlag := fs.String("markdown-style", "dark", "Message card style (dark, light, ascii, plain)")

	if err := fs.Parse(args); err != nil {
		return runtimeOptions{}, err
	}
	visited := map[string]struct{}{}
	fs.Visit(func(f *flag.Flag) {
		visited[f.Name] = struct{}{}
	})
	explicit := func(name string) bool {
		_, ok := visited[name]
		return ok
	}

	opts := runtimeOptions{
		showVersion:    *versionFlag,
		debug:          *debugFlag,
		plain:          *plainFlag,
		script:         strings.TrimSpace(*scriptFlag),
		scriptFile:     strings.TrimSpace(*scriptFileFlag),
		reducedMotion:  *reducedFlag,
		audio:          *audioFlag,
		serverURL:      strings.TrimSpace(*serverFlag),
		messageID:      strings.TrimSpace(*messageFlag),
		defaultText:    config.GetString(config.KeyMessageDefault),
		requireService: *requireFlag,
		photos:         config.GetStringSlice(config.KeyPhotos),
		theme:          strings.TrimSpace(*themeFlag),
		markdownStyle:  strings.TrimSpace(*styleFlag),
	}
	if explicit("script") && !explicit("script-file") {
		opts.scriptFile = ""
	}
	return opts, nil
}
