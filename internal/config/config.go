package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"greetcard/internal/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	KeyServerAddr = "server.addr"
	KeyServerURL  = "server.url"

	KeyDatabaseDriver = "database.driver"
	KeyDatabasePath   = "database.path"
	KeyDatabaseDSN    = "database.dsn"

	KeyMessageID      = "message.id"
	KeyMessageDefault = "message.default"

	KeyGreetingScript     = "greeting.script"
	KeyGreetingScriptFile = "greeting.script-file"
	KeyReducedMotion      = "greeting.reduced-motion"
	KeyAudio              = "greeting.audio"
	KeyRequireService     = "greeting.require-service"
	KeyPhotos             = "greeting.photos"

	KeyTheme = "theme"
	KeyDebug = "debug"
)

const (
	// DefaultServerAddr is where greetcardd listens when nothing else is configured.
	DefaultServerAddr = ":8080"
	// DefaultScript names the built-in script played by default.
	DefaultScript = "full"

	envPrefix  = "GC"
	dirName    = ".greetcard"
	fileName   = "config.yaml"
	dotEnvFile = ".env"
)

// DefaultPhotos are shown when neither the service nor the config supplies photos.
var DefaultPhotos = []string{
	"https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=400&h=500&fit=crop",
	"https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=400&h=500&fit=crop",
	"https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=400&h=500&fit=crop",
}

// sources names the files a configuration is built from.
type sources struct {
	workingDir string
	user       string
	project    string
	dotEnv     string
}

// Option adjusts where Initialize looks for configuration. Mostly for tests.
type Option func(*sources)

// WithWorkingDir starts project config discovery (and .env lookup) from dir.
func WithWorkingDir(dir string) Option {
	return func(s *sources) { s.workingDir = dir }
}

// WithProjectConfig skips discovery and uses path as the project config.
func WithProjectConfig(path string) Option {
	return func(s *sources) { s.project = path }
}

// WithUserConfig replaces ~/.greetcard/config.yaml.
func WithUserConfig(path string) Option {
	return func(s *sources) { s.user = path }
}

// WithDotEnv replaces the .env file read before the environment.
func WithDotEnv(path string) Option {
	return func(s *sources) { s.dotEnv = path }
}

// resolve fills every empty field with its default location.
func (s sources) resolve() (sources, error) {
	s.workingDir = strings.TrimSpace(s.workingDir)
	if s.workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return s, fmt.Errorf("determine working directory: %w", err)
		}
		s.workingDir = wd
	}
	s.user = strings.TrimSpace(s.user)
	if s.user == "" {
		path, err := defaultUserConfigPath()
		if err != nil {
			return s, err
		}
		s.user = path
	}
	s.project = strings.TrimSpace(s.project)
	if s.project == "" {
		path, err := findProjectConfig(s.workingDir)
		if err != nil {
			return s, err
		}
		s.project = path
	}
	s.dotEnv = strings.TrimSpace(s.dotEnv)
	if s.dotEnv == "" {
		s.dotEnv = filepath.Join(s.workingDir, dotEnvFile)
	}
	return s, nil
}

// load builds a viper instance layering
// defaults < user file < project file < .env < GC_* environment.
func (s sources) load() (*viper.Viper, error) {
	if err := loadDotEnv(s.dotEnv); err != nil {
		return nil, fmt.Errorf("load %s: %w", s.dotEnv, err)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := mergeConfigFile(v, s.user); err != nil {
		return nil, fmt.Errorf("load user config: %w", err)
	}
	if err := mergeConfigFile(v, s.project); err != nil {
		return nil, fmt.Errorf("load project config: %w", err)
	}
	return v, nil
}

var (
	once    sync.Once
	mu      sync.RWMutex
	current *viper.Viper
	loadErr error
	used    sources
)

var errNotInitialized = errors.New("configuration not initialized")

// Initialize loads configuration once per process. Later calls return the
// first result and ignore their options.
func Initialize(opts ...Option) error {
	once.Do(func() {
		var s sources
		for _, opt := range opts {
			opt(&s)
		}
		loadErr = install(s)
	})
	return loadErr
}

func install(s sources) error {
	s, err := s.resolve()
	if err != nil {
		return err
	}
	v, err := s.load()
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	current, used = v, s
	return nil
}

// Reload re-reads every source Initialize used, dropping values set at
// runtime through Set or ApplyOverrides.
func Reload() error {
	if err := Initialize(); err != nil {
		return err
	}
	mu.RLock()
	s := used
	mu.RUnlock()
	return install(s)
}

// Files lists the user and project config paths in merge order, whether or
// not they exist yet, so they can be watched.
func Files() []string {
	mu.RLock()
	defer mu.RUnlock()
	var out []string
	for _, p := range []string{used.user, used.project} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ApplyOverrides sets several keys at once, typically from CLI flags.
func ApplyOverrides(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	return withViper(func(v *viper.Viper) {
		for k, val := range overrides {
			v.Set(k, val)
		}
	})
}

// Set changes one key for the rest of the process.
func Set(key string, value any) error {
	return withViper(func(v *viper.Viper) { v.Set(key, value) })
}

func withViper(fn func(*viper.Viper)) error {
	if err := Initialize(); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return errNotInitialized
	}
	fn(current)
	return nil
}

// lookup reads key with get, returning the zero value when configuration
// could not be loaded.
func lookup[T any](key string, get func(*viper.Viper, string) T) T {
	var zero T
	if err := Initialize(); err != nil {
		return zero
	}
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return zero
	}
	return get(current, key)
}

func GetString(key string) string {
	return lookup(key, (*viper.Viper).GetString)
}

func GetStringSlice(key string) []string {
	return lookup(key, (*viper.Viper).GetStringSlice)
}

func GetBool(key string) bool {
	return lookup(key, (*viper.Viper).GetBool)
}

// loadDotEnv reads path into the environment when it exists, leaving
// variables that are already set alone.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// mergeConfigFile layers path over v. Missing or blank files are skipped.
func mergeConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("stat %s: %w", path, err)
	case info.IsDir():
		return fmt.Errorf("config path %s is a directory", path)
	}
	//nolint:gosec // G304: reading the user's own config files
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Dir returns ~/.greetcard, which holds the user config, logs and the default database.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

func defaultUserConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// findProjectConfig walks up from start looking for .greetcard/config.yaml.
func findProjectConfig(start string) (string, error) {
	if start == "" {
		return "", nil
	}
	for dir := start; ; {
		candidate := filepath.Join(dir, dirName, fileName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.IsDir():
			return "", fmt.Errorf("config path %s is a directory", candidate)
		case err == nil:
			return candidate, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerAddr, DefaultServerAddr)
	v.SetDefault(KeyServerURL, "")
	v.SetDefault(KeyDatabaseDriver, "sqlite")
	v.SetDefault(KeyDatabasePath, "")
	v.SetDefault(KeyDatabaseDSN, "")
	v.SetDefault(KeyMessageID, "")
	v.SetDefault(KeyMessageDefault, domain.DefaultMessageText)
	v.SetDefault(KeyGreetingScript, DefaultScript)
	v.SetDefault(KeyGreetingScriptFile, "")
	v.SetDefault(KeyReducedMotion, false)
	v.SetDefault(KeyAudio, true)
	v.SetDefault(KeyRequireService, false)
	v.SetDefault(KeyPhotos, DefaultPhotos)
	v.SetDefault(KeyTheme, "confetti")
	v.SetDefault(KeyDebug, false)
}

// reset forgets everything Initialize loaded.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	current, loadErr, used = nil, nil, sources{}
	once = sync.Once{}
}

// ResetForTesting reinitializes configuration for another package's tests,
// rooted in a temp directory with no user config. Call the returned
// function to clean up.
func ResetForTesting(t interface{ TempDir() string }) func() {
	reset()
	tmp := t.TempDir()
	_ = Initialize(WithWorkingDir(tmp), WithUserConfig(filepath.Join(tmp, "user.yaml")))
	return reset
}

// SaveTheme records the theme in the project config when there is one,
// otherwise in the user config.
func SaveTheme(name string) error {
	mu.RLock()
	target := used.project
	if target == "" {
		target = used.user
	}
	mu.RUnlock()
	if target == "" {
		path, err := defaultUserConfigPath()
		if err != nil {
			return fmt.Errorf("find config path: %w", err)
		}
		target = path
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(target)
	_ = v.ReadInConfig() // a missing file is created below
	v.Set(KeyTheme, name)

	//nolint:gosec // G301: user config directory
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := v.WriteConfigAs(target); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
