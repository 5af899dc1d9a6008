// Package motion tracks the reduced-motion preference.
//
// The preference comes from greeting.reduced-motion in the layered config (or
// GC_GREETING_REDUCED_MOTION), with REDUCE_MOTION accepted as a shorthand.
// A Watcher re-reads the config files when they change on disk and reports
// each real change of the value.
package motion

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"greetcard/internal/config"
	"greetcard/internal/debug"

	"github.com/fsnotify/fsnotify"
)

// EnvAlias is the shorthand environment variable for the preference.
const EnvAlias = "REDUCE_MOTION"

// Current returns the preference as configured right now.
func Current() bool {
	if raw, ok := os.LookupEnv(EnvAlias); ok {
		if on, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil && on {
			return true
		}
	}
	return config.GetBool(config.KeyReducedMotion)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithReader overrides how the preference is read after a change.
func WithReader(read func() bool) Option {
	return func(w *Watcher) {
		w.read = read
	}
}

// WithReload overrides how configuration is refreshed after a change.
func WithReload(reload func() error) Option {
	return func(w *Watcher) {
		w.reload = reload
	}
}

// Watcher reports reduced-motion changes caused by config file edits.
type Watcher struct {
	fs      *fsnotify.Watcher
	files   map[string]struct{}
	updates chan bool
	done    chan struct{}
	once    sync.Once

	last   bool
	read   func() bool
	reload func() error
}

// Watch starts watching files. Their parent directories are watched so that
// files created later, or replaced by editors, are still noticed. Directories
// that do not exist are skipped.
func Watch(files []string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:      fw,
		files:   make(map[string]struct{}, len(files)),
		updates: make(chan bool, 1),
		done:    make(chan struct{}),
		read:    Current,
		reload:  config.Reload,
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		if strings.TrimSpace(f) == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, seen := dirs[dir]; seen {
			continue
		}
		dirs[dir] = struct{}{}
		if err := fw.Add(dir); err != nil {
			debug.Logf("motion: not watching %s: %v", dir, err)
		}
	}

	w.last = w.read()
	go w.loop()
	return w, nil
}

// Updates delivers the new preference each time it changes. The channel is
// closed when the watcher stops.
func (w *Watcher) Updates() <-chan bool {
	return w.updates
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.updates)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if w.reload != nil {
				if err := w.reload(); err != nil {
					debug.Logf("motion: reload after %s: %v", ev, err)
					continue
				}
			}
			on := w.read()
			if on == w.last {
				continue
			}
			w.last = on
			debug.Logf("motion: reduced motion now %t", on)
			select {
			case w.updates <- on:
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			debug.Logf("motion: watch error: %v", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		abs = ev.Name
	}
	_, ok := w.files[abs]
	return ok
}
