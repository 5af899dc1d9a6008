package motion

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"greetcard/internal/config"
)

func TestCurrentHonoursEnvAlias(t *testing.T) {
	cleanup := config.ResetForTesting(t)
	defer cleanup()

	t.Setenv(EnvAlias, "")
	if Current() {
		t.Fatal("expected reduced motion off by default")
	}
	t.Setenv(EnvAlias, "1")
	if !Current() {
		t.Fatal("expected REDUCE_MOTION=1 to enable reduced motion")
	}
	t.Setenv(EnvAlias, "nonsense")
	if Current() {
		t.Fatal("unparseable alias should be ignored")
	}
}

func TestCurrentReadsConfig(t *testing.T) {
	cleanup := config.ResetForTesting(t)
	defer cleanup()
	t.Setenv(EnvAlias, "")

	if err := config.Set(config.KeyReducedMotion, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !Current() {
		t.Fatal("expected config value to enable reduced motion")
	}
}

func TestWatcherReportsConfigChanges(t *testing.T) {
	cleanup := config.ResetForTesting(t)
	defer cleanup()
	t.Setenv(EnvAlias, "")

	files := config.Files()
	if len(files) == 0 {
		t.Fatal("expected a user config path")
	}
	path := files[0]

	w, err := Watch(files)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer func() {
		_ = w.Close()
	}()
	if Current() {
		t.Fatal("expected initial preference off")
	}

	if err := os.WriteFile(path, []byte("greeting:\n  reduced-motion: true\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	select {
	case on := <-w.Updates():
		if !on {
			t.Fatal("expected reduced motion to turn on")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for preference change")
	}
}

func TestWatcherIgnoresUnrelatedFilesAndNoops(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "config.yaml")
	other := filepath.Join(dir, "notes.txt")

	reads := make(chan struct{}, 16)
	value := false
	w, err := Watch([]string{watched},
		WithReload(func() error { return nil }),
		WithReader(func() bool {
			reads <- struct{}{}
			return value
		}),
	)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer func() {
		_ = w.Close()
	}()
	<-reads // initial read

	if err := os.WriteFile(other, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(watched, []byte("same"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-reads:
	case <-time.After(5 * time.Second):
		t.Fatal("expected the watched file to trigger a read")
	}
	select {
	case v := <-w.Updates():
		t.Fatalf("unchanged value should not be reported, got %t", v)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCloseClosesUpdates(t *testing.T) {
	w, err := Watch(nil, WithReader(func() bool { return false }))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case _, ok := <-w.Updates():
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("updates channel was not closed")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
