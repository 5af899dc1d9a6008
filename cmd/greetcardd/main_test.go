package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"greetcard/internal/config"
	"greetcard/internal/store"
)

func TestParseOptionsDefaults(t *testing.T) {
	t.Cleanup(config.ResetForTesting(t))
	t.Setenv("HOME", t.TempDir())

	opts, err := parseOptions(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if opts.addr != config.DefaultServerAddr {
		t.Fatalf("addr = %q", opts.addr)
	}
	if opts.driver != store.DriverSQLite {
		t.Fatalf("driver = %q", opts.driver)
	}
	if filepath.Base(opts.dbPath) != "greetcard.db" || filepath.Base(filepath.Dir(opts.dbPath)) != ".greetcard" {
		t.Fatalf("dbPath = %q", opts.dbPath)
	}
}

func TestParseOptionsFlagsOverrideConfig(t *testing.T) {
	t.Cleanup(config.ResetForTesting(t))
	if err := config.ApplyOverrides(map[string]any{config.KeyServerAddr: ":9000"}); err != nil {
		t.Fatal(err)
	}

	opts, err := parseOptions([]string{"-addr", "127.0.0.1:7000", "-db-driver", "Postgres", "-dsn", "postgres://x"}, io.Discard)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if opts.addr != "127.0.0.1:7000" || opts.driver != store.DriverPostgres || opts.dsn != "postgres://x" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.dbPath != "" {
		t.Fatalf("postgres should not pick a sqlite path, got %q", opts.dbPath)
	}
}

func TestAcquireLockIsExclusive(t *testing.T) {
	opts := daemonOptions{driver: store.DriverSQLite, dbPath: filepath.Join(t.TempDir(), "data", "greetcard.db")}

	first, err := acquireLock(opts)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if _, err := acquireLock(opts); err == nil || !strings.Contains(err.Error(), "already using") {
		t.Fatalf("expected second lock to fail, got %v", err)
	}
	if err := first.Unlock(); err != nil {
		t.Fatal(err)
	}
	again, err := acquireLock(opts)
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	_ = again.Unlock()
}

func TestAcquireLockSkippedForPostgres(t *testing.T) {
	lock, err := acquireLock(daemonOptions{driver: store.DriverPostgres})
	if err != nil || lock != nil {
		t.Fatalf("expected no lock for postgres, got %v, %v", lock, err)
	}
}

func TestRunServesUntilCancelled(t *testing.T) {
	t.Cleanup(config.ResetForTesting(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	opts := daemonOptions{
		addr:        addr,
		driver:      store.DriverSQLite,
		dbPath:      filepath.Join(t.TempDir(), "greetcard.db"),
		defaultText: "Served by the daemon",
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, opts) }()

	var resp *http.Response
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err = http.Get("http://" + addr + "/api/message")
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("daemon never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	var body struct {
		Message string `json:"message"`
	}
	err = json.NewDecoder(resp.Body).Decode(&body)
	_ = resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if body.Message != "Served by the daemon" {
		t.Fatalf("message = %q", body.Message)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("run did not return after cancel")
	}
}
