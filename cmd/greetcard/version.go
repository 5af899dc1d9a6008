package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X main.Version=... -X main.Build=... -X main.BuildTime=...".
var (
	Version   = "dev"
	Build     = "unknown"
	BuildTime = ""
)

func printVersion(w io.Writer) {
	line := "greetcard version " + Version
	if Build != "" && Build != "unknown" {
		line += " (build: " + Build + ")"
	}
	if BuildTime != "" {
		line += " [" + BuildTime + "]"
	}
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Go version: %s\nOS/Arch: %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	if Version != "dev" {
		return
	}
	if commit := vcsCommit(); commit != "" {
		fmt.Fprintf(w, "Commit: %s\n", commit)
	}
}

// vcsCommit returns the short revision stamped by the go tool, with a
// "-dirty" suffix for modified trees.
func vcsCommit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}
