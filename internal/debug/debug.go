// Package debug is the opt-in file log shared by the greeting and the daemon.
// Each binary writes its own file under ~/.greetcard, truncated at startup;
// with logging off every call is a no-op.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// LogFileName is the greeting's log file.
	LogFileName = "debug.log"
	// LogDirName is the directory under the user's home that holds the logs.
	LogDirName = ".greetcard"
)

var (
	mu   sync.RWMutex
	sink *log.Logger // nil while disabled
	file *os.File

	// homeDir is swapped out by tests.
	homeDir = os.UserHomeDir
)

// Init turns logging on or off for the greeting's default log file.
func Init(enable bool) error {
	return InitNamed(enable, LogFileName)
}

// InitNamed is Init writing to name instead, so the daemon and the greeting
// never truncate each other's logs.
func InitNamed(enable bool, name string) error {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	if !enable {
		return nil
	}
	if name == "" {
		name = LogFileName
	}

	dir, err := logDir()
	if err != nil {
		return err
	}
	//nolint:gosec // G301: lives beside the user config
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	//nolint:gosec // G304: path derived from the home directory
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	file = f
	sink = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds)
	sink.Printf("--- %s started %s ---", name, time.Now().Format(time.RFC3339))
	return nil
}

// Close flushes and closes the log file. Calling it twice is fine.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if file != nil {
		_ = file.Close()
	}
	file = nil
	sink = nil
}

func Log(v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if sink != nil {
		sink.Print(v...)
	}
}

func Logf(format string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if sink != nil {
		sink.Printf(format, v...)
	}
}

// Enabled reports whether a log file is open.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return sink != nil
}

type lineWriter struct{}

func (lineWriter) Write(p []byte) (int, error) {
	Log(string(p))
	return len(p), nil
}

// Writer forwards each write to the log as one entry.
func Writer() io.Writer {
	return lineWriter{}
}

// Logger returns a *log.Logger over Writer, e.g. for http.Server.ErrorLog.
func Logger(prefix string) *log.Logger {
	return log.New(Writer(), prefix, 0)
}

func logDir() (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, LogDirName), nil
}

// GetLogPath returns where the greeting's log is written.
func GetLogPath() (string, error) {
	dir, err := logDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}
