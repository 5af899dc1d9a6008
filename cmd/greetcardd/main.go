// Command greetcardd serves stored greeting messages and photos over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"greetcard/internal/config"
	"greetcard/internal/debug"
	"greetcard/internal/server"
	"greetcard/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"
)

// Version is set at build time via ldflags.
var Version = "dev"

const (
	logFileName     = "greetcardd.log"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}

	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if opts.showVersion {
		fmt.Printf("greetcardd version %s\n", Version)
		return
	}

	if err := debug.InitNamed(opts.debug, logFileName); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
	}
	defer debug.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Printf("greetcardd: %v", err)
		debug.Close()
		os.Exit(1)
	}
}

type daemonOptions struct {
	showVersion bool
	debug       bool
	addr        string
	driver      string
	dbPath      string
	dsn         string
	defaultText string
}

func parseOptions(args []string, errOut io.Writer) (daemonOptions, error) {
	fs := flag.NewFlagSet("greetcardd", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var opts daemonOptions
	fs.BoolVar(&opts.showVersion, "version", false, "Print version information and exit")
	fs.BoolVar(&opts.debug, "debug", config.GetBool(config.KeyDebug), "Write a debug log to ~/.greetcard/"+logFileName)
	fs.StringVar(&opts.addr, "addr", config.GetString(config.KeyServerAddr), "Listen address")
	fs.StringVar(&opts.driver, "db-driver", config.GetString(config.KeyDatabaseDriver), "Database driver (sqlite, postgres)")
	fs.StringVar(&opts.dbPath, "db", config.GetString(config.KeyDatabasePath), "SQLite database file (default ~/.greetcard/greetcard.db)")
	fs.StringVar(&opts.dsn, "dsn", config.GetString(config.KeyDatabaseDSN), "Postgres connection string")
	if err := fs.Parse(args); err != nil {
		return daemonOptions{}, err
	}

	opts.addr = strings.TrimSpace(opts.addr)
	opts.driver = strings.ToLower(strings.TrimSpace(opts.driver))
	opts.dbPath = strings.TrimSpace(opts.dbPath)
	opts.dsn = strings.TrimSpace(opts.dsn)
	opts.defaultText = config.GetString(config.KeyMessageDefault)
	if opts.addr == "" {
		opts.addr = config.DefaultServerAddr
	}
	if (opts.driver == "" || opts.driver == store.DriverSQLite) && opts.dbPath == "" {
		dir, err := config.Dir()
		if err != nil {
			return daemonOptions{}, err
		}
		opts.dbPath = filepath.Join(dir, "greetcard.db")
	}
	return opts, nil
}

// acquireLock keeps two daemons from sharing one SQLite file. Postgres
// handles its own concurrency, so no lock is taken there.
func acquireLock(opts daemonOptions) (*flock.Flock, error) {
	if opts.driver == store.DriverPostgres {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	lock := flock.New(opts.dbPath + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another greetcardd is already using %s", opts.dbPath)
	}
	return lock, nil
}

func run(ctx context.Context, opts daemonOptions) error {
	lock, err := acquireLock(opts)
	if err != nil {
		return err
	}
	if lock != nil {
		defer func() {
			if err := lock.Unlock(); err != nil {
				debug.Logf("greetcardd: release lock: %v", err)
			}
		}()
	}

	st, err := store.Open(ctx, store.Options{Driver: opts.driver, Path: opts.dbPath, DSN: opts.dsn})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", opts.addr, err)
	}
	log.Printf("greetcardd %s listening on %s (%s)", Version, ln.Addr(), describeStore(opts))

	gin.SetMode(gin.ReleaseMode)
	return serve(ctx, ln, server.New(st, server.WithDefaultText(opts.defaultText)).Handler())
}

func describeStore(opts daemonOptions) string {
	if opts.driver == store.DriverPostgres {
		return "postgres"
	}
	return "sqlite " + opts.dbPath
}

// serve runs the HTTP server on ln until ctx is cancelled, then drains
// in-flight requests.
func serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          debug.Logger("http: "),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Printf("greetcardd shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
