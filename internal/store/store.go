// Package store persists greeting messages and their photos.
//
// Two backends implement Store: SQLite (the default, pure Go, schema managed
// by embedded golang-migrate migrations) and Postgres through gorm. Both
// return errors carrying internal/errors codes so the HTTP layer can map them
// without knowing which backend is active.
package store

import (
	"context"
	"fmt"
	"strings"

	"greetcard/internal/domain"
	appErrors "greetcard/internal/errors"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store defines the persistence operations used by the message service.
type Store interface {
	CreateMessage(ctx context.Context, in domain.MessageInput) (domain.Message, error)
	GetMessage(ctx context.Context, id string) (domain.Message, error)
	UpdateMessage(ctx context.Context, id string, in domain.MessageInput) (domain.Message, error)
	AddPhoto(ctx context.Context, in domain.PhotoInput) (domain.Photo, error)
	// ListPhotos returns photos in upload order. An empty messageID lists every photo.
	ListPhotos(ctx context.Context, messageID string) ([]domain.Photo, error)
	DeletePhoto(ctx context.Context, id string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver string
	// Path is the SQLite database file.
	Path string
	// DSN is the Postgres connection string.
	DSN string
}

// Open constructs the backend named by opts.Driver, applying its schema.
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	switch driver {
	case "", DriverSQLite:
		return OpenSQLite(ctx, opts.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN)
	default:
		return nil, appErrors.New(appErrors.CodeConfigurationError, fmt.Sprintf("unknown database driver %q", opts.Driver), nil)
	}
}

// prepareMessage normalizes and validates a message payload before any write.
func prepareMessage(in domain.MessageInput) (domain.MessageInput, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.MessageInput{}, err
	}
	return in, nil
}

// preparePhoto normalizes and validates a photo payload before any write.
func preparePhoto(in domain.PhotoInput) (domain.PhotoInput, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.PhotoInput{}, err
	}
	return in, nil
}
