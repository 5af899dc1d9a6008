package store

import (
	"errors"
	"fmt"

	appErrors "greetcard/internal/errors"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("store: record not found")
)

func notFoundError(kind, id string) error {
	return appErrors.New(appErrors.CodeNotFound, fmt.Sprintf("%s %s not found", kind, id), ErrNotFound)
}

func storageError(op string, err error) error {
	return appErrors.Wrap(appErrors.CodeStorageFailed, op, err)
}
