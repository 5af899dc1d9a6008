package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"greetcard/internal/domain"
)

// PhotoChecker reports whether a photo reference can be shown.
type PhotoChecker func(ctx context.Context, ref string) error

const photoCheckTimeout = 5 * time.Second

var errNotAFile = errors.New("not a regular file")

// NewPhotoChecker returns a checker that stats local paths and sends a HEAD
// request for URLs.
func NewPhotoChecker(client *http.Client) PhotoChecker {
	if client == nil {
		client = &http.Client{Timeout: photoCheckTimeout}
	}
	return func(ctx context.Context, ref string) error {
		ref = strings.TrimSpace(ref)
		if !domain.IsPhotoRef(ref) {
			return fmt.Errorf("unsupported photo reference %q", ref)
		}
		if strings.HasPrefix(ref, "/") {
			info, err := os.Stat(ref)
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return fmt.Errorf("%s: %w", ref, errNotAFile)
			}
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, photoCheckTimeout)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, ref, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		_ = resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("%s: status %d", ref, resp.StatusCode)
		}
		return nil
	}
}

type photoState int

const (
	photoLoading photoState = iota
	photoLoaded
	photoFailed
)

type photoSlot struct {
	ref   string
	state photoState
}

// placeholder is what a frame shows when its image cannot be loaded.
func placeholder(i int) string {
	return fmt.Sprintf("Photo %d", i+1)
}

// label is the caption inside a frame: the file name once loaded, the
// numbered placeholder otherwise.
func (p photoSlot) label(i int) string {
	switch p.state {
	case photoLoaded:
		name := path.Base(strings.SplitN(p.ref, "?", 2)[0])
		if name == "" || name == "/" || name == "." {
			return placeholder(i)
		}
		return name
	case photoFailed:
		return placeholder(i)
	default:
		return "…"
	}
}
