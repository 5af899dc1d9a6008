package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"greetcard/internal/config"
	"greetcard/internal/domain"
	"greetcard/internal/messageclient"
	"greetcard/internal/server"
	"greetcard/internal/store"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newComposeServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	return newWrappedComposeServer(t, func(h http.Handler) http.Handler { return h })
}

// newWrappedComposeServer serves the real handler through wrap.
func newWrappedComposeServer(t *testing.T, wrap func(http.Handler) http.Handler) (*httptest.Server, store.Store) {
	t.Helper()
	st, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "greetcard.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	ts := httptest.NewServer(wrap(server.New(st).Handler()))
	t.Cleanup(ts.Close)
	return ts, st
}

func TestComposePublishesMessageAndPhotos(t *testing.T) {
	testConfig(t)
	ts, st := newComposeServer(t)

	var out bytes.Buffer
	err := runCompose(context.Background(), []string{
		"-server-url", ts.URL,
		"-message", "Happy birthday, have the best day",
		"-to", "Ana",
		"-photo", "https://example.com/cake.jpg|The cake",
		"-photo", "https://example.com/party.jpg",
	}, &out)
	if err != nil {
		t.Fatalf("runCompose: %v", err)
	}

	photos, err := st.ListPhotos(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(photos) != 2 || photos[0].Caption != "The cake" {
		t.Fatalf("unexpected stored photos %+v", photos)
	}
	msg, err := st.GetMessage(context.Background(), photos[0].MessageID)
	if err != nil {
		t.Fatalf("stored message: %v", err)
	}
	if msg.RecipientName != "Ana" {
		t.Fatalf("recipient = %q", msg.RecipientName)
	}

	got := out.String()
	for _, want := range []string{
		"Message published",
		msg.ID,
		"33 characters",
		"cake.jpg",
		"The cake",
		ts.URL + "/api/message/" + msg.ID,
		"greetcard -server-url " + ts.URL + " -message-id " + msg.ID,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestComposeUpdateExistingMessage(t *testing.T) {
	testConfig(t)
	ts, _ := newComposeServer(t)
	client := messageclient.New(ts.URL)
	created, err := client.CreateMessage(context.Background(), domain.MessageInput{Text: "first draft"})
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runCompose(context.Background(), []string{
		"-server-url", ts.URL, "-update", created.ID, "-message", "final words",
	}, &out); err != nil {
		t.Fatalf("runCompose: %v", err)
	}
	got, err := client.Message(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "final words" {
		t.Fatalf("text = %q", got.Text)
	}
}

func TestComposeUpdateUnknownMessage(t *testing.T) {
	testConfig(t)
	ts, _ := newComposeServer(t)
	err := runCompose(context.Background(), []string{
		"-server-url", ts.URL, "-update", "zzzzzzzzzzzz", "-message", "hi",
	}, io.Discard)
	if !errors.Is(err, messageclient.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestComposeRejectedPhotoStops(t *testing.T) {
	testConfig(t)
	tests := []struct {
		name  string
		photo string
		want  string
	}{
		{name: "relative path", photo: "relative/path.jpg", want: "url must be an http(s) URL or an absolute path"},
		{name: "other scheme", photo: "ftp://example.com/a.jpg", want: "url must be an http(s) URL or an absolute path"},
		{name: "long url", photo: "https://example.com/" + strings.Repeat("a", domain.MaxPhotoURLLength), want: "url must be 2048 characters or fewer"},
		{name: "long caption", photo: "/a.jpg|" + strings.Repeat("c", domain.MaxCaptionLength+1), want: "caption must be 280 characters or fewer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			ts, st := newWrappedComposeServer(t, func(h http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					requests.Add(1)
					h.ServeHTTP(w, r)
				})
			})
			err := runCompose(context.Background(), []string{
				"-server-url", ts.URL, "-message", "hi",
				"-photo", "https://example.com/fine.jpg",
				"-photo", tt.photo,
			}, io.Discard)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
			if n := requests.Load(); n != 0 {
				t.Fatalf("no request should reach the service, got %d", n)
			}
			photos, err := st.ListPhotos(context.Background(), "")
			if err != nil {
				t.Fatal(err)
			}
			if len(photos) != 0 {
				t.Fatalf("photos stored: %+v", photos)
			}
		})
	}
}

func TestComposePhotoFailureNamesCreatedMessage(t *testing.T) {
	testConfig(t)
	ts, st := newWrappedComposeServer(t, func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/photos" {
				http.Error(w, `{"error":"storage down"}`, http.StatusInternalServerError)
				return
			}
			h.ServeHTTP(w, r)
		})
	})
	client := messageclient.New(ts.URL)

	err := runCompose(context.Background(), []string{
		"-server-url", ts.URL, "-message", "hi", "-photo", "https://example.com/cake.jpg",
	}, io.Discard)
	if err == nil {
		t.Fatal("expected photo failure")
	}
	msg := err.Error()
	start := strings.Index(msg, "to message ")
	if start < 0 {
		t.Fatalf("error should name the created message: %v", err)
	}
	created := strings.Fields(msg[start+len("to message "):])[0]
	if !strings.Contains(msg, "greetcard compose -update "+created) {
		t.Fatalf("error should explain how to resume: %v", err)
	}
	if _, err := st.GetMessage(context.Background(), created); err != nil {
		t.Fatalf("named message %q is not stored: %v", created, err)
	}
	if _, err := client.Message(context.Background(), created); err != nil {
		t.Fatalf("named message %q is not served: %v", created, err)
	}
}

func TestComposeQRCodeAndClipboard(t *testing.T) {
	testConfig(t)
	ts, _ := newComposeServer(t)

	var copied string
	origClipboard := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { writeClipboard = origClipboard })

	var out bytes.Buffer
	if err := runCompose(context.Background(), []string{
		"-server-url", ts.URL, "-message", "hi there", "-qr", "-copy",
	}, &out); err != nil {
		t.Fatalf("runCompose: %v", err)
	}
	if !strings.HasPrefix(copied, ts.URL+"/api/message/") {
		t.Fatalf("copied %q", copied)
	}
	if !strings.Contains(out.String(), "Link copied to clipboard.") {
		t.Fatalf("missing clipboard confirmation:\n%s", out.String())
	}
	if !strings.ContainsAny(out.String(), "█▀▄") {
		t.Fatalf("expected QR block characters:\n%s", out.String())
	}
}

func TestComposeClipboardFailureIsReported(t *testing.T) {
	testConfig(t)
	ts, _ := newComposeServer(t)

	origClipboard := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard utility") }
	t.Cleanup(func() { writeClipboard = origClipboard })

	var out bytes.Buffer
	if err := runCompose(context.Background(), []string{
		"-server-url", ts.URL, "-message", "hi", "-copy",
	}, &out); err != nil {
		t.Fatalf("clipboard failure should not fail compose: %v", err)
	}
	if !strings.Contains(out.String(), "Could not copy link: no clipboard utility") {
		t.Fatalf("missing clipboard warning:\n%s", out.String())
	}
}

func TestComposeArgumentErrors(t *testing.T) {
	testConfig(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no server", args: []string{"-message", "hi"}, want: "no service configured"},
		{name: "no message", args: []string{"-server-url", "http://localhost:1"}, want: "-message is required"},
		{name: "blank message", args: []string{"-server-url", "http://localhost:1", "-message", "   "}, want: "-message is required"},
		{name: "empty photo", args: []string{"-server-url", "http://localhost:1", "-message", "hi", "-photo", "|caption"}, want: "photo reference is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCompose(context.Background(), tt.args, io.Discard)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestComposeServerURLFromConfig(t *testing.T) {
	testConfig(t)
	if err := config.ApplyOverrides(map[string]any{config.KeyServerURL: "http://cards.local"}); err != nil {
		t.Fatal(err)
	}
	opts, err := parseComposeArgs([]string{"-message", "hi"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if opts.serverURL != "http://cards.local" {
		t.Fatalf("serverURL = %q", opts.serverURL)
	}
}

func TestPhotoFlag(t *testing.T) {
	var p photoFlag
	if err := p.Set(" /srv/photos/a.jpg | Beach day "); err != nil {
		t.Fatal(err)
	}
	if err := p.Set("https://example.com/b.jpg"); err != nil {
		t.Fatal(err)
	}
	if len(p) != 2 || p[0].URL != "/srv/photos/a.jpg" || p[0].Caption != "Beach day" || p[1].Caption != "" {
		t.Fatalf("unexpected photos %+v", p)
	}
	if got := p.String(); got != "/srv/photos/a.jpg,https://example.com/b.jpg" {
		t.Fatalf("String() = %q", got)
	}
}

func TestPrintSummaryCreatedTime(t *testing.T) {
	origNow := now
	now = func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = origNow })

	var out bytes.Buffer
	msg := domain.Message{ID: "abcdefabcdef", Text: "hello", CreatedAt: time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)}
	printSummary(&out, msg, nil, "http://cards.local/")
	got := out.String()
	if !strings.Contains(got, "2 hours ago") {
		t.Fatalf("expected relative created time:\n%s", got)
	}
	if !strings.Contains(got, "http://cards.local/api/message/abcdefabcdef") {
		t.Fatalf("expected share link without doubled slash:\n%s", got)
	}
	if strings.Contains(got, "Caption") {
		t.Fatalf("photo table should be omitted without photos:\n%s", got)
	}
}
