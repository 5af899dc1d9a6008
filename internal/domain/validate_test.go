package domain

import (
	"strings"
	"testing"

	appErrors "greetcard/internal/errors"
)

func TestMessageInputValidate(t *testing.T) {
	cases := []struct {
		name    string
		input   MessageInput
		wantErr string
	}{
		{name: "valid", input: MessageInput{Text: "Happy birthday!", RecipientName: "Sam"}},
		{name: "no recipient", input: MessageInput{Text: "x"}},
		{name: "max length", input: MessageInput{Text: strings.Repeat("a", MaxMessageLength)}},
		{name: "multibyte counted as characters", input: MessageInput{Text: strings.Repeat("é", MaxMessageLength)}},
		{name: "empty", input: MessageInput{}, wantErr: "message is required"},
		{name: "too long", input: MessageInput{Text: strings.Repeat("a", MaxMessageLength+1)}, wantErr: "message must be 1000 characters or fewer"},
		{name: "longest recipient", input: MessageInput{Text: "x", RecipientName: strings.Repeat("é", MaxRecipientNameLength)}},
		{name: "recipient too long", input: MessageInput{Text: "x", RecipientName: strings.Repeat("a", MaxRecipientNameLength+1)}, wantErr: "recipientName must be 255 characters or fewer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Normalize().Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q", tc.wantErr)
			}
			if err.Error() != tc.wantErr {
				t.Fatalf("error = %q, want %q", err.Error(), tc.wantErr)
			}
			if !appErrors.IsCode(err, appErrors.CodeInvalidPayload) {
				t.Fatalf("expected invalid_payload code, got %q", appErrors.CodeOf(err))
			}
		})
	}
}

func TestPhotoInputValidate(t *testing.T) {
	cases := []struct {
		name    string
		input   PhotoInput
		wantErr string
	}{
		{name: "https url", input: PhotoInput{MessageID: "abcdef123456", URL: "https://example.com/a.jpg", Caption: "beach"}},
		{name: "absolute path", input: PhotoInput{MessageID: "abcdef123456", URL: "/images/photo1.jpg"}},
		{name: "missing message id", input: PhotoInput{URL: "/a.jpg"}, wantErr: "messageId is required"},
		{name: "short message id", input: PhotoInput{MessageID: "abc", URL: "/a.jpg"}, wantErr: "messageId must be exactly 12 characters"},
		{name: "uppercase message id", input: PhotoInput{MessageID: "ABCDEF123456", URL: "/a.jpg"}, wantErr: "messageId must contain only lowercase letters and digits"},
		{name: "missing url", input: PhotoInput{MessageID: "abcdef123456"}, wantErr: "url is required"},
		{name: "relative url", input: PhotoInput{MessageID: "abcdef123456", URL: "photo.jpg"}, wantErr: "url must be an http(s) URL or an absolute path"},
		{name: "ftp url", input: PhotoInput{MessageID: "abcdef123456", URL: "ftp://host/a.jpg"}, wantErr: "url must be an http(s) URL or an absolute path"},
		{name: "long caption", input: PhotoInput{MessageID: "abcdef123456", URL: "/a.jpg", Caption: strings.Repeat("c", MaxCaptionLength+1)}, wantErr: "caption must be 280 characters or fewer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Normalize().Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.wantErr {
				t.Fatalf("error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestMessageInputNormalizeComposesText(t *testing.T) {
	decomposed := "Cafe\u0301"
	got := MessageInput{Text: decomposed}.Normalize()
	if got.Text != "Caf\u00e9" {
		t.Fatalf("Normalize() = %q, want NFC form", got.Text)
	}
}

func TestDefaultMessage(t *testing.T) {
	msg := DefaultMessage()
	if !msg.IsDefault() {
		t.Fatal("default message should report IsDefault")
	}
	if msg.Text != DefaultMessageText {
		t.Fatalf("unexpected default text %q", msg.Text)
	}
	if (Message{ID: "abcdef123456"}).IsDefault() {
		t.Fatal("stored message should not report IsDefault")
	}
}

func TestPhotoRefs(t *testing.T) {
	photos := []Photo{{URL: "/a.jpg"}, {URL: "/b.jpg"}}
	refs := PhotoRefs(photos)
	if len(refs) != 2 || refs[0] != "/a.jpg" || refs[1] != "/b.jpg" {
		t.Fatalf("PhotoRefs = %v", refs)
	}
}
