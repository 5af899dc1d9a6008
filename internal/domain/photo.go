package domain

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxPhotoURLLength bounds photo references.
	MaxPhotoURLLength = 2048
	// MaxCaptionLength bounds photo captions, counted in characters.
	MaxCaptionLength = 280
)

// Photo is a stored image reference attached to a message.
type Photo struct {
	ID         string    `json:"id"`
	MessageID  string    `json:"messageId"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// PhotoInput is the write payload for attaching a photo to a message.
type PhotoInput struct {
	MessageID string `json:"messageId" validate:"required,len=12,lowercase,alphanum"`
	URL       string `json:"url" validate:"required,max=2048,photoref"`
	Caption   string `json:"caption,omitempty" validate:"max=280"`
}

// Normalize trims surrounding whitespace and composes the caption to NFC.
func (in PhotoInput) Normalize() PhotoInput {
	in.MessageID = strings.TrimSpace(in.MessageID)
	in.URL = strings.TrimSpace(in.URL)
	in.Caption = norm.NFC.String(strings.TrimSpace(in.Caption))
	return in
}

// Validate checks the payload and returns an invalid_payload error describing
// the first failing field.
func (in PhotoInput) Validate() error {
	return validateStruct(in)
}

// PhotoRefs extracts the references of photos in order.
func PhotoRefs(photos []Photo) []string {
	refs := make([]string, 0, len(photos))
	for _, p := range photos {
		refs = append(refs, p.URL)
	}
	return refs
}
