package store

import (
	"crypto/rand"
	"fmt"

	"greetcard/internal/domain"

	"github.com/google/uuid"
)

// NewMessageID returns a random identifier of domain.MessageIDLength characters
// drawn uniformly from domain.MessageIDAlphabet.
func NewMessageID() (string, error) {
	alphabet := domain.MessageIDAlphabet
	// Largest multiple of len(alphabet) that fits in a byte; bytes above it are
	// rejected so every character is equally likely.
	limit := byte(256 - 256%len(alphabet))

	out := make([]byte, 0, domain.MessageIDLength)
	buf := make([]byte, domain.MessageIDLength*2)
	for len(out) < domain.MessageIDLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == domain.MessageIDLength {
				break
			}
		}
	}
	return string(out), nil
}

// NewPhotoID returns a random UUID for a photo record.
func NewPhotoID() string {
	return uuid.NewString()
}
