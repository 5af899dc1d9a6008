package domain

import (
	"time"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxMessageLength bounds message text, counted in characters.
	MaxMessageLength = 1000
	// MaxRecipientNameLength bounds recipient names, counted in characters.
	MaxRecipientNameLength = 255
	// MessageIDLength is the length of a message's short identifier.
	MessageIDLength = 12
	// MessageIDAlphabet lists the characters a message identifier may contain.
	MessageIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// DefaultMessageText is served when no message id is requested and used by the
// greeting whenever the service is absent or fails.
const DefaultMessageText = "You bring so much joy and happiness into this world. " +
	"On your special day, I want you to know how incredibly amazing you are. " +
	"May this year bring you endless smiles, unforgettable moments, and all the love your heart can hold. " +
	"You deserve every wonderful thing that comes your way. Here's to celebrating YOU today and always!"

// Message is a stored greeting message.
type Message struct {
	ID            string    `json:"id,omitempty"`
	Text          string    `json:"message"`
	RecipientName string    `json:"recipientName,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
}

// IsDefault reports whether the message is the built-in default rather than a stored record.
func (m Message) IsDefault() bool {
	return m.ID == ""
}

// DefaultMessage returns the built-in message record.
func DefaultMessage() Message {
	return Message{Text: DefaultMessageText}
}

// MessageInput is the write payload for creating or replacing a message.
type MessageInput struct {
	Text          string `json:"message" validate:"required,min=1,max=1000"`
	RecipientName string `json:"recipientName,omitempty" validate:"max=255"`
}

// Normalize returns a copy with text in Unicode NFC so stored character
// counts match what the validator measured.
func (in MessageInput) Normalize() MessageInput {
	in.Text = norm.NFC.String(in.Text)
	in.RecipientName = norm.NFC.String(in.RecipientName)
	return in
}

// Validate checks the payload and returns an invalid_payload error describing
// the first failing field.
func (in MessageInput) Validate() error {
	return validateStruct(in)
}
