package messageclient

import (
	"context"
	"errors"
	"strings"

	"greetcard/internal/debug"
	"greetcard/internal/domain"
)

// ErrUnavailable is returned by Resolve when the service is required, the
// request failed and there is no default text to fall back on.
var ErrUnavailable = errors.New("greeting message unavailable")

// Source says where a greeting's message came from.
type Source int

const (
	// SourceService means the message was fetched from the service.
	SourceService Source = iota
	// SourceDefault means the baked-in default was substituted.
	SourceDefault
)

func (s Source) String() string {
	if s == SourceService {
		return "service"
	}
	return "default"
}

// Greeting is everything the greeting needs from the outside world.
type Greeting struct {
	Message domain.Message
	Photos  []string
	Source  Source
	// FetchErr records why the service was not used, if it was tried.
	FetchErr error
}

// Provider resolves the greeting message once per view.
type Provider struct {
	client         *Client
	messageID      string
	defaultText    string
	photos         []string
	requireService bool
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithMessageID selects a stored message instead of the service default.
func WithMessageID(id string) ProviderOption {
	return func(p *Provider) {
		p.messageID = strings.TrimSpace(id)
	}
}

// WithDefaultText sets the text used when the service is absent or fails.
func WithDefaultText(text string) ProviderOption {
	return func(p *Provider) {
		p.defaultText = text
	}
}

// WithFallbackPhotos sets the photos used when the service supplies none.
func WithFallbackPhotos(photos []string) ProviderOption {
	return func(p *Provider) {
		p.photos = append([]string(nil), photos...)
	}
}

// WithRequireService makes an empty default text an error instead of
// silently using the built-in message.
func WithRequireService(required bool) ProviderOption {
	return func(p *Provider) {
		p.requireService = required
	}
}

// NewProvider returns a provider. client may be nil when no service is configured.
func NewProvider(client *Client, opts ...ProviderOption) *Provider {
	p := &Provider{
		client:      client,
		defaultText: domain.DefaultMessageText,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve fetches the message and its photos, substituting defaults on any
// failure. It returns an error only when the service is required, could not
// supply a message and no default text is configured.
func (p *Provider) Resolve(ctx context.Context) (Greeting, error) {
	if p.client == nil {
		return p.fallback(nil)
	}

	msg, err := p.client.Message(ctx, p.messageID)
	if err != nil {
		debug.Logf("messageclient: fetch message %q: %v", p.messageID, err)
		return p.fallback(err)
	}
	if strings.TrimSpace(msg.Text) == "" {
		return p.fallback(errors.New("service returned an empty message"))
	}

	greeting := Greeting{Message: msg, Source: SourceService, Photos: p.photos}
	if msg.ID != "" {
		photos, err := p.client.Photos(ctx, msg.ID)
		switch {
		case err != nil:
			debug.Logf("messageclient: fetch photos for %s: %v", msg.ID, err)
		case len(photos) > 0:
			greeting.Photos = domain.PhotoRefs(photos)
		}
	}
	return greeting, nil
}

func (p *Provider) fallback(cause error) (Greeting, error) {
	text := p.defaultText
	if strings.TrimSpace(text) == "" {
		if p.requireService {
			if cause == nil {
				return Greeting{}, ErrUnavailable
			}
			return Greeting{FetchErr: cause}, errors.Join(ErrUnavailable, cause)
		}
		text = domain.DefaultMessageText
	}
	return Greeting{
		Message:  domain.Message{Text: text},
		Photos:   p.photos,
		Source:   SourceDefault,
		FetchErr: cause,
	}, nil
}
