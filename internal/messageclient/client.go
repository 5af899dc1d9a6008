package messageclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"greetcard/internal/domain"
)

// DefaultTimeout bounds each request to the service.
const DefaultTimeout = 5 * time.Second

// Error variables for specific error conditions.
var (
	ErrNetworkFailure = errors.New("message service request failed")
	ErrNotFound       = errors.New("message service: not found")
	ErrRejected       = errors.New("message service rejected the request")
)

// Client calls the message/photo service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration // zero keeps the timeout of a supplied client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout bounds each request. It applies whatever order the options
// come in, and never modifies a client passed to WithHTTPClient.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
	for _, opt := range opts {
		opt(c)
	}
	switch {
	case c.httpClient == nil:
		timeout := c.timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	case c.timeout > 0:
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Message fetches a message by id. An empty id returns the service default.
func (c *Client) Message(ctx context.Context, id string) (domain.Message, error) {
	var query url.Values
	if id = strings.TrimSpace(id); id != "" {
		query = url.Values{"id": {id}}
	}
	var msg domain.Message
	if err := c.do(ctx, http.MethodGet, "/api/message", query, nil, &msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// Photos lists the photos attached to messageID, in upload order.
func (c *Client) Photos(ctx context.Context, messageID string) ([]domain.Photo, error) {
	var query url.Values
	if messageID = strings.TrimSpace(messageID); messageID != "" {
		query = url.Values{"messageId": {messageID}}
	}
	var photos []domain.Photo
	if err := c.do(ctx, http.MethodGet, "/api/photos", query, nil, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// CreateMessage stores a new message and returns it with its id.
func (c *Client) CreateMessage(ctx context.Context, in domain.MessageInput) (domain.Message, error) {
	var msg domain.Message
	if err := c.do(ctx, http.MethodPost, "/api/message", nil, in, &msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// UpdateMessage replaces the text and recipient of an existing message.
func (c *Client) UpdateMessage(ctx context.Context, id string, in domain.MessageInput) (domain.Message, error) {
	var msg domain.Message
	path := "/api/message/" + url.PathEscape(strings.TrimSpace(id))
	if err := c.do(ctx, http.MethodPut, path, nil, in, &msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// AddPhoto attaches a photo reference to a message.
func (c *Client) AddPhoto(ctx context.Context, in domain.PhotoInput) (domain.Photo, error) {
	var photo domain.Photo
	if err := c.do(ctx, http.MethodPost, "/api/photos", nil, in, &photo); err != nil {
		return domain.Photo{}, err
	}
	return photo, nil
}

// DeletePhoto removes a photo.
func (c *Client) DeletePhoto(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/photos/"+url.PathEscape(strings.TrimSpace(id)), nil, nil, nil)
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("%w: no service URL configured", ErrNetworkFailure)
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "greetcard-client")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var e errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("%w: %s", ErrRejected, e.Error)
	case resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", ErrNetworkFailure, resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetworkFailure, err)
	}
	return nil
}
