// Package apiclient builds the authenticated HTTP client used to talk to the
// Roomify API and decodes its JSON responses.
package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	fastshot "github.com/opus-domini/fast-shot"
)

var ErrNotConfigured = errors.New("api client: base url is not configured")

const defaultTimeout = 30 * time.Second

type Options struct {
	BaseURL string
	// Token is sent as a bearer token.
	Token string
	// UserID is sent as X-User-Id; the API only honours it in development.
	UserID  string
	Timeout time.Duration
}

func (o Options) Configured() bool {
	return strings.TrimSpace(o.BaseURL) != ""
}

// New returns nil when opts has no base URL.
func New(opts Options) fastshot.ClientHttpMethods {
	if !opts.Configured() {
		return nil
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}

	c := fastshot.NewClient(strings.TrimRight(opts.BaseURL, "/"))
	if opts.Token != "" {
		c.Auth().BearerToken(opts.Token)
	}
	if opts.UserID != "" {
		c.Header().Add("X-User-Id", opts.UserID)
	}

	return c.Config().SetTimeout(opts.Timeout).
		Header().Add("Accept", "application/json").
		Build()
}

// APIError is a failure reported by the server in its {error, message} shape.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Code)
}

// StatusOf returns the HTTP status carried by an *APIError in err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Decode reads resp into result, or returns an *APIError for error statuses.
func Decode[T any](resp *fastshot.Response, result *T) error {
	defer resp.Body().Close()

	if resp.Status().IsError() {
		msg, err := resp.Body().AsString()
		if err != nil {
			return fmt.Errorf("failed to read error response: %w", err)
		}
		return parseError(resp.Status().Code(), msg)
	}

	if err := resp.Body().AsJSON(result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func parseError(status int, body string) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil || payload.Error == "" {
		return &APIError{Status: status, Code: strings.TrimSpace(body)}
	}
	return &APIError{Status: status, Code: payload.Error, Message: payload.Message}
}
