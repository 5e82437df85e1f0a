// Package hosting turns images into durable, publicly served files under a
// per-user namespace.
package hosting

import (
	"context"
	"errors"

	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

var (
	ErrInvalidPath     = errors.New("hosting: invalid path")
	ErrNoUser          = errors.New("hosting: no authenticated user in context")
	ErrObjectNotFound  = errors.New("hosting: object not found")
	ErrEmptyNamespace  = errors.New("hosting: namespace is empty")
	ErrUnknownTemplate = errors.New("hosting: url template must contain {subdomain}")
)

// Client is what the resolver needs from a hosting provider. Implementations
// take the user from ctx.
type Client interface {
	// GetOrCreateConfig returns the caller's namespace, creating it on first
	// use. Repeated and concurrent calls converge on one namespace.
	GetOrCreateConfig(ctx context.Context) (*domain.HostingConfig, error)
	// Write stores data at path under the namespace, creating parent
	// directories as needed. Writing the same path again overwrites it.
	Write(ctx context.Context, cfg domain.HostingConfig, path string, data []byte, contentType string) error
	PublicURL(cfg domain.HostingConfig, path string) string
	// IsHostedURL reports whether ref already points at hosted storage.
	IsHostedURL(ref string) bool
}
