package hosting

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	fastshot "github.com/opus-domini/fast-shot"

	"github.com/roomify-app/roomify-backend/internal/apiclient"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

// ConfigResponse is the body of POST /api/hosting/config.
type ConfigResponse struct {
	Subdomain   string `json:"subdomain"`
	URLTemplate string `json:"urlTemplate"`
}

// WriteRequest is the body of POST /api/hosting/files.
type WriteRequest struct {
	Path        string `json:"path"`
	ContentType string `json:"contentType"`
	Data        string `json:"data"` // base64
}

type WriteResponse struct {
	URL string `json:"url"`
}

// Remote is a Client backed by the hosting endpoints of a Roomify API.
type Remote struct {
	http fastshot.ClientHttpMethods

	mu     sync.RWMutex
	scheme URLScheme
}

// NewRemote uses scheme until the server reports its own URL template.
func NewRemote(opts apiclient.Options, scheme URLScheme) *Remote {
	return &Remote{http: apiclient.New(opts), scheme: scheme}
}

func (r *Remote) GetOrCreateConfig(ctx context.Context) (*domain.HostingConfig, error) {
	if r.http == nil {
		return nil, apiclient.ErrNotConfigured
	}

	resp, err := r.http.POST("/api/hosting/config").
		Context().Set(ctx).
		Send()
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var out ConfigResponse
	if err := apiclient.Decode(resp, &out); err != nil {
		return nil, err
	}
	if out.Subdomain == "" {
		return nil, ErrEmptyNamespace
	}

	if out.URLTemplate != "" {
		if scheme, err := NewURLScheme(out.URLTemplate); err == nil {
			r.mu.Lock()
			r.scheme = scheme
			r.mu.Unlock()
		}
	}
	return &domain.HostingConfig{Subdomain: out.Subdomain}, nil
}

func (r *Remote) Write(ctx context.Context, cfg domain.HostingConfig, path string, data []byte, contentType string) error {
	if r.http == nil {
		return apiclient.ErrNotConfigured
	}
	clean, err := CleanPath(path)
	if err != nil {
		return err
	}

	resp, err := r.http.POST("/api/hosting/files").
		Context().Set(ctx).
		Body().AsJSON(WriteRequest{
			Path:        clean,
			ContentType: contentType,
			Data:        base64.StdEncoding.EncodeToString(data),
		}).
		Send()
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	var out WriteResponse
	return apiclient.Decode(resp, &out)
}

func (r *Remote) PublicURL(cfg domain.HostingConfig, path string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scheme.PublicURL(cfg.Subdomain, path)
}

func (r *Remote) IsHostedURL(ref string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scheme.IsHosted(ref)
}
