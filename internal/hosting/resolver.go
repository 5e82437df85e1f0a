package hosting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/internal/imageconv"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

const pngType = "image/png"

// Resolver uploads project images to the hosting namespace and hands back
// durable URLs.
type Resolver struct {
	client  Client
	fetcher *http.Client
	log     *logrus.Entry
}

type ResolverOption func(*Resolver)

func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) { r.fetcher = c }
}

func WithLogger(log *logrus.Logger) ResolverOption {
	return func(r *Resolver) { r.log = logrus.NewEntry(log) }
}

func NewResolver(client Client, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client:  client,
		fetcher: &http.Client{Timeout: 30 * time.Second},
		log:     logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsDurable reports whether ref already points at hosted storage.
func (r *Resolver) IsDurable(ref string) bool {
	return ref != "" && r.client.IsHostedURL(ref)
}

// Resolve returns a durable reference for ref, uploading it when needed.
// It returns nil when the image cannot be hosted; the reason is logged.
func (r *Resolver) Resolve(ctx context.Context, hosting *domain.HostingConfig, ref, projectID string, label domain.Label) *domain.HostedAsset {
	if hosting == nil || hosting.Subdomain == "" || ref == "" || !label.Valid() {
		return nil
	}
	if r.IsDurable(ref) {
		return &domain.HostedAsset{URL: ref}
	}

	log := r.log.WithFields(logrus.Fields{"project_id": projectID, "label": label})

	url, err := r.upload(ctx, *hosting, ref, projectID, label)
	if err != nil {
		log.WithError(err).Warn("failed to store the hosted image")
		return nil
	}
	return &domain.HostedAsset{URL: url}
}

func (r *Resolver) upload(ctx context.Context, cfg domain.HostingConfig, ref, projectID string, label domain.Label) (string, error) {
	b, err := load(ctx, r.fetcher, ref)
	if err != nil {
		return "", err
	}

	if label == domain.LabelRendered {
		b, err = normalizeRender(b)
		if err != nil {
			return "", err
		}
	} else if baseType(b.contentType) == "" || baseType(b.contentType) == "application/octet-stream" {
		b.contentType = imageconv.ContentType(b.data)
	}

	p, err := AssetPath(projectID, label, ExtensionFor(b.contentType, ref))
	if err != nil {
		return "", err
	}

	if err := r.client.Write(ctx, cfg, p, b.data, b.contentType); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}

	url := r.client.PublicURL(cfg, p)
	if url == "" {
		return "", errors.New("no public url for hosted file")
	}
	return url, nil
}

// normalizeRender converts a render to PNG. Payloads that cannot be decoded
// are kept only when they were already declared as PNG.
func normalizeRender(b *blob) (*blob, error) {
	out, err := imageconv.ToPNG(b.data)
	if err != nil {
		if baseType(b.contentType) != pngType {
			return nil, fmt.Errorf("convert render to png: %w", err)
		}
		out = b.data
	}
	return &blob{data: out, contentType: pngType}, nil
}

// Load returns the bytes behind a data URI or http(s) URL with their
// content type, sniffed when the source did not say.
func (r *Resolver) Load(ctx context.Context, ref string) ([]byte, string, error) {
	b, err := load(ctx, r.fetcher, ref)
	if err != nil {
		return nil, "", err
	}
	ct := baseType(b.contentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = imageconv.ContentType(b.data)
	}
	return b.data, ct, nil
}
