package hosting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/internal/auth"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	"github.com/roomify-app/roomify-backend/internal/storage/kv"
)

// Namespaces is the in-process Client: namespace records live in the user's
// keyed store, files in a Backend.
type Namespaces struct {
	store   kv.Store
	backend Backend
	scheme  URLScheme
	log     *logrus.Entry
}

func NewNamespaces(store kv.Store, backend Backend, scheme URLScheme, log *logrus.Logger) *Namespaces {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Namespaces{
		store:   store,
		backend: backend,
		scheme:  scheme,
		log:     log.WithField("component", "hosting"),
	}
}

func (n *Namespaces) Scheme() URLScheme {
	return n.scheme
}

func (n *Namespaces) GetOrCreateConfig(ctx context.Context) (*domain.HostingConfig, error) {
	uid := auth.UserIDFromContext(ctx)
	if uid == "" {
		return nil, ErrNoUser
	}

	existing, err := n.lookup(ctx, uid)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return nil, err
	}

	created := domain.HostingConfig{Subdomain: NewSlug()}
	data, err := json.Marshal(created)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hosting config: %w", err)
	}

	ok, err := n.store.SetIfAbsent(ctx, uid, domain.HostingConfigKey, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store hosting config: %w", err)
	}
	if !ok {
		// Someone else created it first; use theirs.
		return n.lookup(ctx, uid)
	}

	n.log.WithFields(logrus.Fields{"user_id": uid, "subdomain": created.Subdomain}).Info("created hosting namespace")
	return &created, nil
}

func (n *Namespaces) lookup(ctx context.Context, uid string) (*domain.HostingConfig, error) {
	data, err := n.store.Get(ctx, uid, domain.HostingConfigKey)
	if err != nil {
		return nil, err
	}

	var cfg domain.HostingConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode hosting config: %w", err)
	}
	if cfg.Subdomain == "" {
		return nil, ErrEmptyNamespace
	}
	return &cfg, nil
}

func (n *Namespaces) Write(ctx context.Context, cfg domain.HostingConfig, path string, data []byte, contentType string) error {
	if cfg.Subdomain == "" {
		return ErrEmptyNamespace
	}
	clean, err := CleanPath(path)
	if err != nil {
		return err
	}
	return n.backend.Put(ctx, cfg.Subdomain, clean, data, contentType)
}

func (n *Namespaces) Open(ctx context.Context, subdomain, path string) (*Object, error) {
	clean, err := CleanPath(path)
	if err != nil {
		return nil, err
	}
	return n.backend.Open(ctx, subdomain, clean)
}

func (n *Namespaces) PublicURL(cfg domain.HostingConfig, path string) string {
	return n.scheme.PublicURL(cfg.Subdomain, path)
}

func (n *Namespaces) IsHostedURL(ref string) bool {
	return n.scheme.IsHosted(ref)
}
