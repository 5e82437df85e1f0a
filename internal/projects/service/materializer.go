package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/internal/hosting"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

// Progress stages reported while a project is created.
const (
	ProgressNamespace = 10
	ProgressSource    = 40
	ProgressRendered  = 70
	ProgressSaved     = 100
)

// Result is a storage-ready record. RenderDropped is set when the item
// carried a render that could not be hosted.
type Result struct {
	Record        domain.Record
	RenderDropped bool
}

// Materializer rewrites a DesignItem so that it only references hosted images.
type Materializer struct {
	hosting  hosting.Client
	resolver *hosting.Resolver
	log      *logrus.Entry
}

func NewMaterializer(client hosting.Client, resolver *hosting.Resolver, log *logrus.Logger) *Materializer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Materializer{
		hosting:  client,
		resolver: resolver,
		log:      log.WithField("component", "materializer"),
	}
}

// Materialize returns nil when the source image cannot be made durable; such
// an item must not be saved.
func (m *Materializer) Materialize(ctx context.Context, item domain.DesignItem, progress func(int)) *Result {
	if progress == nil {
		progress = func(int) {}
	}
	log := m.log.WithField("project_id", item.ID)

	cfg, err := m.hosting.GetOrCreateConfig(ctx)
	if err != nil {
		log.WithError(err).Warn("could not get hosting namespace")
		cfg = nil
	}
	progress(ProgressNamespace)

	source := m.resolve(ctx, cfg, item.SourceImage, item.ID, domain.LabelSource)
	if source == "" {
		log.Warn("source image could not be hosted, skipping save")
		return nil
	}
	progress(ProgressSource)

	rec := domain.RecordFromItem(item)
	rec.SourceImage = source
	rec.RenderedImage = ""

	res := &Result{}
	if item.RenderedImage != "" {
		rec.RenderedImage = m.resolve(ctx, cfg, item.RenderedImage, item.ID, domain.LabelRendered)
		if rec.RenderedImage == "" {
			log.Warn("rendered image could not be hosted")
			res.RenderDropped = true
		}
	}
	progress(ProgressRendered)

	res.Record = rec
	return res
}

// resolve falls back to ref itself when it is already durable, else "".
func (m *Materializer) resolve(ctx context.Context, cfg *domain.HostingConfig, ref, projectID string, label domain.Label) string {
	if asset := m.resolver.Resolve(ctx, cfg, ref, projectID, label); asset != nil {
		return asset.URL
	}
	if m.resolver.IsDurable(ref) {
		return ref
	}
	return ""
}
