package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/internal/apiclient"
	"github.com/roomify-app/roomify-backend/internal/hosting"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

// Store is the remote project store, satisfied by *client.Client.
type Store interface {
	Save(ctx context.Context, rec domain.Record, visibility domain.Visibility) (*domain.Record, error)
	List(ctx context.Context) ([]domain.Record, error)
	Get(ctx context.Context, id string) (*domain.Record, error)
}

type CreateInput struct {
	Item       domain.DesignItem
	Visibility domain.Visibility
	// OnProgress receives percentages as the pipeline advances.
	OnProgress func(percent int)
}

// ProjectService is the client-side entry point for creating and reading
// projects. It never returns errors: failures are logged and surface as nil
// or an empty slice.
type ProjectService struct {
	store        Store
	materializer *Materializer
	resolver     *hosting.Resolver
	log          *logrus.Entry
	now          func() time.Time
}

func NewProjectService(store Store, hostingClient hosting.Client, resolver *hosting.Resolver, log *logrus.Logger) *ProjectService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ProjectService{
		store:        store,
		materializer: NewMaterializer(hostingClient, resolver, log),
		resolver:     resolver,
		log:          log.WithField("component", "project_service"),
		now:          time.Now,
	}
}

// CreateProject hosts the item's images and upserts it. It returns the
// record as saved by the store, or nil.
func (s *ProjectService) CreateProject(ctx context.Context, in CreateInput) *domain.Record {
	progress := in.OnProgress
	if progress == nil {
		progress = func(int) {}
	}
	item := in.Item
	log := s.log.WithField("project_id", item.ID)

	if !s.storeReady("create project") {
		return nil
	}

	item.Timestamp = s.now().UnixMilli()

	res := s.materializer.Materialize(ctx, item, progress)
	if res == nil {
		return nil
	}

	rec := res.Record
	if res.RenderDropped {
		rec.RenderedImage = s.previousRender(ctx, item.ID)
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}

	saved, err := s.store.Save(ctx, rec, visibility)
	if err != nil {
		s.logStoreError(log, err, "failed to save project")
		return nil
	}

	progress(ProgressSaved)
	return saved
}

// GetProjects returns the caller's projects in store order, never nil.
func (s *ProjectService) GetProjects(ctx context.Context) []domain.Record {
	if !s.storeReady("list projects") {
		return []domain.Record{}
	}

	projects, err := s.store.List(ctx)
	if err != nil {
		s.logStoreError(s.log, err, "failed to list projects")
		return []domain.Record{}
	}
	if projects == nil {
		return []domain.Record{}
	}
	return projects
}

// GetProjectByID returns nil when the project does not exist or on failure.
func (s *ProjectService) GetProjectByID(ctx context.Context, id string) *domain.Record {
	if id == "" || !s.storeReady("get project") {
		return nil
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.WithField("project_id", id).Debug("project not found")
			return nil
		}
		s.logStoreError(s.log.WithField("project_id", id), err, "failed to get project")
		return nil
	}
	return rec
}

// previousRender keeps a render that was hosted by an earlier save so a
// failed upload does not erase it.
func (s *ProjectService) previousRender(ctx context.Context, id string) string {
	existing, err := s.store.Get(ctx, id)
	if err != nil || existing == nil {
		return ""
	}
	if !s.resolver.IsDurable(existing.RenderedImage) {
		return ""
	}
	s.log.WithField("project_id", id).Info("keeping previously hosted render")
	return existing.RenderedImage
}

func (s *ProjectService) storeReady(op string) bool {
	if s.store == nil {
		s.log.WithField("op", op).Warn("project store is not configured")
		return false
	}
	if c, ok := s.store.(interface{ Configured() bool }); ok && !c.Configured() {
		s.log.WithField("op", op).Warn("project store is not configured")
		return false
	}
	return true
}

func (s *ProjectService) logStoreError(log *logrus.Entry, err error, msg string) {
	if status := apiclient.StatusOf(err); status != 0 {
		log = log.WithField("status", status)
	}
	log.WithError(err).Error(msg)
}
