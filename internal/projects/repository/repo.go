package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	"github.com/roomify-app/roomify-backend/internal/storage/kv"
)

// Repo stores project records in the user's keyed store under
// roomify_project_{id}.
type Repo struct {
	store kv.Store
	log   *logrus.Entry
}

func NewRepo(store kv.Store, log *logrus.Logger) *Repo {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Repo{store: store, log: log.WithField("component", "projects.repo")}
}

func (r *Repo) Save(ctx context.Context, userID string, rec domain.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := r.store.Set(ctx, userID, domain.ProjectKey(rec.ID), data); err != nil {
		return fmt.Errorf("failed to save project %s: %w", rec.ID, err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, id string) (*domain.Record, error) {
	data, err := r.store.Get(ctx, userID, domain.ProjectKey(id))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return domain.DecodeRecord(data)
}

// List returns every project of the user in store order. Entries that
// vanish or fail to decode between listing and reading are skipped.
func (r *Repo) List(ctx context.Context, userID string) ([]domain.Record, error) {
	keys, err := r.store.Keys(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := []domain.Record{}
	for _, key := range keys {
		if !domain.IsProjectKey(key) {
			continue
		}

		data, err := r.store.Get(ctx, userID, key)
		if err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to get %s: %w", key, err)
		}

		rec, err := domain.DecodeRecord(data)
		if err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "key": key}).Warn("skipping unreadable project")
			continue
		}
		projects = append(projects, *rec)
	}
	return projects, nil
}
