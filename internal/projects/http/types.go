package http

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	"github.com/roomify-app/roomify-backend/internal/projects/repository"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	repo *repository.Repo
	log  *logrus.Entry
	now  func() time.Time
}

func New(repo *repository.Repo, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		repo: repo,
		log:  log.WithField("component", "projects.http"),
		now:  time.Now,
	}
}

type SaveRequest struct {
	Project    *domain.Record `json:"project"`
	Visibility string         `json:"visibility,omitempty"`
}

type SaveResponse struct {
	Saved   bool          `json:"saved"`
	ID      string        `json:"id"`
	Project domain.Record `json:"project"`
}

type ListResponse struct {
	Projects []domain.Record `json:"projects"`
}

type GetResponse struct {
	Project domain.Record `json:"project"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
