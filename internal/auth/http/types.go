package http

import (
	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/internal/auth/domain"
	"github.com/roomify-app/roomify-backend/internal/auth/service"
)

type Handler struct {
	authService *service.AuthService
	log         *logrus.Entry
}

func New(authService *service.AuthService, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		authService: authService,
		log:         log.WithField("component", "auth.http"),
	}
}

type UserResponse struct {
	User domain.User `json:"user"`
}
