package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/internal/api/http/middleware"
	"github.com/roomify-app/roomify-backend/internal/auth"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

func (h *Handler) save(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Project == nil || strings.TrimSpace(req.Project.ID) == "" || strings.TrimSpace(req.Project.SourceImage) == "" {
		jsonError(c, http.StatusBadRequest, "Project Id and source image are both required", "")
		return
	}
	visibility, err := domain.ParseVisibility(req.Visibility)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid visibility", err.Error())
		return
	}

	rec := *req.Project
	rec.Stamp(visibility, userID, h.now())

	if err := h.repo.Save(c.Request.Context(), userID, rec); err != nil {
		h.internal(c, "Failed to save project", err, logrus.Fields{"user_id": userID, "project_id": rec.ID})
		return
	}

	c.JSON(http.StatusOK, SaveResponse{Saved: true, ID: rec.ID, Project: rec})
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	projects, err := h.repo.List(c.Request.Context(), userID)
	if err != nil {
		h.internal(c, "Failed to list projects", err, logrus.Fields{"user_id": userID})
		return
	}

	c.JSON(http.StatusOK, ListResponse{Projects: projects})
}

func (h *Handler) get(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		jsonError(c, http.StatusBadRequest, "Project ID is required", "")
		return
	}

	rec, err := h.repo.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "Project not found", "")
			return
		}
		h.internal(c, "Failed to fetch project", err, logrus.Fields{"user_id": userID, "project_id": id})
		return
	}

	c.JSON(http.StatusOK, GetResponse{Project: *rec})
}

func (h *Handler) requireUser(c *gin.Context) (string, bool) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		jsonError(c, http.StatusUnauthorized, "Authentication failed", "")
		return "", false
	}
	return uid, true
}

func (h *Handler) internal(c *gin.Context, msg string, err error, fields logrus.Fields) {
	fields["request_id"] = middleware.GetRequestID(c.Request.Context())
	h.log.WithError(err).WithFields(fields).Error(msg)
	_ = c.Error(err)
	jsonError(c, http.StatusInternalServerError, msg, err.Error())
}

func jsonError(c *gin.Context, status int, msg, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Message: detail})
}
