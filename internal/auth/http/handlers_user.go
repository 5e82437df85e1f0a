package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/internal/api/http/middleware"
	"github.com/roomify-app/roomify-backend/internal/auth"
	"github.com/roomify-app/roomify-backend/internal/auth/domain"
	"github.com/roomify-app/roomify-backend/internal/auth/service"
)

// GetProfile returns the current user, creating the profile on first use.
func (h *Handler) GetProfile(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		jsonError(c, http.StatusUnauthorized, "Authentication failed")
		return
	}

	user, err := h.authService.GetUserByFirebaseUID(c.Request.Context(), uid)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = h.authService.SyncUser(c.Request.Context(), domain.SyncUserRequest{UID: uid, Email: c.GetString("email")})
	}
	if err != nil {
		h.internal(c, "Failed to load user", err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: *user})
}

// SyncUser records a sign-in. The body is optional.
func (h *Handler) SyncUser(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		jsonError(c, http.StatusUnauthorized, "Authentication failed")
		return
	}

	var body struct {
		Email       string  `json:"email,omitempty"`
		DisplayName *string `json:"displayName,omitempty"`
		PhotoURL    *string `json:"photoUrl,omitempty"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			jsonError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	// token email wins over the body
	email := c.GetString("email")
	if email == "" {
		email = body.Email
	}

	user, err := h.authService.SyncUser(c.Request.Context(), domain.SyncUserRequest{
		UID:         uid,
		Email:       email,
		DisplayName: body.DisplayName,
		PhotoURL:    body.PhotoURL,
	})
	if err != nil {
		h.internal(c, "Failed to sync user", err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: *user})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		jsonError(c, http.StatusUnauthorized, "Authentication failed")
		return
	}

	var req struct {
		Username    *string `json:"username,omitempty"`
		DisplayName *string `json:"displayName,omitempty"`
		PhotoURL    *string `json:"photoUrl,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateUser(c.Request.Context(), uid, domain.UpdateUserRequest{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		jsonError(c, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, service.ErrInvalidUsername):
		jsonError(c, http.StatusBadRequest, "Username must not be empty")
		return
	case err != nil:
		h.internal(c, "Failed to update user", err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: *user})
}

func (h *Handler) internal(c *gin.Context, msg string, err error) {
	h.log.WithError(err).WithFields(logrus.Fields{
		"user_id":    auth.UserFirebaseUID(c),
		"request_id": middleware.GetRequestID(c.Request.Context()),
	}).Error(msg)
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg, "message": err.Error()})
}

func jsonError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
