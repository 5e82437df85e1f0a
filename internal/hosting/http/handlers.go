package http

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/internal/api/http/middleware"
	"github.com/roomify-app/roomify-backend/internal/auth"
	"github.com/roomify-app/roomify-backend/internal/hosting"
)

const maxUploadBytes = 25 << 20

// Handler serves the hosting endpoints on top of hosting.Namespaces.
type Handler struct {
	ns  *hosting.Namespaces
	log *logrus.Entry
}

func New(ns *hosting.Namespaces, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{ns: ns, log: log.WithField("component", "hosting.http")}
}

// Register attaches the authenticated hosting API.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/config", h.config)
	rg.POST("/files", h.write)
}

// RegisterPublic attaches the public file server.
func (h *Handler) RegisterPublic(r gin.IRouter) {
	r.GET("/hosted/:subdomain/*path", h.serve)
	r.HEAD("/hosted/:subdomain/*path", h.serve)
}

func (h *Handler) config(c *gin.Context) {
	if auth.UserFirebaseUID(c) == "" {
		jsonError(c, http.StatusUnauthorized, "Authentication failed", "")
		return
	}

	cfg, err := h.ns.GetOrCreateConfig(c.Request.Context())
	if err != nil {
		h.internal(c, "Failed to get hosting config", err)
		return
	}

	c.JSON(http.StatusOK, hosting.ConfigResponse{
		Subdomain:   cfg.Subdomain,
		URLTemplate: h.ns.Scheme().Template(),
	})
}

func (h *Handler) write(c *gin.Context) {
	if auth.UserFirebaseUID(c) == "" {
		jsonError(c, http.StatusUnauthorized, "Authentication failed", "")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes*4/3+1024)

	var req hosting.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	path, err := hosting.CleanPath(req.Path)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid path", req.Path)
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil || len(data) == 0 {
		jsonError(c, http.StatusBadRequest, "File data must be non-empty base64", "")
		return
	}

	ctx := c.Request.Context()
	cfg, err := h.ns.GetOrCreateConfig(ctx)
	if err != nil {
		h.internal(c, "Failed to get hosting config", err)
		return
	}

	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" {
		contentType = hosting.ContentTypeForPath(path)
	}
	if err := h.ns.Write(ctx, *cfg, path, data, contentType); err != nil {
		h.internal(c, "Failed to write file", err)
		return
	}

	c.JSON(http.StatusOK, hosting.WriteResponse{URL: h.ns.PublicURL(*cfg, path)})
}

func (h *Handler) serve(c *gin.Context) {
	subdomain := c.Param("subdomain")
	if !hosting.ValidSlug(subdomain) {
		c.Status(http.StatusNotFound)
		return
	}

	obj, err := h.ns.Open(c.Request.Context(), subdomain, c.Param("path"))
	if err != nil {
		switch {
		case errors.Is(err, hosting.ErrObjectNotFound), errors.Is(err, hosting.ErrInvalidPath):
			c.Status(http.StatusNotFound)
		default:
			h.log.WithError(err).WithField("subdomain", subdomain).Error("failed to open hosted file")
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	defer obj.Body.Close()

	c.Header("Content-Type", obj.ContentType)
	c.Header("Cache-Control", "public, max-age=300")
	c.Header("X-Content-Type-Options", "nosniff")
	if obj.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	c.Status(http.StatusOK)
	if c.Request.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(c.Writer, obj.Body); err != nil {
		h.log.WithError(err).WithField("subdomain", subdomain).Warn("failed to stream hosted file")
	}
}

func (h *Handler) internal(c *gin.Context, msg string, err error) {
	h.log.WithError(err).WithFields(logrus.Fields{
		"user_id":    auth.UserFirebaseUID(c),
		"request_id": middleware.GetRequestID(c.Request.Context()),
	}).Error(msg)
	_ = c.Error(err)
	jsonError(c, http.StatusInternalServerError, msg, err.Error())
}

func jsonError(c *gin.Context, status int, msg, detail string) {
	body := gin.H{"error": msg}
	if detail != "" {
		body["message"] = detail
	}
	c.AbortWithStatusJSON(status, body)
}
