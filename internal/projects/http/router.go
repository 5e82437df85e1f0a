package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group. Extra
// handlers run before save, e.g. a rate limiter.
func (h *Handler) Register(rg *gin.RouterGroup, saveMiddleware ...gin.HandlerFunc) {
	rg.POST("/save", append(saveMiddleware, h.save)...)
	rg.GET("/list", h.list)
	rg.GET("/get", h.get)
}
