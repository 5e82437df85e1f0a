package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.GetProfile)
	rg.POST("/sync", h.SyncUser)
	rg.PATCH("/me", h.UpdateProfile)
}
