package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venkatarun/hidden-habits/internal/core/services"
)

// SyncEndpointPath is deliberately non-obvious to keep crawler noise off the
// gated API. The session middleware is the actual boundary.
const SyncEndpointPath = "/vx7a9d2"

type SyncHandler struct {
	service *services.StoreService
}

func NewSyncHandler(service *services.StoreService) *SyncHandler {
	return &SyncHandler{
		service: service,
	}
}

func (h *SyncHandler) Fetch(c *gin.Context) {
	store := h.service.Fetch(c.Request.Context())

	c.Header("Cache-Control", "private, max-age=30, stale-while-revalidate=300")
	c.JSON(http.StatusOK, store)
}

func (h *SyncHandler) Replace(c *gin.Context) {
	var raw any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be valid JSON"})
		return
	}

	if _, err := h.service.Replace(c.Request.Context(), raw); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist store"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RegisterRoutes mounts the sync pair on an already-gated group.
func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET(SyncEndpointPath, h.Fetch)
	router.POST(SyncEndpointPath, h.Replace)
}
