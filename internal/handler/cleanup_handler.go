package handler

import (
	"net/http"
	"site-assistant-go/internal/service"

	"github.com/gin-gonic/gin"
)

// CleanupHandler 提供按需和定时两种清理入口。
type CleanupHandler struct {
	service service.CleanupService
}

// NewCleanupHandler 创建一个新的 CleanupHandler。
func NewCleanupHandler(service service.CleanupService) *CleanupHandler {
	return &CleanupHandler{service: service}
}

// Cleanup 是内部密钥保护的按需清理。
func (h *CleanupHandler) Cleanup(c *gin.Context) {
	deleted, err := h.service.Purge(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to cleanup old messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}

// Cron 是定时任务平台调用的清理入口。
func (h *CleanupHandler) Cron(c *gin.Context) {
	deleted, err := h.service.Purge(c.Request.Context())
	if err != nil {
		respondError(c, err, "Cleanup failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
}
