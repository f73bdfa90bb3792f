package handler

import (
	"errors"
	"net/http"
	"site-assistant-go/internal/service"
	"site-assistant-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// respondError 按错误类型写入 {"error": ...}。未知错误统一返回 500 和 fallback 文案。
func respondError(c *gin.Context, err error, fallback string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, service.ErrEmptyModelOutput):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Empty response from model"})
	case errors.Is(err, service.ErrWebhookNotConfigured):
		log.Errorf("%s: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "N8N webhook is not configured"})
	default:
		log.Error(c.Request.URL.Path+" 请求失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
