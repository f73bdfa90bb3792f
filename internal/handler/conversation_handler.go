package handler

import (
	"net/http"
	"site-assistant-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ConversationHandler 处理聊天记录相关的 API 请求。
type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler。
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

type historyRequest struct {
	SessionID string `json:"sessionId" binding:"required,notblank"`
}

// History 返回某个会话的历史消息。
func (h *ConversationHandler) History(c *gin.Context) {
	var req historyRequest
	if !bindJSON(c, &req) {
		return
	}

	messages, err := h.service.History(c.Request.Context(), req.SessionID)
	if err != nil {
		respondError(c, err, "Failed to load history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
