// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"
	"site-assistant-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler 负责处理聊天请求。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest 定义了聊天 API 的请求体结构。
type ChatRequest struct {
	Message   string  `json:"message" binding:"required,notblank"`
	SessionID *string `json:"sessionId"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Consent   bool    `json:"consent"`
	URL       *string `json:"url"`
	UserAgent *string `json:"userAgent"`
}

// Chat 处理一次聊天请求，返回回答和识别出的意图。
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.chatService.Reply(c.Request.Context(), service.ChatRequest{
		Message:   req.Message,
		SessionID: req.SessionID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		URL:       req.URL,
		UserAgent: req.UserAgent,
		Consent:   req.Consent,
	})
	if err != nil {
		respondError(c, err, "chat api failed")
		return
	}
	c.JSON(http.StatusOK, reply)
}

// Health 是无需认证的存活检查。
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
