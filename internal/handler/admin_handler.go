package handler

import (
	"net/http"
	"site-assistant-go/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler 处理系统提示词的管理接口。
type AdminHandler struct {
	prompts service.PromptService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(prompts service.PromptService) *AdminHandler {
	return &AdminHandler{prompts: prompts}
}

type updatePromptRequest struct {
	Prompt string `json:"prompt" binding:"required,notblank"`
}

// GetPrompt 返回当前生效的系统提示词。
func (h *AdminHandler) GetPrompt(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prompt": h.prompts.CurrentPrompt(c.Request.Context())})
}

// UpdatePrompt 更新系统提示词。
func (h *AdminHandler) UpdatePrompt(c *gin.Context) {
	var req updatePromptRequest
	if !bindJSON(c, &req) {
		return
	}
	stored, err := h.prompts.UpdatePrompt(c.Request.Context(), req.Prompt)
	if err != nil {
		respondError(c, err, "failed to update prompt")
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt": stored})
}
