package handler

import (
	"net/http"
	"site-assistant-go/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler 处理用户对回答的评价。
type FeedbackHandler struct {
	service service.FeedbackService
}

// NewFeedbackHandler 创建一个新的 FeedbackHandler。
func NewFeedbackHandler(service service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

type feedbackRequest struct {
	SessionIDHash string  `json:"sessionIdHash" binding:"required,notblank"`
	MessageID     string  `json:"messageId" binding:"required,notblank"`
	Vote          string  `json:"vote" binding:"required,oneof=up down"`
	Comment       *string `json:"comment"`
}

// Record 保存一条评价。
func (h *FeedbackHandler) Record(c *gin.Context) {
	var req feedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.service.Record(c.Request.Context(), service.FeedbackInput{
		SessionIDHash: req.SessionIDHash,
		MessageID:     req.MessageID,
		Vote:          req.Vote,
		Comment:       req.Comment,
	})
	if err != nil {
		respondError(c, err, "Failed to save feedback")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
