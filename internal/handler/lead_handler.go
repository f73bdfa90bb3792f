package handler

import (
	"net/http"
	"site-assistant-go/internal/service"

	"github.com/gin-gonic/gin"
)

// LeadHandler 处理服务间调用创建的销售线索。
type LeadHandler struct {
	service service.LeadService
}

// NewLeadHandler 创建一个新的 LeadHandler。
func NewLeadHandler(service service.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

type leadRequest struct {
	SessionIDHash string  `json:"sessionIdHash" binding:"required,notblank"`
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Message       *string `json:"message"`
	Source        *string `json:"source"`
}

// Create 创建一条线索。name 与联系方式的校验在 service 层完成。
func (h *LeadHandler) Create(c *gin.Context) {
	var req leadRequest
	if !bindJSON(c, &req) {
		return
	}

	lead, err := h.service.Create(c.Request.Context(), service.LeadInput{
		SessionIDHash: req.SessionIDHash,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Message:       req.Message,
		Source:        req.Source,
	})
	if err != nil {
		respondError(c, err, "Failed to create lead")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": lead})
}
