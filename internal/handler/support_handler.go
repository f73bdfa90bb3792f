package handler

import (
	"encoding/json"
	"net/http"
	"site-assistant-go/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

// SupportHandler 处理支持请求。
type SupportHandler struct {
	service service.SupportService
}

// NewSupportHandler 创建一个新的 SupportHandler。
func NewSupportHandler(service service.SupportService) *SupportHandler {
	return &SupportHandler{service: service}
}

// supportRequest 同时接受 name/email/phone 与 contactName/contactEmail/contactPhone 两套字段，空白值不占用别名。
type supportRequest struct {
	SessionID     *string         `json:"sessionId"`
	SessionIDHash *string         `json:"sessionIdHash"`
	Name          *string         `json:"name"`
	ContactName   *string         `json:"contactName"`
	Email         *string         `json:"email"`
	ContactEmail  *string         `json:"contactEmail"`
	Phone         *string         `json:"phone"`
	ContactPhone  *string         `json:"contactPhone"`
	Message       string          `json:"message" binding:"required,notblank"`
	Summary       *string         `json:"summary"`
	Title         *string         `json:"title"`
	LastMessages  json.RawMessage `json:"lastMessages"`
	URL           *string         `json:"url"`
	UserAgent     *string         `json:"userAgent"`
	Consent       bool            `json:"consent"`
}

// Create 保存工单并转发到支持工作流。
func (h *SupportHandler) Create(c *gin.Context) {
	var req supportRequest
	if !bindJSON(c, &req) {
		return
	}

	in := service.SupportInput{
		Name:         firstNonBlank(req.Name, req.ContactName),
		Email:        firstNonBlank(req.Email, req.ContactEmail),
		Phone:        firstNonBlank(req.Phone, req.ContactPhone),
		Message:      req.Message,
		Summary:      firstNonBlank(req.Summary, req.Title),
		LastMessages: req.LastMessages,
		URL:          req.URL,
		UserAgent:    req.UserAgent,
		Consent:      req.Consent,
	}
	if sid := firstNonBlank(req.SessionID, req.SessionIDHash); sid != nil {
		in.SessionID = *sid
	}

	res, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to create support ticket")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"forwarded": res.Forwarded,
		"ticket":    res.Ticket,
		"webhook":   res.Webhook,
	})
}

// firstNonBlank 返回第一个非空白的别名字段，全部为空时返回 nil。
func firstNonBlank(values ...*string) *string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return v
		}
	}
	return nil
}
