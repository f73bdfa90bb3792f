package service

import (
	"context"
	"encoding/json"
	"fmt"
	"site-assistant-go/internal/model"
	"site-assistant-go/internal/repository"
	"site-assistant-go/pkg/log"
	"site-assistant-go/pkg/tasks"
	"site-assistant-go/pkg/webhook"
	"strings"
)

// SupportInput 是创建支持工单的输入。
type SupportInput struct {
	SessionID    string
	Name         *string
	Email        *string
	Phone        *string
	Message      string
	Summary      *string
	LastMessages json.RawMessage
	URL          *string
	UserAgent    *string
	Consent      bool
}

// SupportResult 是工单创建后的结果。
type SupportResult struct {
	Ticket    *model.SupportTicket
	Forwarded bool
	Webhook   json.RawMessage
}

// SupportService 定义了支持请求的业务操作。
type SupportService interface {
	// Create 校验并保存工单，然后转发到支持工作流。转发失败不影响工单保存。
	Create(ctx context.Context, in SupportInput) (*SupportResult, error)
	// Forward 把聊天中识别出的支持请求直接发送到支持工作流。
	Forward(ctx context.Context, p tasks.SupportPayload) error
}

type supportService struct {
	repo       repository.SupportTicketRepository
	poster     webhook.Poster
	webhookURL string
}

// NewSupportService 创建一个新的 SupportService。
func NewSupportService(repo repository.SupportTicketRepository, poster webhook.Poster, webhookURL string) SupportService {
	return &supportService{repo: repo, poster: poster, webhookURL: strings.TrimSpace(webhookURL)}
}

func (s *supportService) Create(ctx context.Context, in SupportInput) (*SupportResult, error) {
	if err := validateSupport(in); err != nil {
		return nil, err
	}
	if s.webhookURL == "" {
		return nil, ErrWebhookNotConfigured
	}

	lastMessages := in.LastMessages
	if len(lastMessages) == 0 || string(lastMessages) == "null" {
		lastMessages = emptyJSONArray
	}
	ticket := &model.SupportTicket{
		SessionID:    strings.TrimSpace(in.SessionID),
		Name:         strings.TrimSpace(*in.Name),
		Email:        nullIfBlank(in.Email),
		Phone:        nullIfBlank(in.Phone),
		Message:      in.Message,
		Title:        nullIfBlank(in.Summary),
		LastMessages: lastMessages,
		URL:          nullIfBlank(in.URL),
		UserAgent:    nullIfBlank(in.UserAgent),
		Consent:      in.Consent,
	}
	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("保存支持工单失败: %w", err)
	}

	result := &SupportResult{Ticket: ticket, Webhook: json.RawMessage("{}")}
	payload := tasks.SupportPayload{
		SessionID:    &ticket.SessionID,
		Summary:      ticket.Title,
		ContactName:  &ticket.Name,
		ContactEmail: ticket.Email,
		ContactPhone: ticket.Phone,
		LastMessages: ticket.LastMessages,
		Message:      ticket.Message,
		URL:          ticket.URL,
		UserAgent:    ticket.UserAgent,
		Consent:      ticket.Consent,
	}
	body, err := s.poster.Post(ctx, s.webhookURL, payload)
	if err != nil {
		log.Errorf("转发支持工单失败, ID: %d, Error: %v", ticket.ID, err)
		return result, nil
	}
	result.Forwarded = true
	result.Webhook = body
	if err := s.repo.MarkForwarded(ctx, ticket.ID); err != nil {
		log.Warnf("更新工单转发状态失败, ID: %d, Error: %v", ticket.ID, err)
	} else {
		ticket.Forwarded = true
	}
	return result, nil
}

func (s *supportService) Forward(ctx context.Context, p tasks.SupportPayload) error {
	if s.webhookURL == "" {
		return ErrWebhookNotConfigured
	}
	if len(p.LastMessages) == 0 {
		p.LastMessages = emptyJSONArray
	}
	if _, err := s.poster.Post(ctx, s.webhookURL, p); err != nil {
		return fmt.Errorf("转发支持请求失败: %w", err)
	}
	return nil
}

func validateSupport(in SupportInput) error {
	if strings.TrimSpace(in.SessionID) == "" {
		return newValidationError("sessionId", "sessionId is required")
	}
	if isBlank(in.Name) {
		return newValidationError("name", "name is required")
	}
	if strings.TrimSpace(in.Message) == "" {
		return newValidationError("message", "message is required")
	}
	if isBlank(in.Email) && isBlank(in.Phone) {
		return newValidationError("email", "email or phone is required")
	}
	return nil
}
