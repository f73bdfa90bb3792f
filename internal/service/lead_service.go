package service

import (
	"context"
	"fmt"
	"site-assistant-go/internal/model"
	"site-assistant-go/internal/repository"
	"site-assistant-go/pkg/log"
	"site-assistant-go/pkg/tasks"
	"site-assistant-go/pkg/webhook"
	"strings"
)

// LeadInput 是创建销售线索的输入。
type LeadInput struct {
	SessionIDHash string
	Name          *string
	Email         *string
	Phone         *string
	Message       *string
	Source        *string
}

// LeadService 定义了销售线索的业务操作。
type LeadService interface {
	// Create 校验并保存一条线索：需要 sessionIdHash、name，以及 email 或 phone 之一。
	Create(ctx context.Context, in LeadInput) (*model.Lead, error)
	// Forward 处理聊天中识别出的线索：配置了 webhook 时转发，否则直接入库。
	Forward(ctx context.Context, p tasks.LeadPayload) error
}

type leadService struct {
	repo       repository.LeadRepository
	poster     webhook.Poster
	webhookURL string
}

// NewLeadService 创建一个新的 LeadService。webhookURL 为空时线索直接写入数据库。
func NewLeadService(repo repository.LeadRepository, poster webhook.Poster, webhookURL string) LeadService {
	return &leadService{repo: repo, poster: poster, webhookURL: strings.TrimSpace(webhookURL)}
}

func (s *leadService) Create(ctx context.Context, in LeadInput) (*model.Lead, error) {
	sessionIDHash := strings.TrimSpace(in.SessionIDHash)
	if sessionIDHash == "" {
		return nil, newValidationError("sessionIdHash", "sessionIdHash is required")
	}
	name := nullIfBlank(in.Name)
	if name == nil {
		return nil, newValidationError("name", "name is required")
	}
	email, phone := nullIfBlank(in.Email), nullIfBlank(in.Phone)
	if email == nil && phone == nil {
		return nil, newValidationError("email", "email or phone is required")
	}

	source := model.DefaultLeadSource
	if v := nullIfBlank(in.Source); v != nil {
		source = *v
	}
	lead := &model.Lead{
		SessionIDHash: sessionIDHash,
		Name:          *name,
		Email:         email,
		Phone:         phone,
		Message:       nullIfBlank(in.Message),
		Source:        source,
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("保存线索失败: %w", err)
	}
	log.Infof("新线索已保存, ID: %d, source: %s", lead.ID, lead.Source)
	return lead, nil
}

func (s *leadService) Forward(ctx context.Context, p tasks.LeadPayload) error {
	if s.webhookURL != "" {
		if _, err := s.poster.Post(ctx, s.webhookURL, p); err != nil {
			return fmt.Errorf("转发线索失败: %w", err)
		}
		return nil
	}

	in := LeadInput{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Message: &p.Message,
		Source:  &p.Source,
	}
	if p.SessionIDHash != nil {
		in.SessionIDHash = *p.SessionIDHash
	}
	_, err := s.Create(ctx, in)
	return err
}
