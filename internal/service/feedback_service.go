package service

import (
	"context"
	"fmt"
	"site-assistant-go/internal/model"
	"site-assistant-go/internal/repository"
	"strings"
)

// FeedbackInput 是一次点赞/点踩的输入。
type FeedbackInput struct {
	SessionIDHash string
	MessageID     string
	Vote          string
	Comment       *string
}

// FeedbackService 定义了用户评价的业务操作。
type FeedbackService interface {
	Record(ctx context.Context, in FeedbackInput) error
}

type feedbackService struct {
	repo repository.FeedbackRepository
}

// NewFeedbackService 创建一个新的 FeedbackService。
func NewFeedbackService(repo repository.FeedbackRepository) FeedbackService {
	return &feedbackService{repo: repo}
}

// Record 追加一条评价。同一消息重复投票不做去重。
func (s *feedbackService) Record(ctx context.Context, in FeedbackInput) error {
	if strings.TrimSpace(in.SessionIDHash) == "" {
		return newValidationError("sessionIdHash", "sessionIdHash is required")
	}
	if strings.TrimSpace(in.MessageID) == "" {
		return newValidationError("messageId", "messageId is required")
	}
	vote := model.Vote(in.Vote)
	if !vote.Valid() {
		return newValidationError("vote", "vote must be 'up' or 'down'")
	}

	fb := &model.Feedback{
		SessionIDHash: in.SessionIDHash,
		MessageID:     in.MessageID,
		Vote:          vote,
		Comment:       nullIfBlank(in.Comment),
	}
	if err := s.repo.Create(ctx, fb); err != nil {
		return fmt.Errorf("保存评价失败: %w", err)
	}
	return nil
}
