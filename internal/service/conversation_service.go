package service

import (
	"context"
	"fmt"
	"site-assistant-go/internal/model"
	"site-assistant-go/internal/repository"
	"site-assistant-go/pkg/log"
	"strings"
)

// ConversationService 定义了聊天记录的业务操作。
type ConversationService interface {
	// Append 写入一轮问答。失败只记录日志并返回给后台任务，不会影响聊天响应。
	Append(ctx context.Context, sessionID, userMessage, botAnswer string) error
	// History 返回会话的历史消息，按时间升序展开为 user / assistant 条目。
	History(ctx context.Context, sessionID string) ([]model.HistoryEntry, error)
}

type conversationService struct {
	repo repository.ChatMessageRepository
}

// NewConversationService 创建一个新的 ConversationService。
func NewConversationService(repo repository.ChatMessageRepository) ConversationService {
	return &conversationService{repo: repo}
}

func (s *conversationService) Append(ctx context.Context, sessionID, userMessage, botAnswer string) error {
	if strings.TrimSpace(sessionID) == "" {
		return newValidationError("sessionId", "sessionId is required")
	}
	msg := &model.ChatMessage{
		SessionID:   sessionID,
		UserMessage: userMessage,
		BotAnswer:   botAnswer,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		log.Errorf("保存聊天记录失败, sessionId: %s, Error: %v", sessionID, err)
		return fmt.Errorf("保存聊天记录失败: %w", err)
	}
	return nil
}

func (s *conversationService) History(ctx context.Context, sessionID string) ([]model.HistoryEntry, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, newValidationError("sessionId", "sessionId is required")
	}
	rows, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("查询聊天记录失败: %w", err)
	}
	entries := make([]model.HistoryEntry, 0, len(rows)*2)
	for _, row := range rows {
		entries = append(entries, row.Entries()...)
	}
	return entries, nil
}
