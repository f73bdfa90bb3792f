package service

import (
	"context"
	"fmt"
	"site-assistant-go/internal/model"
	"site-assistant-go/internal/repository"
	"site-assistant-go/pkg/log"
	"strings"
)

// FallbackSystemPrompt 在数据库中没有可用提示词时使用，保证聊天接口不会在空指令下运行。
const FallbackSystemPrompt = "Du bist der YJAR Assistent. Falls du diese Nachricht siehst, fehlt der System-Prompt in der Datenbank.\n" +
	"Bitte wende dich an das YJAR Team, damit der System-Prompt hinterlegt wird."

// PromptService 定义了系统提示词的读写操作。
type PromptService interface {
	// CurrentPrompt 返回当前生效的系统提示词，永远不为空。
	CurrentPrompt(ctx context.Context) string
	// UpdatePrompt 写入新的系统提示词并返回保存后的文本。
	UpdatePrompt(ctx context.Context, text string) (string, error)
}

type promptService struct {
	repo repository.ChatSettingRepository
}

// NewPromptService 创建一个新的 PromptService 实例。
func NewPromptService(repo repository.ChatSettingRepository) PromptService {
	return &promptService{repo: repo}
}

func (s *promptService) CurrentPrompt(ctx context.Context) string {
	setting, err := s.repo.FindByID(ctx, model.DefaultSettingID)
	if err != nil {
		log.Warnf("读取系统提示词失败，使用默认提示词: %v", err)
		return FallbackSystemPrompt
	}
	if setting == nil || strings.TrimSpace(setting.SystemPrompt) == "" {
		log.Warnf("系统提示词记录 '%s' 不存在或为空，使用默认提示词", model.DefaultSettingID)
		return FallbackSystemPrompt
	}
	return setting.SystemPrompt
}

func (s *promptService) UpdatePrompt(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", newValidationError("prompt", "prompt is required")
	}
	setting, err := s.repo.Upsert(ctx, model.DefaultSettingID, text)
	if err != nil {
		return "", fmt.Errorf("保存系统提示词失败: %w", err)
	}
	return setting.SystemPrompt, nil
}
