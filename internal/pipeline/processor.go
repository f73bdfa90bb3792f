// Package pipeline 定义了聊天请求之后的后台转发流程。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"site-assistant-go/internal/service"
	"site-assistant-go/pkg/log"
	"site-assistant-go/pkg/tasks"
)

// ErrPermanent 标记不应重试的失败（字段缺失、未配置 webhook 等）。
var ErrPermanent = errors.New("permanent task failure")

// IsPermanent 判断任务失败是否不需要重试。
func IsPermanent(err error) bool {
	return errors.Is(err, ErrPermanent)
}

// Processor 封装了后台任务的所有依赖和逻辑。
type Processor struct {
	conversations service.ConversationService
	support       service.SupportService
	leads         service.LeadService
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(
	conversations service.ConversationService,
	support service.SupportService,
	leads service.LeadService,
) *Processor {
	return &Processor{
		conversations: conversations,
		support:       support,
		leads:         leads,
	}
}

// Process 按任务类型执行一次处理。
func (p *Processor) Process(ctx context.Context, task tasks.ForwardTask) error {
	log.Infof("[Processor] 开始处理任务, ID: %s, Kind: %s", task.ID, task.Kind)

	var err error
	switch task.Kind {
	case tasks.KindTranscript:
		if task.Transcript == nil {
			return missingPayload(task)
		}
		t := task.Transcript
		err = p.conversations.Append(ctx, t.SessionID, t.UserMessage, t.BotAnswer)
	case tasks.KindSupport:
		if task.Support == nil {
			return missingPayload(task)
		}
		err = p.support.Forward(ctx, *task.Support)
	case tasks.KindLead:
		if task.Lead == nil {
			return missingPayload(task)
		}
		err = p.leads.Forward(ctx, *task.Lead)
	default:
		return fmt.Errorf("%w: 未知任务类型 '%s'", ErrPermanent, task.Kind)
	}

	if err != nil {
		if service.IsValidationError(err) || errors.Is(err, service.ErrWebhookNotConfigured) {
			err = fmt.Errorf("%w: %w", ErrPermanent, err)
		}
		log.Errorf("[Processor] 任务处理失败, ID: %s, Kind: %s, Error: %v", task.ID, task.Kind, err)
		return err
	}
	log.Infof("[Processor] 任务处理成功, ID: %s, Kind: %s", task.ID, task.Kind)
	return nil
}

func missingPayload(task tasks.ForwardTask) error {
	return fmt.Errorf("%w: 任务 %s 缺少 %s payload", ErrPermanent, task.ID, task.Kind)
}
