// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"
	"site-assistant-go/internal/model"
	"site-assistant-go/pkg/llm"
	"site-assistant-go/pkg/log"
	"site-assistant-go/pkg/metrics"
	"site-assistant-go/pkg/tasks"
	"strings"
	"time"
)

// TaskDispatcher 把后台任务交给队列，不能阻塞调用方。
type TaskDispatcher interface {
	Dispatch(task tasks.ForwardTask)
}

// ChatRequest 是一次聊天请求的输入。可选字段未提供时为 nil。
type ChatRequest struct {
	Message   string
	SessionID *string
	Name      *string
	Email     *string
	Phone     *string
	URL       *string
	UserAgent *string
	Consent   bool
}

// ChatReply 是返回给前端的回答。
type ChatReply struct {
	Answer string `json:"answer"`
	Intent string `json:"intent"`
}

// ChatService 定义了聊天操作的接口。
type ChatService interface {
	Reply(ctx context.Context, req ChatRequest) (*ChatReply, error)
}

type chatService struct {
	classifier IntentClassifier
	prompts    PromptService
	llmClient  llm.Client
	dispatcher TaskDispatcher
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(classifier IntentClassifier, prompts PromptService, llmClient llm.Client, dispatcher TaskDispatcher) ChatService {
	return &chatService{
		classifier: classifier,
		prompts:    prompts,
		llmClient:  llmClient,
		dispatcher: dispatcher,
	}
}

// Reply 依次完成意图分类、回答生成，然后把记录和转发交给后台队列。
func (s *chatService) Reply(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, newValidationError("message", "Message is required")
	}

	// 1. 意图分类
	intent, err := s.classifier.Classify(ctx, req.Message)
	if err != nil {
		return nil, err
	}

	// 2. 生成回答
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: s.prompts.CurrentPrompt(ctx)},
		{Role: llm.RoleAssistant, Content: "Interne Info: intent = " + intent},
		{Role: llm.RoleUser, Content: req.Message},
	}
	start := time.Now()
	answer, err := s.llmClient.Complete(ctx, messages, nil)
	metrics.LLMLatency.WithLabelValues("generate").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("生成回答失败: %w", err)
	}
	if answer == "" {
		return nil, ErrEmptyModelOutput
	}

	// 3. 后台任务：回答已经确定，之后的失败不能影响响应
	s.dispatchSideEffects(req, intent, answer)

	metrics.ChatTurns.WithLabelValues(intentLabel(intent)).Inc()
	return &ChatReply{Answer: answer, Intent: intent}, nil
}

func (s *chatService) dispatchSideEffects(req ChatRequest, intent, answer string) {
	sessionID := nullIfBlank(req.SessionID)
	if sessionID != nil {
		s.dispatcher.Dispatch(tasks.NewTranscriptTask(tasks.TranscriptPayload{
			SessionID:   *sessionID,
			UserMessage: req.Message,
			BotAnswer:   answer,
		}))
	}

	switch intent {
	case IntentSupport:
		// 支持工单必须关联会话，没有 sessionId 时不转发
		if sessionID == nil {
			log.Infof("意图为 support 但缺少 sessionId，跳过转发")
			return
		}
		s.dispatcher.Dispatch(tasks.NewSupportTask(tasks.SupportPayload{
			SessionID:    sessionID,
			ContactName:  nullIfBlank(req.Name),
			ContactEmail: nullIfBlank(req.Email),
			ContactPhone: nullIfBlank(req.Phone),
			LastMessages: emptyJSONArray,
			Message:      req.Message,
			URL:          nullIfBlank(req.URL),
			UserAgent:    nullIfBlank(req.UserAgent),
			Consent:      req.Consent,
		}))
	case IntentLead:
		s.dispatcher.Dispatch(tasks.NewLeadTask(tasks.LeadPayload{
			SessionIDHash: sessionID,
			Name:          nullIfBlank(req.Name),
			Email:         nullIfBlank(req.Email),
			Phone:         nullIfBlank(req.Phone),
			Message:       req.Message,
			Source:        model.DefaultLeadSource,
			Consent:       req.Consent,
		}))
	default:
		log.Infof("意图为 '%s'，无需转发", intent)
	}
}

// intentLabel 把未知标签归到 other，避免指标基数失控。
func intentLabel(intent string) string {
	switch intent {
	case IntentLead, IntentSupport:
		return intent
	default:
		return IntentOther
	}
}
