package service

import (
	"context"
	"fmt"
	"site-assistant-go/pkg/llm"
	"site-assistant-go/pkg/metrics"
	"strings"
	"time"
)

// 意图类别
const (
	IntentLead    = "lead"
	IntentSupport = "support"
	IntentOther   = "other"
)

const intentInstruction = `
Klassifiziere die Nutzeranfrage in genau eine dieser Kategorien:

- "lead" → Nutzer will Zusammenarbeit, Angebot, Preise, Website, Marketing, Automatisierung.
- "support" → Nutzer beschreibt ein Problem, Fehler oder "funktioniert nicht".
- "other" → alle anderen Fragen.

Antwort NUR mit einem der Wörter: lead / support / other.
`

// intentMaxTokens 限制分类回答的长度
const intentMaxTokens = 5

// IntentClassifier 通过一次模型调用给用户消息打上意图标签。
type IntentClassifier interface {
	Classify(ctx context.Context, message string) (string, error)
}

type intentClassifier struct {
	llmClient llm.Client
	model     string
}

// NewIntentClassifier 创建一个新的 IntentClassifier。model 为空时使用客户端默认模型。
func NewIntentClassifier(llmClient llm.Client, model string) IntentClassifier {
	return &intentClassifier{llmClient: llmClient, model: model}
}

// Classify 返回模型给出的标签（去空白并转小写）。
// 输出为空时返回 "other"；不校验是否属于三个标签之一，未知标签在下游自然落入 other 分支。
func (c *intentClassifier) Classify(ctx context.Context, message string) (string, error) {
	maxTokens := intentMaxTokens
	start := time.Now()
	out, err := c.llmClient.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: intentInstruction},
		{Role: llm.RoleUser, Content: message},
	}, &llm.GenerationParams{Model: c.model, MaxTokens: &maxTokens})
	metrics.LLMLatency.WithLabelValues("classify").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("意图分类失败: %w", err)
	}
	intent := strings.ToLower(strings.TrimSpace(out))
	if intent == "" {
		return IntentOther, nil
	}
	return intent, nil
}
