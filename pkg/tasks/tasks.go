// Package tasks defines the structure for forwarding tasks handed to the background queue.
package tasks

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind 表示任务类型。
type Kind string

const (
	KindTranscript Kind = "transcript"
	KindSupport    Kind = "support"
	KindLead       Kind = "lead"
)

// ForwardTask 是一次聊天请求产生的副作用，按 Kind 只填写对应的 payload。
type ForwardTask struct {
	ID         string             `json:"id"`
	Kind       Kind               `json:"kind"`
	Transcript *TranscriptPayload `json:"transcript,omitempty"`
	Support    *SupportPayload    `json:"support,omitempty"`
	Lead       *LeadPayload       `json:"lead,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// TranscriptPayload 是一轮问答的聊天记录。
type TranscriptPayload struct {
	SessionID   string `json:"sessionId"`
	UserMessage string `json:"userMessage"`
	BotAnswer   string `json:"botAnswer"`
}

// SupportPayload 是发送到支持工作流 webhook 的请求体。
type SupportPayload struct {
	SessionID    *string         `json:"sessionId"`
	Summary      *string         `json:"summary"`
	ContactName  *string         `json:"contactName"`
	ContactEmail *string         `json:"contactEmail"`
	ContactPhone *string         `json:"contactPhone"`
	LastMessages json.RawMessage `json:"lastMessages"`
	Message      string          `json:"message"`
	URL          *string         `json:"url"`
	UserAgent    *string         `json:"userAgent"`
	Consent      bool            `json:"consent"`
}

// LeadPayload 是发送到线索工作流 webhook（或直接入库）的数据。
type LeadPayload struct {
	SessionIDHash *string `json:"sessionIdHash"`
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Message       string  `json:"message"`
	Source        string  `json:"source"`
	Consent       bool    `json:"consent"`
}

func newTask(kind Kind) ForwardTask {
	return ForwardTask{ID: uuid.NewString(), Kind: kind, CreatedAt: time.Now()}
}

// NewTranscriptTask 创建一个聊天记录写入任务。
func NewTranscriptTask(p TranscriptPayload) ForwardTask {
	t := newTask(KindTranscript)
	t.Transcript = &p
	return t
}

// NewSupportTask 创建一个支持请求转发任务。
func NewSupportTask(p SupportPayload) ForwardTask {
	t := newTask(KindSupport)
	t.Support = &p
	return t
}

// NewLeadTask 创建一个线索转发任务。
func NewLeadTask(p LeadPayload) ForwardTask {
	t := newTask(KindLead)
	t.Lead = &p
	return t
}
