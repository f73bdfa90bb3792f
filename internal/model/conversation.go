// Package model 包含了应用的数据模型定义。
package model

import "time"

// 历史记录中的角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage 对应 chat_messages 表，每一轮问答一行。
// 只追加，除按时间批量清理外不做更新或删除。
type ChatMessage struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID   string    `gorm:"type:varchar(128);index;not null" json:"sessionId"`
	UserMessage string    `gorm:"type:text" json:"userMessage"`
	BotAnswer   string    `gorm:"type:text" json:"botAnswer"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// HistoryEntry 是返回给前端的一条历史消息。
type HistoryEntry struct {
	Role      string    `json:"role"` // "user" 或 "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entries 把一行问答展开为 user / assistant 两条消息，只有一侧有内容时只返回一条。
func (m ChatMessage) Entries() []HistoryEntry {
	out := make([]HistoryEntry, 0, 2)
	if m.UserMessage != "" {
		out = append(out, HistoryEntry{Role: RoleUser, Content: m.UserMessage, CreatedAt: m.CreatedAt})
	}
	if m.BotAnswer != "" {
		out = append(out, HistoryEntry{Role: RoleAssistant, Content: m.BotAnswer, CreatedAt: m.CreatedAt})
	}
	return out
}
