package model

import "time"

// DefaultSettingID 是系统提示词记录的默认主键。
const DefaultSettingID = "default"

// ChatSetting 对应 chat_settings 表，每个 ID 一条记录。
type ChatSetting struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	SystemPrompt string    `gorm:"type:text" json:"systemPrompt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (ChatSetting) TableName() string {
	return "chat_settings"
}
