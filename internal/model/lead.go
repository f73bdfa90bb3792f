package model

import "time"

// DefaultLeadSource 是未指定来源时写入的来源标记。
const DefaultLeadSource = "website-chat"

// Lead 对应 leads 表。可选字段未提供时为 NULL，而不是空字符串。
type Lead struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionIDHash string    `gorm:"type:varchar(128);index;not null" json:"sessionIdHash"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Email         *string   `gorm:"type:varchar(255)" json:"email"`
	Phone         *string   `gorm:"type:varchar(64)" json:"phone"`
	Message       *string   `gorm:"type:text" json:"message"`
	Source        string    `gorm:"type:varchar(64);not null" json:"source"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Lead) TableName() string {
	return "leads"
}
