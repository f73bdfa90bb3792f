package model

import (
	"encoding/json"
	"time"
)

// SupportTicket 对应 support_tickets 表，记录一次支持请求以及转发结果。
type SupportTicket struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID    string          `gorm:"type:varchar(128);index;not null" json:"sessionId"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Email        *string         `gorm:"type:varchar(255)" json:"email"`
	Phone        *string         `gorm:"type:varchar(64)" json:"phone"`
	Message      string          `gorm:"type:text;not null" json:"message"`
	Title        *string         `gorm:"type:varchar(255)" json:"title"`
	LastMessages json.RawMessage `gorm:"type:text" json:"lastMessages"`
	URL          *string         `gorm:"type:varchar(2048)" json:"url"`
	UserAgent    *string         `gorm:"type:varchar(512)" json:"userAgent"`
	Consent      bool            `gorm:"not null;default:false" json:"consent"`
	Forwarded    bool            `gorm:"not null;default:false" json:"forwarded"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}
