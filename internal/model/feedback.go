package model

import "time"

// Vote 是用户对一条回答的评价。
type Vote string

const (
	VoteUp   Vote = "up"
	VoteDown Vote = "down"
)

// Valid 判断评价是否为允许的两个值之一。
func (v Vote) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Feedback 对应 feedback 表。同一会话、同一消息可以重复投票。
type Feedback struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionIDHash string    `gorm:"type:varchar(128);index;not null" json:"sessionIdHash"`
	MessageID     string    `gorm:"type:varchar(128);not null" json:"messageId"`
	Vote          Vote      `gorm:"type:varchar(8);not null" json:"vote"`
	Comment       *string   `gorm:"type:text" json:"comment"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Feedback) TableName() string {
	return "feedback"
}
