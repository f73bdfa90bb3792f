// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"site-assistant-go/internal/model"
	"time"

	"gorm.io/gorm"
)

// ChatMessageRepository 定义了聊天记录的持久化操作。
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	FindBySessionID(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	FindOlderThan(ctx context.Context, cutoff time.Time, afterID uint, limit int) ([]model.ChatMessage, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}

type chatMessageRepository struct {
	db *gorm.DB
}

// NewChatMessageRepository 创建一个新的 ChatMessageRepository 实例。
func NewChatMessageRepository(db *gorm.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

// Create 追加一行问答记录。
func (r *chatMessageRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// FindBySessionID 按创建时间升序返回某个会话的全部记录。
func (r *chatMessageRepository) FindBySessionID(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// FindOlderThan 按 ID 升序返回 afterID 之后、创建时间严格早于 cutoff 的记录，最多 limit 条。
func (r *chatMessageRepository) FindOlderThan(ctx context.Context, cutoff time.Time, afterID uint, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("created_at < ? AND id > ?", cutoff, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// DeleteOlderThan 删除创建时间严格早于 cutoff 的记录，返回删除行数。
func (r *chatMessageRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.ChatMessage{})
	return res.RowsAffected, res.Error
}

// DeleteByIDs 按主键批量删除记录。ids 的数量受数据库绑定变量上限约束，调用方需要分批。
func (r *chatMessageRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Delete(&model.ChatMessage{}, ids)
	return res.RowsAffected, res.Error
}
