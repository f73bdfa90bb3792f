package repository

import (
	"context"
	"site-assistant-go/internal/model"

	"gorm.io/gorm"
)

// SupportTicketRepository 定义了支持工单的持久化操作。
type SupportTicketRepository interface {
	Create(ctx context.Context, ticket *model.SupportTicket) error
	MarkForwarded(ctx context.Context, id uint) error
}

type supportTicketRepository struct {
	db *gorm.DB
}

// NewSupportTicketRepository 创建一个新的 SupportTicketRepository 实例。
func NewSupportTicketRepository(db *gorm.DB) SupportTicketRepository {
	return &supportTicketRepository{db: db}
}

func (r *supportTicketRepository) Create(ctx context.Context, ticket *model.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// MarkForwarded 标记工单已成功转发到外部工作流。
func (r *supportTicketRepository) MarkForwarded(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.SupportTicket{}).
		Where("id = ?", id).
		Update("forwarded", true).Error
}
