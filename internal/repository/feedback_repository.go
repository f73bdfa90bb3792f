package repository

import (
	"context"
	"site-assistant-go/internal/model"

	"gorm.io/gorm"
)

// FeedbackRepository 定义了用户评价的持久化操作。
type FeedbackRepository interface {
	Create(ctx context.Context, fb *model.Feedback) error
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository 创建一个新的 FeedbackRepository 实例。
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, fb *model.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}
