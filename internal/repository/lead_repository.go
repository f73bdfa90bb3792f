package repository

import (
	"context"
	"site-assistant-go/internal/model"

	"gorm.io/gorm"
)

// LeadRepository 定义了销售线索的持久化操作。
type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository 创建一个新的 LeadRepository 实例。
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}
