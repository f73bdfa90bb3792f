package repository

import (
	"context"
	"errors"
	"site-assistant-go/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatSettingRepository 定义了系统提示词配置的读写操作。
type ChatSettingRepository interface {
	// FindByID 返回指定记录；不存在时返回 (nil, nil)。
	FindByID(ctx context.Context, id string) (*model.ChatSetting, error)
	// Upsert 以 ID 为键写入提示词，不存在时创建。
	Upsert(ctx context.Context, id, prompt string) (*model.ChatSetting, error)
}

type chatSettingRepository struct {
	db *gorm.DB
}

// NewChatSettingRepository 创建一个新的 ChatSettingRepository 实例。
func NewChatSettingRepository(db *gorm.DB) ChatSettingRepository {
	return &chatSettingRepository{db: db}
}

func (r *chatSettingRepository) FindByID(ctx context.Context, id string) (*model.ChatSetting, error) {
	var setting model.ChatSetting
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *chatSettingRepository) Upsert(ctx context.Context, id, prompt string) (*model.ChatSetting, error) {
	setting := &model.ChatSetting{
		ID:           id,
		SystemPrompt: prompt,
		UpdatedAt:    time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"system_prompt", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}
