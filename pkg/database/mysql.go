// Package database 管理 MySQL 与 Redis 连接。
package database

import (
	"fmt"
	"site-assistant-go/internal/model"
	"site-assistant-go/pkg/log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitMySQL 初始化 MySQL 数据库连接
func InitMySQL(dsn string) {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database", err)
	}

	// 配置连接池
	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("MySQL database connected successfully")
}

// Migrate 为所有模型建表或补齐字段。
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.ChatMessage{},
		&model.Feedback{},
		&model.Lead{},
		&model.SupportTicket{},
		&model.ChatSetting{},
	)
	if err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}
