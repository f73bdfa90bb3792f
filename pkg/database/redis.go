package database

import (
	"context"
	"site-assistant-go/internal/config"
	"site-assistant-go/pkg/log"
	"time"

	"github.com/go-redis/redis/v8"
)

// RDB 只用于记录转发任务的失败次数，未配置 Redis 时为 nil。
var RDB *redis.Client

const redisPingTimeout = 3 * time.Second

// InitRedis 按配置连接 Redis，地址为空时跳过。
func InitRedis(cfg config.RedisConfig) {
	if cfg.Addr == "" {
		log.Info("未配置 Redis，跳过初始化")
		return
	}
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to redis", err)
	}
	log.Infof("Redis 已连接: %s (db %d)", cfg.Addr, cfg.DB)
}

// CloseRedis 关闭 Redis 连接。
func CloseRedis() {
	if RDB == nil {
		return
	}
	if err := RDB.Close(); err != nil {
		log.Error("关闭 Redis 连接失败", err)
	}
}
