package service

import (
	"context"
	"fmt"
	"site-assistant-go/internal/model"
	"site-assistant-go/internal/repository"
	"site-assistant-go/pkg/log"
	"site-assistant-go/pkg/metrics"
	"time"
)

// Archiver 在删除前保存即将被清理的聊天记录。
type Archiver interface {
	Archive(ctx context.Context, msgs []model.ChatMessage) (string, error)
}

// CleanupService 定义了聊天记录的过期清理。
type CleanupService interface {
	// Purge 删除创建时间严格早于 now-retention 的记录，返回删除行数。
	Purge(ctx context.Context) (int64, error)
	// RunSchedule 按固定间隔执行 Purge，直到 ctx 取消。
	RunSchedule(ctx context.Context, interval time.Duration)
}

// purgeBatchSize 是归档模式下每批处理的行数
const purgeBatchSize = 500

type cleanupService struct {
	repo      repository.ChatMessageRepository
	retention time.Duration
	archiver  Archiver
	now       func() time.Time
	batchSize int
}

// NewCleanupService 创建一个新的 CleanupService。archiver 可以为 nil，now 为 nil 时使用 time.Now。
func NewCleanupService(repo repository.ChatMessageRepository, retention time.Duration, archiver Archiver, now func() time.Time) CleanupService {
	if now == nil {
		now = time.Now
	}
	return &cleanupService{repo: repo, retention: retention, archiver: archiver, now: now, batchSize: purgeBatchSize}
}

func (s *cleanupService) Purge(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)

	var (
		deleted int64
		err     error
	)
	if s.archiver == nil {
		deleted, err = s.repo.DeleteOlderThan(ctx, cutoff)
	} else {
		deleted, err = s.archiveAndDelete(ctx, cutoff)
	}
	metrics.PurgedMessages.Add(float64(deleted))
	if err != nil {
		if deleted > 0 {
			log.Warnf("聊天记录清理中断，已删除 %d 行", deleted)
		}
		return 0, err
	}
	log.Infof("聊天记录清理完成, cutoff: %s, 删除 %d 行", cutoff.Format(time.RFC3339), deleted)
	return deleted, nil
}

// archiveAndDelete 按 ID 分批归档并删除，每批先归档成功再删除。
// 某一批失败时之前的批次已归档并删除，之后的批次保持不变。
func (s *cleanupService) archiveAndDelete(ctx context.Context, cutoff time.Time) (int64, error) {
	var (
		total   int64
		afterID uint
	)
	for {
		msgs, err := s.repo.FindOlderThan(ctx, cutoff, afterID, s.batchSize)
		if err != nil {
			return total, fmt.Errorf("查询过期聊天记录失败: %w", err)
		}
		if len(msgs) == 0 {
			return total, nil
		}
		object, err := s.archiver.Archive(ctx, msgs)
		if err != nil {
			return total, fmt.Errorf("归档过期聊天记录失败: %w", err)
		}
		log.Infof("已归档 %d 条过期聊天记录到 %s", len(msgs), object)

		ids := make([]uint, 0, len(msgs))
		for _, m := range msgs {
			ids = append(ids, m.ID)
		}
		deleted, err := s.repo.DeleteByIDs(ctx, ids)
		if err != nil {
			return total, fmt.Errorf("删除过期聊天记录失败: %w", err)
		}
		total += deleted
		afterID = ids[len(ids)-1]
		if len(msgs) < s.batchSize {
			return total, nil
		}
	}
}

func (s *cleanupService) RunSchedule(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Infof("聊天记录定时清理已启动, 间隔: %s", interval)

	for {
		select {
		case <-ctx.Done():
			log.Info("聊天记录定时清理已停止")
			return
		case <-ticker.C:
			if _, err := s.Purge(ctx); err != nil {
				log.Error("定时清理聊天记录失败", err)
			}
		}
	}
}
