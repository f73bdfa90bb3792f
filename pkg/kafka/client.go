// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"site-assistant-go/internal/config"
	"site-assistant-go/pkg/log"
	"site-assistant-go/pkg/metrics"
	"site-assistant-go/pkg/tasks"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
)

// TaskProcessor 定义了可以处理转发任务的组件，使消费者与具体流程解耦。
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.ForwardTask) error
}

// PermanentFunc 判断一个失败是否不需要重试。
type PermanentFunc func(err error) bool

// Brokers 把逗号分隔的 broker 列表拆分为切片。
func Brokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Dispatcher 把转发任务写入 Kafka。写入是异步的，不会阻塞聊天请求。
type Dispatcher struct {
	writer *kafka.Writer
}

// NewDispatcher 初始化 Kafka 生产者。
func NewDispatcher(cfg config.KafkaConfig) *Dispatcher {
	w := &kafka.Writer{
		Addr:     kafka.TCP(Brokers(cfg.Brokers)...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Errorf("写入 Kafka 失败, 丢弃 %d 条任务: %v", len(messages), err)
				for _, m := range messages {
					metrics.ForwardTasks.WithLabelValues(kindHeader(m), metrics.ResultDropped).Inc()
				}
			}
		},
	}
	log.Info("Kafka 生产者初始化成功")
	return &Dispatcher{writer: w}
}

// Dispatch 发送一个转发任务到 Kafka。
func (d *Dispatcher) Dispatch(task tasks.ForwardTask) {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		log.Errorf("序列化转发任务失败, ID: %s, Error: %v", task.ID, err)
		return
	}
	err = d.writer.WriteMessages(context.Background(), kafka.Message{
		Key:     []byte(task.ID),
		Value:   taskBytes,
		Headers: []kafka.Header{{Key: "kind", Value: []byte(task.Kind)}},
	})
	if err != nil {
		log.Errorf("提交转发任务到 Kafka 失败, ID: %s, Error: %v", task.ID, err)
	}
}

// Close 刷新缓冲并关闭生产者。
func (d *Dispatcher) Close() error {
	return d.writer.Close()
}

func kindHeader(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "kind" {
			return string(h.Value)
		}
	}
	return "unknown"
}

// messageReader 是消费者依赖的读取与提交接口，*kafka.Reader 满足该接口。
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AttemptCounter 记录每个任务的失败次数。
type AttemptCounter interface {
	Incr(ctx context.Context, taskID string) (int64, error)
	Reset(ctx context.Context, taskID string)
}

// redisCounter 把失败次数保存在 Redis 中，24 小时后过期。
type redisCounter struct {
	rdb *redis.Client
}

func (r redisCounter) Incr(ctx context.Context, taskID string) (int64, error) {
	key := attemptsKey(taskID)
	attempts, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	_ = r.rdb.Expire(ctx, key, 24*time.Hour).Err()
	return attempts, nil
}

func (r redisCounter) Reset(ctx context.Context, taskID string) {
	_ = r.rdb.Del(ctx, attemptsKey(taskID)).Err()
}

// Consumer 从 Kafka 读取转发任务并交给 TaskProcessor 处理。
// 失败次数记录在 AttemptCounter 中，达到上限后提交 offset 放弃该任务。
type Consumer struct {
	reader       messageReader
	topic        string
	processor    TaskProcessor
	counter      AttemptCounter
	maxAttempts  int64
	backoff      time.Duration
	fetchBackoff time.Duration
	permanent    PermanentFunc
}

const (
	minFetchBackoff = time.Second
	maxFetchBackoff = 30 * time.Second
)

// NewConsumer 创建一个消费者。rdb 为 nil 时无法计数，失败的任务不重试。
func NewConsumer(cfg config.KafkaConfig, fwd config.ForwardingConfig, processor TaskProcessor, rdb *redis.Client, permanent PermanentFunc) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  Brokers(cfg.Brokers),
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	var counter AttemptCounter
	if rdb != nil {
		counter = redisCounter{rdb: rdb}
	}
	return newConsumer(r, cfg.Topic, fwd, processor, counter, permanent)
}

func newConsumer(reader messageReader, topic string, fwd config.ForwardingConfig, processor TaskProcessor, counter AttemptCounter, permanent PermanentFunc) *Consumer {
	if permanent == nil {
		permanent = func(error) bool { return false }
	}
	return &Consumer{
		reader:       reader,
		topic:        topic,
		processor:    processor,
		counter:      counter,
		maxAttempts:  int64(max(fwd.MaxAttempts, 1)),
		backoff:      fwd.RetryBackoff,
		fetchBackoff: minFetchBackoff,
		permanent:    permanent,
	}
}

func attemptsKey(taskID string) string {
	return fmt.Sprintf("forward:attempts:%s", taskID)
}

// Run 循环消费直到 ctx 取消。读取失败时退避后继续，不会静默退出。
func (c *Consumer) Run(ctx context.Context) {
	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", c.topic)
	defer func() {
		if err := c.reader.Close(); err != nil {
			log.Errorf("关闭 Kafka 消费者失败: %v", err)
		}
	}()

	wait := c.fetchBackoff
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info("Kafka 消费者已停止")
				return
			}
			log.Errorf("从 Kafka 读取消息失败，%s 后重试: %v", wait, err)
			if !sleepCtx(ctx, wait) {
				log.Info("Kafka 消费者已停止")
				return
			}
			wait = min(wait*2, maxFetchBackoff)
			continue
		}
		wait = c.fetchBackoff

		var task tasks.ForwardTask
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			c.commit(ctx, m)
			continue
		}

		c.handle(ctx, m, task)
	}
}

// handle 处理一条任务，失败时在本地退避重试，直到成功、永久失败或达到次数上限。
func (c *Consumer) handle(ctx context.Context, m kafka.Message, task tasks.ForwardTask) {
	kind := string(task.Kind)
	for {
		err := c.processor.Process(ctx, task)
		if err == nil {
			metrics.ForwardTasks.WithLabelValues(kind, metrics.ResultOK).Inc()
			if c.counter != nil {
				c.counter.Reset(ctx, task.ID)
			}
			c.commit(ctx, m)
			return
		}
		if c.permanent(err) {
			metrics.ForwardTasks.WithLabelValues(kind, metrics.ResultFailed).Inc()
			c.commit(ctx, m)
			return
		}

		attempts, incErr := c.incrAttempts(ctx, task.ID)
		if incErr != nil {
			// 无法计数时按达到上限处理
			log.Errorf("记录任务失败次数出错, ID: %s, Error: %v", task.ID, incErr)
			attempts = c.maxAttempts
		}
		if attempts >= c.maxAttempts {
			log.Errorf("转发任务多次失败(>=%d)，提交 offset 终止重试: ID=%s", c.maxAttempts, task.ID)
			metrics.ForwardTasks.WithLabelValues(kind, metrics.ResultFailed).Inc()
			c.commit(ctx, m)
			return
		}
		metrics.ForwardTasks.WithLabelValues(kind, metrics.ResultRetry).Inc()

		if !sleepCtx(ctx, time.Duration(attempts)*c.backoff) {
			// 不提交 offset，重启后继续处理
			return
		}
	}
}

func (c *Consumer) incrAttempts(ctx context.Context, taskID string) (int64, error) {
	if c.counter == nil {
		return 0, errors.New("redis 未初始化")
	}
	return c.counter.Incr(ctx, taskID)
}

func (c *Consumer) commit(ctx context.Context, m kafka.Message) {
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
	}
}

// sleepCtx 等待 d，ctx 先结束时返回 false。
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
