package pipeline

import (
	"context"
	"site-assistant-go/internal/config"
	"site-assistant-go/pkg/log"
	"site-assistant-go/pkg/metrics"
	"site-assistant-go/pkg/tasks"
	"sync"
	"time"
)

// TaskProcessor 定义了可以处理转发任务的组件。
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.ForwardTask) error
}

// Queue 是进程内的后台任务队列：固定数量的 worker，失败按线性退避重试。
type Queue struct {
	processor   TaskProcessor
	tasks       chan tasks.ForwardTask
	maxAttempts int
	backoff     time.Duration
	timeout     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewQueue 创建队列并启动 worker。
func NewQueue(processor TaskProcessor, cfg config.ForwardingConfig) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		processor:   processor,
		tasks:       make(chan tasks.ForwardTask, max(cfg.QueueSize, 1)),
		maxAttempts: max(cfg.MaxAttempts, 1),
		backoff:     cfg.RetryBackoff,
		timeout:     cfg.Timeout,
		ctx:         ctx,
		cancel:      cancel,
	}
	workers := max(cfg.Workers, 1)
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	log.Infof("后台转发队列已启动, workers: %d, 容量: %d", workers, cap(q.tasks))
	return q
}

// Dispatch 非阻塞地提交任务，队列已满或已关闭时丢弃并记录日志。
func (q *Queue) Dispatch(task tasks.ForwardTask) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		log.Warnf("队列已关闭，丢弃任务, ID: %s, Kind: %s", task.ID, task.Kind)
		metrics.ForwardTasks.WithLabelValues(string(task.Kind), metrics.ResultDropped).Inc()
		return
	}
	select {
	case q.tasks <- task:
	default:
		log.Warnf("队列已满，丢弃任务, ID: %s, Kind: %s", task.ID, task.Kind)
		metrics.ForwardTasks.WithLabelValues(string(task.Kind), metrics.ResultDropped).Inc()
	}
}

// Close 停止接收新任务，等待已排队的任务处理完毕或 ctx 到期。
func (q *Queue) Close(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info("后台转发队列已排空")
	case <-ctx.Done():
		log.Warnf("等待后台转发队列超时，剩余任务将被放弃")
	}
	q.cancel()
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()
	for task := range q.tasks {
		q.run(task)
	}
	log.Infof("worker %d 已退出", id)
}

// run 执行一个任务，最多尝试 maxAttempts 次。
func (q *Queue) run(task tasks.ForwardTask) {
	kind := string(task.Kind)
	for attempt := 1; attempt <= q.maxAttempts; attempt++ {
		err := q.processOnce(task)
		if err == nil {
			metrics.ForwardTasks.WithLabelValues(kind, metrics.ResultOK).Inc()
			return
		}
		if IsPermanent(err) {
			metrics.ForwardTasks.WithLabelValues(kind, metrics.ResultFailed).Inc()
			return
		}
		if attempt == q.maxAttempts {
			log.Errorf("任务多次失败(>=%d)，放弃: ID=%s, Kind=%s", q.maxAttempts, task.ID, task.Kind)
			metrics.ForwardTasks.WithLabelValues(kind, metrics.ResultFailed).Inc()
			return
		}
		metrics.ForwardTasks.WithLabelValues(kind, metrics.ResultRetry).Inc()
		select {
		case <-time.After(time.Duration(attempt) * q.backoff):
		case <-q.ctx.Done():
			return
		}
	}
}

func (q *Queue) processOnce(task tasks.ForwardTask) error {
	ctx := q.ctx
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(q.ctx, q.timeout)
		defer cancel()
	}
	return q.processor.Process(ctx, task)
}
