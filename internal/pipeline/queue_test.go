package pipeline

import (
	"context"
	"errors"
	"fmt"
	"site-assistant-go/internal/config"
	"site-assistant-go/pkg/tasks"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProcessor struct {
	mu       sync.Mutex
	attempts map[string]int
	failN    int
	err      error
	block    chan struct{}
}

func (p *scriptedProcessor) Process(_ context.Context, task tasks.ForwardTask) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.attempts == nil {
		p.attempts = map[string]int{}
	}
	p.attempts[task.ID]++
	if p.attempts[task.ID] <= p.failN {
		return p.err
	}
	return nil
}

func (p *scriptedProcessor) count(id string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts[id]
}

func testForwardingConfig() config.ForwardingConfig {
	return config.ForwardingConfig{Workers: 2, QueueSize: 8, MaxAttempts: 3, RetryBackoff: time.Millisecond}
}

func transcriptTask() tasks.ForwardTask {
	return tasks.NewTranscriptTask(tasks.TranscriptPayload{SessionID: "s", UserMessage: "q", BotAnswer: "a"})
}

func TestQueue_RetriesUntilSuccess(t *testing.T) {
	p := &scriptedProcessor{failN: 2, err: errors.New("temporary")}
	q := NewQueue(p, testForwardingConfig())
	task := transcriptTask()

	q.Dispatch(task)
	q.Close(context.Background())
	assert.Equal(t, 3, p.count(task.ID))
}

func TestQueue_GivesUpAfterMaxAttempts(t *testing.T) {
	p := &scriptedProcessor{failN: 10, err: errors.New("down")}
	q := NewQueue(p, testForwardingConfig())
	task := transcriptTask()

	q.Dispatch(task)
	q.Close(context.Background())
	assert.Equal(t, 3, p.count(task.ID))
}

func TestQueue_PermanentErrorIsNotRetried(t *testing.T) {
	p := &scriptedProcessor{failN: 10, err: fmt.Errorf("%w: bad payload", ErrPermanent)}
	q := NewQueue(p, testForwardingConfig())
	task := transcriptTask()

	q.Dispatch(task)
	q.Close(context.Background())
	assert.Equal(t, 1, p.count(task.ID))
}

func TestQueue_DispatchNeverBlocksWhenFull(t *testing.T) {
	block := make(chan struct{})
	p := &scriptedProcessor{block: block}
	q := NewQueue(p, config.ForwardingConfig{Workers: 1, QueueSize: 1, MaxAttempts: 1})

	var dispatched atomic.Int32
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			q.Dispatch(transcriptTask())
			dispatched.Add(1)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
	assert.Equal(t, int32(10), dispatched.Load())
	close(block)
	q.Close(context.Background())
}

func TestQueue_DispatchAfterCloseIsDropped(t *testing.T) {
	p := &scriptedProcessor{}
	q := NewQueue(p, testForwardingConfig())
	q.Close(context.Background())

	task := transcriptTask()
	require.NotPanics(t, func() { q.Dispatch(task) })
	assert.Zero(t, p.count(task.ID))
}
