package service

import (
	"context"
	"encoding/json"
	"fmt"
	"site-assistant-go/internal/model"
	"site-assistant-go/pkg/llm"
	"site-assistant-go/pkg/tasks"
	"strings"
	"sync"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库共享缓存下串行访问，避免后台协程与断言并发时出现表锁
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.ChatMessage{},
		&model.Feedback{},
		&model.Lead{},
		&model.SupportTicket{},
		&model.ChatSetting{},
	))
	return db
}

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Complete(ctx context.Context, messages []llm.Message, gen *llm.GenerationParams) (string, error) {
	args := m.Called(ctx, messages, gen)
	return args.String(0), args.Error(1)
}

// isClassifierCall 匹配意图分类请求
func isClassifierCall(msgs []llm.Message) bool {
	return len(msgs) == 2 && msgs[0].Content == intentInstruction
}

// isGeneratorCall 匹配回答生成请求
func isGeneratorCall(msgs []llm.Message) bool {
	return len(msgs) == 3
}

type mockPoster struct {
	mock.Mock
}

func (m *mockPoster) Post(ctx context.Context, url string, payload any) (json.RawMessage, error) {
	args := m.Called(ctx, url, payload)
	body, _ := args.Get(0).(json.RawMessage)
	return body, args.Error(1)
}

type recordingDispatcher struct {
	mu    sync.Mutex
	tasks []tasks.ForwardTask
}

func (d *recordingDispatcher) Dispatch(task tasks.ForwardTask) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append(d.tasks, task)
}

func (d *recordingDispatcher) kinds() []tasks.Kind {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]tasks.Kind, 0, len(d.tasks))
	for _, t := range d.tasks {
		out = append(out, t.Kind)
	}
	return out
}

func strPtr(s string) *string { return &s }
