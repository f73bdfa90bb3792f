package storage

import (
	"context"
	"errors"
	"io"
	"site-assistant-go/internal/model"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	bucket, object, contentType string
	body                        string
	err                         error
}

func (f *fakePutter) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	b, _ := io.ReadAll(reader)
	f.bucket, f.object, f.contentType, f.body = bucketName, objectName, opts.ContentType, string(b)
	return minio.UploadInfo{Bucket: bucketName, Key: objectName}, nil
}

func TestArchiver_WritesJSONL(t *testing.T) {
	putter := &fakePutter{}
	a := NewArchiver(putter, "chat-archive")
	a.now = func() time.Time { return time.Date(2026, 5, 2, 3, 0, 0, 0, time.UTC) }

	object, err := a.Archive(context.Background(), []model.ChatMessage{
		{ID: 1, SessionID: "s1", UserMessage: "q1", BotAnswer: "a1"},
		{ID: 2, SessionID: "s2", UserMessage: "q2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "chat-archive", putter.bucket)
	assert.Equal(t, object, putter.object)
	assert.True(t, strings.HasPrefix(object, "chat-messages/2026-05-02/"))
	assert.Equal(t, "application/x-ndjson", putter.contentType)

	lines := strings.Split(strings.TrimSpace(putter.body), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"sessionId":"s1"`)
	assert.Contains(t, lines[1], `"userMessage":"q2"`)
}

func TestArchiver_PutError(t *testing.T) {
	a := NewArchiver(&fakePutter{err: errors.New("access denied")}, "b")
	_, err := a.Archive(context.Background(), []model.ChatMessage{{ID: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
