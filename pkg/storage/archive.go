package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"site-assistant-go/internal/model"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ObjectPutter 是 Archiver 依赖的最小对象写入接口，*minio.Client 满足该接口。
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Archiver 把即将被清理的聊天记录以 JSONL 格式写入对象存储。
type Archiver struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
}

// NewArchiver 创建一个新的 Archiver。
func NewArchiver(client ObjectPutter, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket, now: time.Now}
}

// Archive 写入一个对象并返回对象名。
func (a *Archiver) Archive(ctx context.Context, msgs []model.ChatMessage) (string, error) {
	body, err := EncodeJSONL(msgs)
	if err != nil {
		return "", err
	}
	objectName := fmt.Sprintf("chat-messages/%s/%s.jsonl", a.now().UTC().Format("2006-01-02"), uuid.NewString())
	_, err = a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/x-ndjson",
	})
	if err != nil {
		return "", fmt.Errorf("上传归档文件失败: %w", err)
	}
	return objectName, nil
}

// EncodeJSONL 每行一条记录。
func EncodeJSONL(msgs []model.ChatMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, m := range msgs {
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("序列化聊天记录失败: %w", err)
		}
	}
	return buf.Bytes(), nil
}
