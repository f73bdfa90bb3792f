// Package webhook 提供了向外部自动化工作流（n8n 等）发送 JSON 通知的客户端。
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Poster 定义了 webhook 投递的接口，便于在 service 中替换为测试实现。
type Poster interface {
	Post(ctx context.Context, url string, payload any) (json.RawMessage, error)
}

// Client 是一个简单的 JSON webhook 客户端。
type Client struct {
	httpClient *http.Client
}

// NewClient 创建一个新的 webhook 客户端。timeout 为 0 时不设置超时。
func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// Post 以 JSON 形式发送 payload，返回响应体。
// 响应体不是合法 JSON 时返回 "{}"，非 2xx 状态码视为错误。
func (c *Client) Post(ctx context.Context, url string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化 webhook 请求体失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建 webhook 请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("调用 webhook 失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取 webhook 响应失败: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook 返回错误 [%d]: %s", resp.StatusCode, string(respBody))
	}

	if len(bytes.TrimSpace(respBody)) == 0 || !json.Valid(respBody) {
		return json.RawMessage("{}"), nil
	}
	return json.RawMessage(respBody), nil
}
