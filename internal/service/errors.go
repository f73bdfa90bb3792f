package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyModelOutput 表示模型返回了空回答，整个聊天请求视为失败。
	ErrEmptyModelOutput = errors.New("empty response from model")
	// ErrWebhookNotConfigured 表示需要转发但没有配置 webhook 地址。
	ErrWebhookNotConfigured = errors.New("n8n webhook is not configured")
)

// ValidationError 表示请求字段不满足要求，对应 400。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError 判断 err 是否为 ValidationError。
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
