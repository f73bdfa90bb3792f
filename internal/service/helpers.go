package service

import (
	"encoding/json"
	"strings"
)

var emptyJSONArray = json.RawMessage("[]")

// nullIfBlank 去掉首尾空白，空值返回 nil。
func nullIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func isBlank(s *string) bool {
	return nullIfBlank(s) == nil
}
