// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"
	"site-assistant-go/pkg/log"
	"strings"

	"github.com/gin-gonic/gin"
)

// 共享密钥使用的请求头
const (
	HeaderAPIKey         = "x-api-key"
	HeaderInternalAPIKey = "x-internal-api-key"
	HeaderAdminToken     = "x-admin-token"
)

// SecretCheck 是一次共享密钥比对的结果。
type SecretCheck int

const (
	SecretOK SecretCheck = iota
	// SecretUnconfigured 表示服务端未配置密钥，一律拒绝。
	SecretUnconfigured
	SecretMismatch
)

// CheckSecret 比较请求携带的密钥与配置值，两者都去掉首尾空白后必须非空且完全相等。
func CheckSecret(presented, expected string) SecretCheck {
	expected = strings.TrimSpace(expected)
	if expected == "" {
		return SecretUnconfigured
	}
	presented = strings.TrimSpace(presented)
	if presented == "" || presented != expected {
		return SecretMismatch
	}
	return SecretOK
}

// SharedSecretAuth 校验指定请求头中的共享密钥。
func SharedSecretAuth(header, secret string) gin.HandlerFunc {
	return secretGate(header, secret, func(c *gin.Context) string {
		return c.GetHeader(header)
	})
}

// BearerSecretAuth 校验 "Authorization: Bearer <secret>"。
func BearerSecretAuth(secret string) gin.HandlerFunc {
	return secretGate("Authorization", secret, func(c *gin.Context) string {
		const bearerPrefix = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return ""
		}
		return strings.TrimPrefix(authHeader, bearerPrefix)
	})
}

func secretGate(name, secret string, extract func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch CheckSecret(extract(c), secret) {
		case SecretUnconfigured:
			log.Errorf("密钥未配置, header: %s, path: %s", name, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server misconfigured"})
			return
		case SecretMismatch:
			log.Warnf("未授权的请求, path: %s, clientIP: %s", c.Request.URL.Path, c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
