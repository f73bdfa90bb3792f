package handler

import (
	"net/http"
	"site-assistant-go/internal/config"
	"site-assistant-go/internal/middleware"
	"site-assistant-go/pkg/metrics"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers 汇总了注册路由所需的全部 handler。
type Handlers struct {
	Chat         *ChatHandler
	Conversation *ConversationHandler
	Feedback     *FeedbackHandler
	Lead         *LeadHandler
	Support      *SupportHandler
	Cleanup      *CleanupHandler
	Admin        *AdminHandler
}

// NewRouter 创建路由引擎并注册所有接口。
func NewRouter(auth config.AuthConfig, corsCfg config.CORSConfig, h Handlers) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiKey := middleware.SharedSecretAuth(middleware.HeaderAPIKey, auth.InternalAPIKey)
	serviceKey := middleware.SharedSecretAuth(middleware.HeaderInternalAPIKey, auth.ServiceAPIKey)
	adminToken := middleware.SharedSecretAuth(middleware.HeaderAdminToken, auth.AdminToken)
	cronSecret := middleware.BearerSecretAuth(auth.CronSecret)

	api := r.Group("/api")
	{
		api.GET("/chat", Health)
		api.POST("/chat", apiKey, h.Chat.Chat)
		api.POST("/history", apiKey, h.Conversation.History)
		api.GET("/feedback", Health)
		api.POST("/feedback", apiKey, h.Feedback.Record)

		// 服务间调用
		api.POST("/leads", serviceKey, h.Lead.Create)
		api.POST("/support", serviceKey, h.Support.Create)

		api.POST("/cleanup", apiKey, h.Cleanup.Cleanup)
		api.GET("/cron", cronSecret, h.Cleanup.Cron)

		// 管理后台跨域访问，401 响应同样带 CORS 头
		admin := api.Group("/admin", cors.New(adminCORS(corsCfg)))
		for _, path := range []string{"", "/prompt"} {
			admin.OPTIONS(path, func(c *gin.Context) { c.Status(http.StatusNoContent) })
			admin.GET(path, adminToken, h.Admin.GetPrompt)
			admin.POST(path, adminToken, h.Admin.UpdatePrompt)
		}
	}
	return r
}

func adminCORS(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", middleware.HeaderAdminToken},
		MaxAge:       12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}
	return c
}
