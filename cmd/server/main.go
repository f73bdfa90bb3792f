// Package main 是应用程序的入口点。
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"site-assistant-go/internal/config"
	"site-assistant-go/internal/handler"
	"site-assistant-go/internal/pipeline"
	"site-assistant-go/internal/repository"
	"site-assistant-go/internal/service"
	"site-assistant-go/pkg/database"
	"site-assistant-go/pkg/kafka"
	"site-assistant-go/pkg/llm"
	"site-assistant-go/pkg/log"
	"site-assistant-go/pkg/storage"
	"site-assistant-go/pkg/webhook"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 0. 读取 .env（可选）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "加载 .env 失败: %v\n", err)
	}

	// 1. 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}
	config.Init(configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	if err := log.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis 和对象存储
	database.InitMySQL(cfg.Database.MySQL.DSN)
	if err := database.Migrate(database.DB); err != nil {
		log.Fatal("数据库迁移失败", err)
	}
	database.InitRedis(cfg.Database.Redis)
	defer database.CloseRedis()
	var archiver service.Archiver
	if cfg.MinIO.Endpoint != "" {
		storage.InitMinIO(cfg.MinIO)
		archiver = storage.NewArchiver(storage.MinioClient, cfg.MinIO.BucketName)
	} else {
		log.Info("未配置 MinIO，清理时不归档聊天记录")
	}

	// 4. 初始化 Repository
	chatMessageRepo := repository.NewChatMessageRepository(database.DB)
	chatSettingRepo := repository.NewChatSettingRepository(database.DB)
	feedbackRepo := repository.NewFeedbackRepository(database.DB)
	leadRepo := repository.NewLeadRepository(database.DB)
	supportRepo := repository.NewSupportTicketRepository(database.DB)

	// 5. 初始化 Service (依赖注入)
	llmClient := llm.NewClient(cfg.LLM)
	poster := webhook.NewClient(cfg.Forwarding.Timeout)
	promptService := service.NewPromptService(chatSettingRepo)
	conversationService := service.NewConversationService(chatMessageRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo)
	leadService := service.NewLeadService(leadRepo, poster, cfg.Forwarding.LeadWebhookURL)
	supportService := service.NewSupportService(supportRepo, poster, cfg.Forwarding.SupportWebhookURL)
	cleanupService := service.NewCleanupService(chatMessageRepo, cfg.Cleanup.Retention(), archiver, nil)

	// 6. 初始化后台转发流程
	processor := pipeline.NewProcessor(conversationService, supportService, leadService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	var (
		dispatcher      service.TaskDispatcher
		closeDispatcher func(context.Context)
	)
	if cfg.Kafka.Brokers != "" {
		producer := kafka.NewDispatcher(cfg.Kafka)
		consumer := kafka.NewConsumer(cfg.Kafka, cfg.Forwarding, processor, database.RDB, pipeline.IsPermanent)
		g.Go(func() error {
			consumer.Run(gctx)
			return nil
		})
		dispatcher = producer
		closeDispatcher = func(context.Context) {
			if err := producer.Close(); err != nil {
				log.Error("关闭 Kafka 生产者失败", err)
			}
		}
	} else {
		queue := pipeline.NewQueue(processor, cfg.Forwarding)
		dispatcher = queue
		closeDispatcher = queue.Close
	}

	intentClassifier := service.NewIntentClassifier(llmClient, cfg.LLM.ClassifierModel)
	chatService := service.NewChatService(intentClassifier, promptService, llmClient, dispatcher)

	// 7. 设置 Gin 模式并注册路由
	gin.SetMode(cfg.Server.Mode)
	r := handler.NewRouter(cfg.Auth, cfg.CORS, handler.Handlers{
		Chat:         handler.NewChatHandler(chatService),
		Conversation: handler.NewConversationHandler(conversationService),
		Feedback:     handler.NewFeedbackHandler(feedbackService),
		Lead:         handler.NewLeadHandler(leadService),
		Support:      handler.NewSupportHandler(supportService),
		Cleanup:      handler.NewCleanupHandler(cleanupService),
		Admin:        handler.NewAdminHandler(promptService),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	// 8. 启动 HTTP 服务器、定时清理，并实现优雅停机
	g.Go(func() error {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP 服务监听失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		cleanupService.RunSchedule(gctx, cfg.Cleanup.Interval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("接收到停机信号，正在关闭服务...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("服务异常退出", err)
	}

	// 排空后台队列中剩余的任务
	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	closeDispatcher(drainCtx)
	log.Info("服务已优雅关闭")
}
