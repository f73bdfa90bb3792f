// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 全局配置变量，存储启动时加载并校验过的设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Auth       AuthConfig       `mapstructure:"auth"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Forwarding ForwardingConfig `mapstructure:"forwarding"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Cleanup    CleanupConfig    `mapstructure:"cleanup"`
	CORS       CORSConfig       `mapstructure:"cors"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。Addr 为空时不启用 Redis。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// AuthConfig 存放各个接口使用的共享密钥。
// 这里的空值不会导致启动失败：对应的接口会在请求时拒绝访问并记录配置错误。
type AuthConfig struct {
	InternalAPIKey string `mapstructure:"internal_api_key"`
	ServiceAPIKey  string `mapstructure:"service_api_key"`
	AdminToken     string `mapstructure:"admin_token"`
	CronSecret     string `mapstructure:"cron_secret"`
}

// LLMConfig 存储大语言模型相关的配置。
type LLMConfig struct {
	APIKey          string              `mapstructure:"api_key"`
	BaseURL         string              `mapstructure:"base_url"`
	Model           string              `mapstructure:"model"`
	ClassifierModel string              `mapstructure:"classifier_model"`
	Generation      LLMGenerationConfig `mapstructure:"generation"`
}

// LLMGenerationConfig 配置生成相关参数（可选）。
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// ForwardingConfig 配置 lead / support 转发以及后台队列。
type ForwardingConfig struct {
	SupportWebhookURL string        `mapstructure:"support_webhook_url"`
	LeadWebhookURL    string        `mapstructure:"lead_webhook_url"`
	Workers           int           `mapstructure:"workers"`
	QueueSize         int           `mapstructure:"queue_size"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	RetryBackoff      time.Duration `mapstructure:"retry_backoff"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// KafkaConfig 存储 Kafka 相关的配置。Brokers 为空时使用进程内队列。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。Endpoint 为空时不归档被清理的聊天记录。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// CleanupConfig 配置聊天记录的保留策略。
type CleanupConfig struct {
	RetentionDays int           `mapstructure:"retention_days"`
	Interval      time.Duration `mapstructure:"interval"`
}

// CORSConfig 配置管理接口的跨域访问。
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Retention 返回聊天记录的保留时长。
func (c CleanupConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// legacyEnv 把部署环境里沿用的扁平变量名映射到配置键上。
var legacyEnv = map[string][]string{
	"server.port":                    {"SERVER_PORT", "PORT"},
	"server.mode":                    {"GIN_MODE"},
	"database.mysql.dsn":             {"DB_DSN"},
	"database.redis.addr":            {"REDIS_ADDR"},
	"database.redis.password":        {"REDIS_PASSWORD"},
	"database.redis.db":              {"REDIS_DB"},
	"log.level":                      {"LOG_LEVEL"},
	"log.format":                     {"LOG_FORMAT"},
	"auth.internal_api_key":          {"INTERNAL_API_KEY"},
	"auth.service_api_key":           {"SERVICE_API_KEY"},
	"auth.admin_token":               {"ADMIN_PROMPT_TOKEN"},
	"auth.cron_secret":               {"CRON_SECRET"},
	"llm.api_key":                    {"OPENAI_API_KEY"},
	"llm.base_url":                   {"OPENAI_BASE_URL"},
	"llm.model":                      {"OPENAI_MODEL"},
	"forwarding.support_webhook_url": {"N8N_SUPPORT_WEBHOOK_URL"},
	"forwarding.lead_webhook_url":    {"N8N_LEAD_WEBHOOK_URL"},
	"kafka.brokers":                  {"KAFKA_BROKERS"},
	"kafka.topic":                    {"KAFKA_TOPIC"},
	"minio.endpoint":                 {"MINIO_ENDPOINT"},
	"minio.access_key_id":            {"MINIO_ACCESS_KEY_ID"},
	"minio.secret_access_key":        {"MINIO_SECRET_ACCESS_KEY"},
	"minio.bucket_name":              {"MINIO_BUCKET"},
	"cors.allow_origins":             {"CORS_ALLOW_ORIGINS"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4.1")
	v.SetDefault("forwarding.workers", 2)
	v.SetDefault("forwarding.queue_size", 256)
	v.SetDefault("forwarding.max_attempts", 3)
	v.SetDefault("forwarding.retry_backoff", 2*time.Second)
	v.SetDefault("forwarding.timeout", 10*time.Second)
	v.SetDefault("kafka.topic", "chat-forwarding")
	v.SetDefault("kafka.group_id", "site-assistant-forwarder")
	v.SetDefault("minio.bucket_name", "chat-archive")
	v.SetDefault("cleanup.retention_days", 30)
	v.SetDefault("cors.allow_origins", []string{"*"})
}

// Load 从指定路径读取 YAML（文件不存在时跳过），叠加环境变量后解析并校验配置。
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("绑定环境变量失败 %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Init 加载配置到全局变量 Conf，失败时直接 panic。
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = cfg
}

func (c *Config) normalize() {
	c.Auth.InternalAPIKey = strings.TrimSpace(c.Auth.InternalAPIKey)
	c.Auth.ServiceAPIKey = strings.TrimSpace(c.Auth.ServiceAPIKey)
	c.Auth.AdminToken = strings.TrimSpace(c.Auth.AdminToken)
	c.Auth.CronSecret = strings.TrimSpace(c.Auth.CronSecret)
	// 服务间调用未单独配置密钥时沿用内部密钥
	if c.Auth.ServiceAPIKey == "" {
		c.Auth.ServiceAPIKey = c.Auth.InternalAPIKey
	}
	if c.LLM.ClassifierModel == "" {
		c.LLM.ClassifierModel = c.LLM.Model
	}
	// 环境变量中的逗号分隔列表
	var origins []string
	for _, o := range c.CORS.AllowOrigins {
		for _, p := range strings.Split(o, ",") {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
	}
	c.CORS.AllowOrigins = origins
}

// Validate 检查启动所必需的配置项。共享密钥不在此校验。
func (c Config) Validate() error {
	var errs []error
	if c.Database.MySQL.DSN == "" {
		errs = append(errs, errors.New("database.mysql.dsn 未配置"))
	}
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("llm.api_key 未配置"))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model 未配置"))
	}
	if c.Forwarding.Workers <= 0 {
		errs = append(errs, errors.New("forwarding.workers 必须大于 0"))
	}
	if c.Forwarding.MaxAttempts <= 0 {
		errs = append(errs, errors.New("forwarding.max_attempts 必须大于 0"))
	}
	// Kafka 消费者依赖 Redis 记录失败次数
	if c.Kafka.Brokers != "" && c.Database.Redis.Addr == "" {
		errs = append(errs, errors.New("启用 kafka.brokers 时必须配置 database.redis.addr"))
	}
	if c.Cleanup.RetentionDays <= 0 {
		errs = append(errs, errors.New("cleanup.retention_days 必须大于 0"))
	}
	return errors.Join(errs...)
}
