package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config 应用程序配置
type Config struct {
	LineChannelToken  string // LINE Messaging API Channel Access Token
	LineChannelSecret string // LINE Channel Secret（用于校验 webhook 签名）
	Port              string // HTTP 监听端口
	MetricsEnabled    bool   // 是否暴露 /metrics

	DefaultTranslatePrefix string // 新会话默认的翻译触发前缀

	WorkerCount     int // 事件处理 worker 数量
	WorkerQueueSize int // 事件队列长度

	MongoURI            string // MongoDB 连接 URI，为空时不记录翻译历史
	MongoDBName         string // MongoDB 数据库名称
	RecordRetentionDays int    // 翻译记录保留天数（过期自动删除）

	Translator TranslatorConfig
}

// TranslatorConfig MyMemory 翻译服务配置
type TranslatorConfig struct {
	BaseURL    string // 接口地址
	Email      string // 可选，MyMemory 使用邮箱提升免费额度
	SourceHint bool   // 无法识别中越文时是否用 whatlanggo 猜测源语言
}

const (
	defaultPort          = "3000"
	defaultMongoDBName   = "translate_bot"
	defaultTranslatorURL = "https://api.mymemory.translated.net/get"
)

// LoadDotEnv 从 .env.local / .env 加载环境变量（已存在的变量不会被覆盖）
func LoadDotEnv() error {
	for _, path := range []string{".env.local", ".env"} {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		LineChannelToken:       strings.TrimSpace(os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")),
		LineChannelSecret:      strings.TrimSpace(os.Getenv("LINE_CHANNEL_SECRET")),
		Port:                   envOrDefault("PORT", defaultPort),
		DefaultTranslatePrefix: envOrDefault("DEFAULT_TRANSLATE_PREFIX", "@翻譯"),
		MongoURI:               strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDBName:            envOrDefault("MONGO_DB_NAME", defaultMongoDBName),
		Translator: TranslatorConfig{
			BaseURL: envOrDefault("TRANSLATOR_BASE_URL", defaultTranslatorURL),
			Email:   strings.TrimSpace(os.Getenv("TRANSLATOR_EMAIL")),
		},
	}

	var err error
	if cfg.MetricsEnabled, err = parseBool("METRICS_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.Translator.SourceHint, err = parseBool("TRANSLATOR_SOURCE_HINT", false); err != nil {
		return nil, err
	}
	if cfg.WorkerCount, err = parsePositiveInt("WORKER_COUNT", 8); err != nil {
		return nil, err
	}
	if cfg.WorkerQueueSize, err = parsePositiveInt("WORKER_QUEUE_SIZE", 64); err != nil {
		return nil, err
	}
	// 解析RECORD_RETENTION_DAYS（默认7天）
	if cfg.RecordRetentionDays, err = parsePositiveInt("RECORD_RETENTION_DAYS", 7); err != nil {
		return nil, err
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("failed to parse PORT: %w", err)
	}

	return cfg, nil
}

// Validate 检查启动 webhook 服务所需的配置
func (c *Config) Validate() error {
	if c.LineChannelToken == "" {
		return fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN is required")
	}
	if c.LineChannelSecret == "" {
		return fmt.Errorf("LINE_CHANNEL_SECRET is required")
	}
	return nil
}

// HistoryEnabled 是否启用翻译历史记录
func (c *Config) HistoryEnabled() bool {
	return c.MongoURI != ""
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return value, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	if value < 1 {
		return 0, fmt.Errorf("%s must be >= 1, got %d", key, value)
	}
	return value, nil
}
