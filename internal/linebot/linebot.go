package linebot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"translate_bot/internal/linebot/settings"
	"translate_bot/internal/logger"
	"translate_bot/internal/metrics"
)

// Config LINE Bot HTTP 服务配置
type Config struct {
	ChannelSecret  string // 用于校验 X-Line-Signature
	MetricsEnabled bool   // 是否注册 /metrics
}

// HealthChecker 外部依赖的健康检查（例如 MongoDB）
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Bot LINE webhook 服务
type Bot struct {
	channelSecret string
	dispatcher    *Dispatcher
	store         *settings.Store
	pool          *WorkerPool
	metrics       *metrics.Metrics
	database      HealthChecker
	startTime     time.Time
	engine        *gin.Engine
}

// New 创建 LINE Bot 服务并注册路由
// m 和 database 可为 nil
func New(cfg Config, dispatcher *Dispatcher, m *metrics.Metrics, database HealthChecker) (*Bot, error) {
	if cfg.ChannelSecret == "" {
		return nil, fmt.Errorf("LINE channel secret cannot be empty")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher cannot be nil")
	}

	gin.SetMode(gin.ReleaseMode)

	b := &Bot{
		channelSecret: cfg.ChannelSecret,
		dispatcher:    dispatcher,
		store:         dispatcher.store,
		pool:          dispatcher.pool,
		metrics:       m,
		database:      database,
		startTime:     time.Now(),
		engine:        gin.New(),
	}

	b.registerRoutes(cfg.MetricsEnabled && m != nil)

	logger.L().Info("LINE bot initialized successfully")
	return b, nil
}

// registerRoutes 注册所有 HTTP 路由
func (b *Bot) registerRoutes(withMetrics bool) {
	b.engine.Use(Recovery(), RequestLogger())

	b.engine.GET("/", b.handleIndex)
	b.engine.GET("/healthz", b.handleHealth)
	b.engine.POST("/webhook", b.handleWebhook)

	if withMetrics {
		b.engine.GET("/metrics", gin.WrapH(b.metrics.Handler()))
	}

	logger.L().Debug("All routes registered")
}

// Handler 返回 HTTP 处理器
func (b *Bot) Handler() http.Handler {
	return b.engine
}

// handleIndex 返回固定的运行状态文本
func (b *Bot) handleIndex(c *gin.Context) {
	c.String(http.StatusOK, IndexText)
}
