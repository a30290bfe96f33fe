package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"translate_bot/internal/config"
	"translate_bot/internal/linebot"
	"translate_bot/internal/linebot/repository"
	"translate_bot/internal/linebot/settings"
	"translate_bot/internal/logger"
	"translate_bot/internal/metrics"
	"translate_bot/internal/mongo"
	"translate_bot/internal/translation/mymemory"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	indexTimeout      = 10 * time.Second
)

// App 应用服务容器
// 负责管理所有服务的生命周期（初始化、运行、关闭）
type App struct {
	cfg *config.Config

	MongoDB *mongo.Client                          // 未配置 MONGO_URI 时为 nil
	Records repository.TranslationRecordRepository // 未配置 MONGO_URI 时为 nil
	Store   *settings.Store
	Pool    *linebot.WorkerPool
	Metrics *metrics.Metrics
	Bot     *linebot.Bot
}

// New 初始化应用及其所有服务
// 按顺序初始化各个服务，任何服务初始化失败都会清理已初始化的服务并返回错误
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{cfg: cfg}

	if err := app.initHistory(); err != nil {
		return nil, err
	}

	translator, err := mymemory.NewClient(cfg.Translator)
	if err != nil {
		_ = app.Close(context.Background())
		return nil, fmt.Errorf("init translator failed: %w", err)
	}

	replier, err := linebot.NewLineReplier(cfg.LineChannelToken)
	if err != nil {
		_ = app.Close(context.Background())
		return nil, fmt.Errorf("init LINE messaging client failed: %w", err)
	}

	app.Store = settings.NewStore(cfg.DefaultTranslatePrefix)
	app.Metrics = metrics.New(app.Store.Len)
	app.Pool = linebot.NewWorkerPool(cfg.WorkerCount, cfg.WorkerQueueSize)

	dispatcherCfg := linebot.DispatcherConfig{
		Store:      app.Store,
		Translator: translator,
		Replier:    replier,
		Pool:       app.Pool,
		Metrics:    app.Metrics,
		SourceHint: cfg.Translator.SourceHint,
	}
	if app.Records != nil {
		dispatcherCfg.Recorder = app.Records
	}

	dispatcher, err := linebot.NewDispatcher(dispatcherCfg)
	if err != nil {
		_ = app.Close(context.Background())
		return nil, fmt.Errorf("init dispatcher failed: %w", err)
	}

	// 不能直接传 app.MongoDB，nil 指针会变成非 nil 接口
	var database linebot.HealthChecker
	if app.MongoDB != nil {
		database = app.MongoDB
	}

	app.Bot, err = linebot.New(linebot.Config{
		ChannelSecret:  cfg.LineChannelSecret,
		MetricsEnabled: cfg.MetricsEnabled,
	}, dispatcher, app.Metrics, database)
	if err != nil {
		_ = app.Close(context.Background())
		return nil, fmt.Errorf("init LINE bot failed: %w", err)
	}

	return app, nil
}

// NewHistory 只初始化翻译记录存储，供命令行查询使用
func NewHistory(cfg *config.Config) (*App, error) {
	if !cfg.HistoryEnabled() {
		return nil, fmt.Errorf("MONGO_URI is required to query translation history")
	}

	app := &App{cfg: cfg}
	if err := app.initHistory(); err != nil {
		return nil, err
	}
	return app, nil
}

// initHistory 连接 MongoDB 并确保索引存在；未配置时跳过
func (a *App) initHistory() error {
	mongoClient, err := mongo.InitFromConfig(a.cfg)
	if err != nil {
		return fmt.Errorf("init MongoDB failed: %w", err)
	}
	if mongoClient == nil {
		logger.L().Info("MONGO_URI not set, translation history disabled")
		return nil
	}
	a.MongoDB = mongoClient
	logger.L().Info("MongoDB initialized successfully")

	records := repository.NewMongoTranslationRecordRepository(mongoClient.Database())

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	if err := records.EnsureIndexes(ctx, a.cfg.RecordRetentionDays); err != nil {
		_ = a.Close(context.Background())
		return fmt.Errorf("ensure translation record indexes failed: %w", err)
	}
	a.Records = records
	return nil
}

// Run 启动 HTTP 服务，直到 ctx 结束或服务出错
func (a *App) Run(ctx context.Context) error {
	if a.Bot == nil {
		return fmt.Errorf("LINE bot is not initialized")
	}

	server := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.Bot.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Infof("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	logger.L().Info("HTTP server stopped")
	return nil
}

// Close 优雅关闭所有服务
// 应该在应用退出时调用，确保排队中的事件处理完毕、资源正确释放
func (a *App) Close(ctx context.Context) error {
	if a.Pool != nil {
		a.Pool.Shutdown()
	}
	if a.MongoDB != nil {
		if err := a.MongoDB.Close(ctx); err != nil {
			return fmt.Errorf("close MongoDB failed: %w", err)
		}
		a.MongoDB = nil
	}
	return nil
}
