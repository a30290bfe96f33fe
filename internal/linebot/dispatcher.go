package linebot

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/wiggin77/merror"

	"translate_bot/internal/linebot/command"
	"translate_bot/internal/linebot/models"
	"translate_bot/internal/linebot/settings"
	"translate_bot/internal/logger"
	"translate_bot/internal/metrics"
)

// Translator 翻译服务
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Replier 通过 reply token 回复消息
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// TranslationRecorder 保存翻译记录
type TranslationRecorder interface {
	Create(ctx context.Context, record *models.TranslationRecord) error
}

// DispatcherConfig 创建 Dispatcher 所需的依赖
type DispatcherConfig struct {
	Store      *settings.Store
	Translator Translator
	Replier    Replier
	Pool       *WorkerPool
	Recorder   TranslationRecorder // 可选，nil 表示不记录
	Metrics    *metrics.Metrics    // 可选
	SourceHint bool                // 其他语言时是否猜测源语言
}

// Dispatcher 事件分发器
// 根据事件类型和来源决定回复内容，每个事件最多回复一次
type Dispatcher struct {
	store      *settings.Store
	translator Translator
	replier    Replier
	pool       *WorkerPool
	recorder   TranslationRecorder
	metrics    *metrics.Metrics
	sourceHint bool

	welcomeText     string
	privateHelpText string
}

// NewDispatcher 创建事件分发器
func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("settings store cannot be nil")
	}
	if cfg.Translator == nil {
		return nil, fmt.Errorf("translator cannot be nil")
	}
	if cfg.Replier == nil {
		return nil, fmt.Errorf("replier cannot be nil")
	}
	if cfg.Pool == nil {
		return nil, fmt.Errorf("worker pool cannot be nil")
	}

	return &Dispatcher{
		store:      cfg.Store,
		translator: cfg.Translator,
		replier:    cfg.Replier,
		pool:       cfg.Pool,
		recorder:   cfg.Recorder,
		metrics:    cfg.Metrics,
		sourceHint: cfg.SourceHint,

		welcomeText:     WelcomeText(cfg.Store.DefaultPrefix()),
		privateHelpText: PrivateHelpText(cfg.Store.DefaultPrefix()),
	}, nil
}

// HandleBatch 并发处理一批事件并等待全部完成
// 单个事件失败不影响其他事件，所有失败合并后返回
func (d *Dispatcher) HandleBatch(ctx context.Context, events []models.Event) error {
	results := make([]<-chan error, len(events))
	for i, event := range events {
		results[i] = d.pool.Submit(ctx, event, d.Handle)
	}

	merr := merror.New()
	for i, result := range results {
		if err := <-result; err != nil {
			merr.Append(fmt.Errorf("event %q (%s): %w", events[i].ID, events[i].Type, err))
		}
	}

	return merr.ErrorOrNil()
}

// Handle 处理单个事件，需要回复时调用 Replier
// 翻译记录在回复之后保存，不占用 reply token 的有效时间
func (d *Dispatcher) Handle(ctx context.Context, event models.Event) error {
	log := logger.WithEvent(event.ID, event.Source.ConversationID())
	if event.Redelivery {
		log = log.WithField("is_redelivery", true)
	}

	text, ok, record := d.respond(ctx, event)
	if !ok {
		d.metrics.RecordEvent(string(event.Type), "ignored")
		log.Debugf("No reply for %s event", event.Type)
		return nil
	}

	err := d.replier.Reply(ctx, event.ReplyToken, text)
	d.save(ctx, record)

	if err != nil {
		d.metrics.RecordEvent(string(event.Type), "reply_error")
		log.WithError(err).Error("Failed to send reply")
		return fmt.Errorf("reply failed: %w", err)
	}

	d.metrics.RecordEvent(string(event.Type), "replied")
	log.Debugf("Replied to %s event", event.Type)
	return nil
}

// Reply 计算事件的回复文本，不发送也不保存翻译记录
// 返回 false 表示不需要回复
func (d *Dispatcher) Reply(ctx context.Context, event models.Event) (string, bool) {
	text, ok, _ := d.respond(ctx, event)
	return text, ok
}

// respond 计算回复文本；发生翻译时同时返回待保存的记录
func (d *Dispatcher) respond(ctx context.Context, event models.Event) (string, bool, *models.TranslationRecord) {
	if event.Type == models.EventTypeJoin {
		return d.welcomeText, true, nil
	}

	if !event.IsText() {
		return "", false, nil
	}

	text := event.Text

	switch {
	case event.Source.Type == models.SourceTypeUser:
		if slices.Contains(privateHelpKeywords, text) {
			return d.privateHelpText, true, nil
		}
		reply, record := d.translate(ctx, event, text, false)
		return reply, true, record

	case event.Source.IsMultiPerson():
		conversation := d.store.Get(event.Source.ConversationID())

		if command.IsCommand(text) {
			d.metrics.RecordCommand(command.Name(text))
			reply, ok := command.Handle(text, conversation)
			return reply, ok, nil
		}

		snap := conversation.Snapshot()
		toTranslate, ok := textToTranslate(text, snap)
		if !ok {
			return "", false, nil
		}
		reply, record := d.translate(ctx, event, toTranslate, snap.SilentMode)
		return reply, true, record

	default:
		return "", false, nil
	}
}

// textToTranslate 判断群组消息是否需要翻译以及要翻译的内容
// 自动翻译时翻译全文；否则仅翻译带前缀消息去掉前缀后的部分
func textToTranslate(text string, snap models.SettingsSnapshot) (string, bool) {
	if snap.AutoTranslate {
		return text, text != ""
	}

	if snap.TranslatePrefix == "" || !strings.HasPrefix(text, snap.TranslatePrefix) {
		return "", false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(text, snap.TranslatePrefix))
	return rest, rest != ""
}
