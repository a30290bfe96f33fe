package linebot

import (
	"context"
	"fmt"
	"time"

	"translate_bot/internal/linebot/detector"
	"translate_bot/internal/linebot/models"
	"translate_bot/internal/logger"
)

// 语言代码（MyMemory langpair 格式）
const (
	LangVietnamese = "vi"
	LangChinese    = "zh-TW"
)

const recordTimeout = 5 * time.Second

// Route 根据文本语言决定翻译方向
// 越南文 → 繁体中文；中文 → 越南文；其他 → 越南文
func Route(text string, sourceHint bool) (from, to string) {
	switch detector.Classify(text) {
	case detector.Vietnamese:
		return LangVietnamese, LangChinese
	case detector.Chinese:
		return LangChinese, LangVietnamese
	default:
		if sourceHint {
			return detector.Hint(text), LangVietnamese
		}
		return detector.AutoSource, LangVietnamese
	}
}

// FormatTranslation 渲染翻译结果，非静音模式下附带原文
func FormatTranslation(to, translated, original string, silent bool) string {
	result := fmt.Sprintf("%s %s", flagFor(to), translated)
	if silent {
		return result
	}
	return fmt.Sprintf("%s\n\n📝 %s", result, original)
}

func flagFor(lang string) string {
	if lang == LangVietnamese {
		return "🇻🇳"
	}
	return "🇹🇼"
}

// translate 执行翻译，返回回复文本和待保存的翻译记录
// 翻译失败只记录日志，对用户返回固定的失败提示
func (d *Dispatcher) translate(ctx context.Context, event models.Event, text string, silent bool) (string, *models.TranslationRecord) {
	from, to := Route(text, d.sourceHint)

	start := time.Now()
	translated, err := d.translator.Translate(ctx, text, from, to)
	elapsed := time.Since(start)

	d.metrics.RecordTranslation(from, to, err == nil, elapsed)

	record := &models.TranslationRecord{
		EventID:        event.ID,
		ConversationID: event.Source.ConversationID(),
		SourceType:     event.Source.Type,
		From:           from,
		To:             to,
		Text:           text,
		Translated:     translated,
		Success:        err == nil,
		CreatedAt:      time.Now(),
	}

	if err != nil {
		logger.WithEvent(event.ID, record.ConversationID).
			WithError(err).
			Warnf("Translation failed: %s|%s", from, to)
		return TranslateFailedText, record
	}

	logger.WithEvent(event.ID, record.ConversationID).
		Infof("Translated %s|%s in %s", from, to, elapsed.Round(time.Millisecond))
	return FormatTranslation(to, translated, text, silent), record
}

// save 保存翻译记录，失败不影响事件处理
func (d *Dispatcher) save(ctx context.Context, record *models.TranslationRecord) {
	if d.recorder == nil || record == nil {
		return
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := d.recorder.Create(recordCtx, record); err != nil {
		logger.WithEvent(record.EventID, record.ConversationID).
			WithError(err).
			Warn("Failed to save translation record")
	}
}
