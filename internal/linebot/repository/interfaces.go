package repository

import (
	"context"

	"translate_bot/internal/linebot/models"
)

// TranslationRecordRepository 翻译记录数据访问接口
type TranslationRecordRepository interface {
	// Create 保存一条翻译记录（相同 event_id 重复投递时覆盖）
	Create(ctx context.Context, record *models.TranslationRecord) error

	// ListRecent 按时间倒序列出会话最近的翻译记录
	ListRecent(ctx context.Context, conversationID string, limit int64) ([]*models.TranslationRecord, error)

	// EnsureIndexes 确保索引存在，retentionDays 控制 TTL
	EnsureIndexes(ctx context.Context, retentionDays int) error
}
