package repository

import (
	"context"
	"fmt"
	"time"

	"translate_bot/internal/linebot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTranslationRecordRepository 翻译记录数据访问层（MongoDB 实现）
type MongoTranslationRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoTranslationRecordRepository 创建翻译记录 Repository
func NewMongoTranslationRecordRepository(db *mongo.Database) TranslationRecordRepository {
	return &MongoTranslationRecordRepository{
		collection: db.Collection("translation_records"),
	}
}

// Create 保存翻译记录
// 带 event_id 的记录按 event_id upsert，LINE 重复投递同一事件时只保留一条
func (r *MongoTranslationRecordRepository) Create(ctx context.Context, record *models.TranslationRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	if record.EventID == "" {
		if _, err := r.collection.InsertOne(ctx, record); err != nil {
			return fmt.Errorf("failed to create translation record: %w", err)
		}
		return nil
	}

	filter := bson.M{"event_id": record.EventID}
	update := bson.M{
		"$set": bson.M{
			"conversation_id": record.ConversationID,
			"source_type":     record.SourceType,
			"from":            record.From,
			"to":              record.To,
			"text":            record.Text,
			"translated":      record.Translated,
			"success":         record.Success,
		},
		"$setOnInsert": bson.M{
			"created_at": record.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to create translation record: %w", err)
	}

	return nil
}

// ListRecent 按时间倒序列出会话最近的翻译记录
func (r *MongoTranslationRecordRepository) ListRecent(ctx context.Context, conversationID string, limit int64) ([]*models.TranslationRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list translation records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*models.TranslationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode translation records: %w", err)
	}

	return records, nil
}

// EnsureIndexes 确保索引存在，created_at 上的 TTL 索引负责过期清理
func (r *MongoTranslationRecordRepository) EnsureIndexes(ctx context.Context, retentionDays int) error {
	if retentionDays < 1 {
		return fmt.Errorf("retention days must be >= 1, got %d", retentionDays)
	}

	ttlSeconds := int32(retentionDays * 24 * 60 * 60)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"event_id": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{
				{Key: "conversation_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(ttlSeconds),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
