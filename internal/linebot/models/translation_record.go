package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TranslationRecord 翻译记录（仅用于审计，配置不会落库）
type TranslationRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	EventID        string             `bson:"event_id,omitempty"` // webhookEventId，重复投递时用于去重
	ConversationID string             `bson:"conversation_id"`    // 群组/房间/用户 ID
	SourceType     SourceType         `bson:"source_type"`        // user/group/room
	From           string             `bson:"from"`               // 源语言
	To             string             `bson:"to"`                 // 目标语言
	Text           string             `bson:"text"`               // 原文
	Translated     string             `bson:"translated,omitempty"`
	Success        bool               `bson:"success"`
	CreatedAt      time.Time          `bson:"created_at"`
}
