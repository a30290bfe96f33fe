package linebot

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"translate_bot/internal/linebot/models"
	"translate_bot/internal/logger"
)

// handleWebhook 处理 LINE webhook 请求
// 签名校验通过后同步处理整批事件，全部完成才返回 200；任何事件失败返回 500 让 LINE 重新投递
func (b *Bot) handleWebhook(c *gin.Context) {
	cb, err := webhook.ParseRequest(b.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			logger.L().Warn("Invalid webhook signature")
			b.metrics.RecordBatch("invalid_signature")
			c.Status(http.StatusBadRequest)
			return
		}
		logger.L().WithError(err).Error("Failed to parse webhook request")
		b.metrics.RecordBatch("error")
		c.Status(http.StatusInternalServerError)
		return
	}

	events := make([]models.Event, 0, len(cb.Events))
	for _, event := range cb.Events {
		events = append(events, convertEvent(event))
	}

	if err := b.dispatcher.HandleBatch(c.Request.Context(), events); err != nil {
		logger.L().WithError(err).WithField("event_count", len(events)).Error("Failed to handle webhook batch")
		b.metrics.RecordBatch("error")
		c.Status(http.StatusInternalServerError)
		return
	}

	b.metrics.RecordBatch("ok")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// convertEvent 将 LINE SDK 事件转换为内部事件
func convertEvent(event webhook.EventInterface) models.Event {
	switch e := event.(type) {
	case webhook.JoinEvent:
		return models.Event{
			ID:         e.WebhookEventId,
			Type:       models.EventTypeJoin,
			ReplyToken: e.ReplyToken,
			Source:     convertSource(e.Source),
			Redelivery: isRedelivery(e.DeliveryContext),
		}
	case webhook.MessageEvent:
		msgType, text := messageContent(e.Message)
		return models.Event{
			ID:          e.WebhookEventId,
			Type:        models.EventTypeMessage,
			ReplyToken:  e.ReplyToken,
			Source:      convertSource(e.Source),
			MessageType: msgType,
			Text:        text,
			Redelivery:  isRedelivery(e.DeliveryContext),
		}
	default:
		return models.Event{Type: models.EventTypeOther}
	}
}

// messageContent 返回消息类型和文字内容
// Type 字段只在 JSON 解码时填充，已知类型按 Go 类型判断
func messageContent(content webhook.MessageContentInterface) (string, string) {
	switch m := content.(type) {
	case nil:
		return "", ""
	case webhook.TextMessageContent:
		return models.MessageTypeText, m.Text
	case *webhook.TextMessageContent:
		return models.MessageTypeText, m.Text
	case webhook.StickerMessageContent, *webhook.StickerMessageContent:
		return "sticker", ""
	case webhook.ImageMessageContent, *webhook.ImageMessageContent:
		return "image", ""
	case webhook.VideoMessageContent, *webhook.VideoMessageContent:
		return "video", ""
	case webhook.AudioMessageContent, *webhook.AudioMessageContent:
		return "audio", ""
	case webhook.FileMessageContent, *webhook.FileMessageContent:
		return "file", ""
	case webhook.LocationMessageContent, *webhook.LocationMessageContent:
		return "location", ""
	default:
		return content.GetType(), ""
	}
}

func convertSource(source webhook.SourceInterface) models.Source {
	switch s := source.(type) {
	case webhook.UserSource:
		return models.Source{Type: models.SourceTypeUser, UserID: s.UserId}
	case webhook.GroupSource:
		return models.Source{Type: models.SourceTypeGroup, GroupID: s.GroupId, UserID: s.UserId}
	case webhook.RoomSource:
		return models.Source{Type: models.SourceTypeRoom, RoomID: s.RoomId, UserID: s.UserId}
	default:
		return models.Source{}
	}
}

func isRedelivery(ctx *webhook.DeliveryContext) bool {
	return ctx != nil && ctx.IsRedelivery
}
