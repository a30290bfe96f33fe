package linebot

import (
	"context"
	"errors"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// ErrEmptyReplyToken 事件没有可用的 reply token
var ErrEmptyReplyToken = errors.New("empty reply token")

// LineReplier 通过 LINE Messaging API 回复文本消息
type LineReplier struct {
	client *messaging_api.MessagingApiAPI
}

// NewLineReplier 创建 LINE 回复客户端
func NewLineReplier(channelToken string, opts ...messaging_api.MessagingApiAPIOption) (*LineReplier, error) {
	if channelToken == "" {
		return nil, fmt.Errorf("LINE channel access token cannot be empty")
	}

	client, err := messaging_api.NewMessagingApiAPI(channelToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}

	return &LineReplier{client: client}, nil
}

// Reply 使用 reply token 回复一条文本消息
func (r *LineReplier) Reply(ctx context.Context, replyToken, text string) error {
	if replyToken == "" {
		return ErrEmptyReplyToken
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// WithContext 会修改客户端本身，复制一份避免并发回复互相覆盖 ctx
	client := *r.client
	_, err := client.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			&messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}

	return nil
}
