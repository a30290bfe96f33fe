package models

// EventType 事件类型
type EventType string

const (
	EventTypeJoin    EventType = "join"    // Bot 被加入群组/房间
	EventTypeMessage EventType = "message" // 消息事件
	EventTypeOther   EventType = "other"   // 其他暂不处理的事件
)

// SourceType 事件来源类型
type SourceType string

const (
	SourceTypeUser  SourceType = "user"
	SourceTypeGroup SourceType = "group"
	SourceTypeRoom  SourceType = "room"
)

// MessageTypeText 文本消息类型
const MessageTypeText = "text"

// Source 事件来源
type Source struct {
	Type    SourceType
	UserID  string
	GroupID string
	RoomID  string
}

// ConversationID 返回群组 ID 或房间 ID，个人对话返回用户 ID
func (s Source) ConversationID() string {
	switch s.Type {
	case SourceTypeGroup:
		return s.GroupID
	case SourceTypeRoom:
		return s.RoomID
	default:
		return s.UserID
	}
}

// IsMultiPerson 是否为群组或房间
func (s Source) IsMultiPerson() bool {
	return s.Type == SourceTypeGroup || s.Type == SourceTypeRoom
}

// Event 平台推送的单个事件（已从 LINE SDK 类型转换）
type Event struct {
	ID          string // webhookEventId
	Type        EventType
	ReplyToken  string
	Source      Source
	MessageType string // 仅消息事件：text/sticker/image...
	Text        string // 仅文本消息
	Redelivery  bool   // 是否为 LINE 重新投递
}

// IsText 是否为文本消息事件
func (e Event) IsText() bool {
	return e.Type == EventTypeMessage && e.MessageType == MessageTypeText
}
