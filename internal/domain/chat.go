package domain

import "time"

// ChatMessage 会话消息。conversation 不是独立实体，由 conversationId 分组推导。
type ChatMessage struct {
	ID             int       `json:"id"`
	UserID         int       `json:"userId"`
	Content        string    `json:"content"`
	Sender         string    `json:"sender"` // user | ai
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversationId"`
}

// 消息发送方
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Conversation 会话摘要（列表页用，标题取第一条用户消息）
type Conversation struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
