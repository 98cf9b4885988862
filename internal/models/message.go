package models

import "time"

// MessageKind discriminates free-text chat from system-generated lifecycle
// event entries.
type MessageKind string

const (
	MessageChat           MessageKind = "chat"
	MessageEventDelivered MessageKind = "event_delivered"
	MessageEventCompleted MessageKind = "event_completed"
	MessageEventRevision  MessageKind = "event_revision_request"
)

// Message is a chat entry or lifecycle event on an order's conversation.
// Append-only, ordered by creation time, visible to buyer and seller only.
type Message struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string      `json:"order_id" gorm:"index;type:varchar(36)"`
	SenderID  string      `json:"sender_id" gorm:"index;type:varchar(36)"`
	Text      string      `json:"text" gorm:"type:text"`
	Kind      MessageKind `json:"kind" gorm:"type:varchar(32);default:'chat'"`
	CreatedAt time.Time   `json:"created_at"`
}
