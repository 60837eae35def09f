package entity

import "time"

// Notification is a message delivered to one user.
type Notification struct {
	ID         string                 `json:"id"`
	SenderID   string                 `json:"sender_id,omitempty"`
	ReceiverID string                 `json:"receiver_id"`
	Text       string                 `json:"text"`
	Type       string                 `json:"type"`
	EntityID   string                 `json:"entity_id,omitempty"`
	IsRead     bool                   `json:"is_read"`
	Data       map[string]interface{} `json:"data,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}
