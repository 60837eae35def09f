package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationModel struct {
	ID         string  `gorm:"type:uuid;primary_key"`
	SenderID   *string `gorm:"type:uuid"`
	ReceiverID string  `gorm:"type:uuid;not null;index:idx_notifications_receiver"`
	Text       string  `gorm:"type:text;not null"`
	Type       string  `gorm:"type:varchar(50);not null"`
	EntityID   string  `gorm:"type:varchar(255)"`
	IsRead     bool    `gorm:"not null;default:false"`
	Data       datatypes.JSON
	CreatedAt  time.Time `gorm:"index:idx_notifications_receiver"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (n *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
