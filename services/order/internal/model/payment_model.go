package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentTransactionModel struct {
	ID          string          `gorm:"type:uuid;primary_key"`
	UserID      string          `gorm:"type:uuid;index"`
	OrderID     *string         `gorm:"type:uuid;index"`
	ResellerID  *string         `gorm:"type:uuid;index"`
	ProviderRef string          `gorm:"index"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"type:varchar(10)"`
	Status      string          `gorm:"type:varchar(20);not null"`
	Type        string          `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PaymentTransactionModel) TableName() string {
	return "payment_transactions"
}

func (t *PaymentTransactionModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type WebhookEventModel struct {
	ID              string         `gorm:"type:uuid;primary_key"`
	Provider        string         `gorm:"type:varchar(20);not null"`
	ProviderEventID string         `gorm:"uniqueIndex;not null"`
	EventType       string         `gorm:"not null"`
	Payload         datatypes.JSON
	ProcessedAt     *time.Time
	ProcessingError string
	CreatedAt       time.Time
}

func (WebhookEventModel) TableName() string {
	return "webhook_events"
}

func (e *WebhookEventModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
