package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderModel struct {
	ID              string             `gorm:"type:uuid;primary_key"`
	PackageName     string             `gorm:"not null"`
	Amount          decimal.Decimal    `gorm:"column:ammount;type:decimal(12,2);not null"`
	UserID          string             `gorm:"type:uuid;not null;index"`
	UserName        string
	UserEmail       string
	OrderStatus     string             `gorm:"type:varchar(20);not null"`
	PaymentStatus   string             `gorm:"type:varchar(20);not null"`
	PaymentIntentID *string            `gorm:"uniqueIndex"`
	SubscriptionID  *string            `gorm:"type:uuid"`
	Details         []OrderDetailModel `gorm:"foreignKey:OrderID"`
	Subscription    *SubscriptionModel `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

func (o *OrderModel) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

type OrderDetailModel struct {
	ID            string          `gorm:"type:uuid;primary_key"`
	OrderID       string          `gorm:"type:uuid;not null;index"`
	ServiceID     string          `gorm:"type:uuid;not null"`
	ServiceTierID string          `gorm:"type:uuid;not null"`
	ServiceName   string
	TierName      string
	Quantity      int             `gorm:"not null;default:1"`
	PostCount     int             `gorm:"not null;default:0"`
	ServicePrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time
}

func (OrderDetailModel) TableName() string {
	return "order_details"
}

func (d *OrderDetailModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

type SubscriptionModel struct {
	ID        string    `gorm:"type:uuid;primary_key"`
	OrderID   string    `gorm:"type:uuid;not null;uniqueIndex"`
	UserID    string    `gorm:"type:uuid;not null;index"`
	StartAt   time.Time `gorm:"not null"`
	EndAt     time.Time `gorm:"not null;index"`
	Status    string    `gorm:"type:varchar(20);not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
