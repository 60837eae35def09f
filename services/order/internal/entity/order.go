package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPaid = "paid"
	PaymentStatusDue  = "due"
)

const (
	SubscriptionStatusActive  = "active"
	SubscriptionStatusExpired = "expired"
)

type Order struct {
	ID              string          `json:"id"`
	PackageName     string          `json:"package_name"`
	Amount          decimal.Decimal `json:"ammount"`
	UserID          string          `json:"user_id"`
	UserName        string          `json:"user_name"`
	UserEmail       string          `json:"user_email"`
	OrderStatus     string          `json:"order_status"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentIntentID *string         `json:"payment_intent_id,omitempty"`
	SubscriptionID  *string         `json:"subscription_id,omitempty"`
	Details         []*OrderDetail  `json:"order_details,omitempty"`
	Subscription    *Subscription   `json:"subscription,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderDetail is a price snapshot of one purchased tier; it is never updated.
type OrderDetail struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	ServiceID     string          `json:"service_id"`
	ServiceTierID string          `json:"service_tier_id"`
	ServiceName   string          `json:"service_name"`
	TierName      string          `json:"tier_name"`
	Quantity      int             `json:"quantity"`
	PostCount     int             `json:"post_count"`
	ServicePrice  decimal.Decimal `json:"service_price"`
}

type Subscription struct {
	ID      string    `json:"id"`
	OrderID string    `json:"order_id"`
	UserID  string    `json:"user_id"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	Status  string    `json:"status"`
}

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	UserType string `json:"user_type"`
}

// Tier is a service tier joined with its service name.
type Tier struct {
	ID          string
	ServiceID   string
	ServiceName string
	Name        string
	Price       decimal.Decimal
	PostQuota   int
}
