package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionStatusCreated        = "created"
	TransactionStatusPending        = "pending"
	TransactionStatusSucceeded      = "succeeded"
	TransactionStatusFailed         = "failed"
	TransactionStatusCanceled       = "canceled"
	TransactionStatusRequiresAction = "requires_action"
)

const (
	TransactionTypePayment    = "payment"
	TransactionTypeWithdrawal = "withdrawal"
)

type PaymentTransaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	OrderID     *string         `json:"order_id,omitempty"`
	ResellerID  *string         `json:"reseller_id,omitempty"`
	ProviderRef string          `json:"provider_ref"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	Type        string          `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WebhookEvent is the claim record that makes event processing at-most-once.
type WebhookEvent struct {
	ID              string
	Provider        string
	ProviderEventID string
	EventType       string
	Payload         []byte
	ProcessedAt     *time.Time
	ProcessingError string
}
