package payment

import (
	"context"
	"errors"
)

// Event types the reconciler understands. Anything else is acknowledged and ignored.
const (
	EventPaymentIntentSucceeded      = "payment_intent.succeeded"
	EventPaymentIntentFailed         = "payment_intent.payment_failed"
	EventPaymentIntentCanceled       = "payment_intent.canceled"
	EventPaymentIntentRequiresAction = "payment_intent.requires_action"
	EventPayoutPaid                  = "payout.paid"
	EventPayoutFailed                = "payout.failed"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// Provider is the payment processor as seen by the order and reseller services.
type Provider interface {
	CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntent, error)
	ConstructEvent(payload []byte, signature string) (*Event, error)
	CreateConnectAccount(ctx context.Context, email string) (string, error)
	CreateAccountLink(ctx context.Context, accountID string) (string, error)
	CreateTransfer(ctx context.Context, in TransferInput) (string, error)
	CreatePayout(ctx context.Context, in PayoutInput) (string, error)
	AvailableBalance(ctx context.Context, currency string) (int64, error)
}

type PaymentIntentInput struct {
	AmountMinor    int64
	Currency       string
	Metadata       map[string]string
	IdempotencyKey string
}

type PaymentIntent struct {
	ID             string
	ClientSecret   string
	Status         string
	Amount         int64
	AmountReceived int64
	Currency       string
	Metadata       map[string]string
}

type TransferInput struct {
	AmountMinor    int64
	Currency       string
	Destination    string
	IdempotencyKey string
}

type PayoutInput struct {
	AmountMinor      int64
	Currency         string
	ConnectedAccount string
	IdempotencyKey   string
}

type Payout struct {
	ID             string
	Amount         int64
	Currency       string
	Status         string
	FailureMessage string
}

// Event is a verified webhook event. Exactly one of PaymentIntent or Payout is
// set for the event types above.
type Event struct {
	ID            string
	Type          string
	PaymentIntent *PaymentIntent
	Payout        *Payout
}
