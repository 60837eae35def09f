// Package paymenttest provides an in-memory payment.Provider for tests.
package paymenttest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"socialdesk/pkg/payment"
)

var ErrProviderDown = errors.New("provider unavailable")

// Provider records every call. Fields ending in Err force the matching call to fail.
type Provider struct {
	mu sync.Mutex

	Balance int64
	Event   *payment.Event

	IntentErr   error
	TransferErr error
	PayoutErr   error
	BalanceErr  error
	AccountErr  error

	Intents   []payment.PaymentIntentInput
	Transfers []payment.TransferInput
	Payouts   []payment.PayoutInput
	Accounts  []string

	seq int
}

var _ payment.Provider = (*Provider)(nil)

func New() *Provider {
	return &Provider{Balance: 1_000_000}
}

func (p *Provider) next(prefix string) string {
	p.seq++
	return fmt.Sprintf("%s_%d", prefix, p.seq)
}

func (p *Provider) CreatePaymentIntent(_ context.Context, in payment.PaymentIntentInput) (*payment.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.IntentErr != nil {
		return nil, p.IntentErr
	}
	p.Intents = append(p.Intents, in)
	id := p.next("pi")
	return &payment.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
		Amount:       in.AmountMinor,
		Currency:     in.Currency,
		Metadata:     in.Metadata,
	}, nil
}

// ConstructEvent accepts the signature "valid" and returns Event.
func (p *Provider) ConstructEvent(_ []byte, signature string) (*payment.Event, error) {
	if signature != "valid" {
		return nil, payment.ErrInvalidSignature
	}
	if p.Event == nil {
		return nil, fmt.Errorf("no event configured")
	}
	return p.Event, nil
}

func (p *Provider) CreateConnectAccount(_ context.Context, email string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.AccountErr != nil {
		return "", p.AccountErr
	}
	p.Accounts = append(p.Accounts, email)
	return p.next("acct"), nil
}

func (p *Provider) CreateAccountLink(_ context.Context, accountID string) (string, error) {
	return "https://connect.example.com/onboard/" + accountID, nil
}

func (p *Provider) CreateTransfer(_ context.Context, in payment.TransferInput) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.TransferErr != nil {
		return "", p.TransferErr
	}
	p.Transfers = append(p.Transfers, in)
	p.Balance -= in.AmountMinor
	return p.next("tr"), nil
}

func (p *Provider) CreatePayout(_ context.Context, in payment.PayoutInput) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.PayoutErr != nil {
		return "", p.PayoutErr
	}
	p.Payouts = append(p.Payouts, in)
	return p.next("po"), nil
}

func (p *Provider) AvailableBalance(_ context.Context, _ string) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.BalanceErr != nil {
		return 0, p.BalanceErr
	}
	return p.Balance, nil
}

func (p *Provider) TransferCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Transfers)
}
