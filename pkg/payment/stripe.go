package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeProvider struct {
	api           *client.API
	webhookSecret string
	refreshURL    string
	returnURL     string
}

var _ Provider = (*StripeProvider)(nil)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	RefreshURL    string
	ReturnURL     string
}

func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeProvider{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		refreshURL:    cfg.RefreshURL,
		returnURL:     cfg.ReturnURL,
	}, nil
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.AmountMinor),
		Currency: stripe.String(in.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	if in.IdempotencyKey != "" {
		params.SetIdempotencyKey(in.IdempotencyKey)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return toPaymentIntent(pi), nil
}

func (p *StripeProvider) ConstructEvent(payload []byte, signature string) (*Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event := &Event{
		ID:   evt.ID,
		Type: string(evt.Type),
	}
	if evt.Data == nil {
		return event, nil
	}

	switch {
	case strings.HasPrefix(event.Type, "payment_intent."):
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent: %w", err)
		}
		event.PaymentIntent = toPaymentIntent(&pi)
	case strings.HasPrefix(event.Type, "payout."):
		var po stripe.Payout
		if err := json.Unmarshal(evt.Data.Raw, &po); err != nil {
			return nil, fmt.Errorf("failed to decode payout: %w", err)
		}
		event.Payout = &Payout{
			ID:             po.ID,
			Amount:         po.Amount,
			Currency:       string(po.Currency),
			Status:         string(po.Status),
			FailureMessage: po.FailureMessage,
		}
	}
	return event, nil
}

func (p *StripeProvider) CreateConnectAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	params.Context = ctx

	acct, err := p.api.Accounts.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create connect account: %w", err)
	}
	return acct.ID, nil
}

func (p *StripeProvider) CreateAccountLink(ctx context.Context, accountID string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(p.refreshURL),
		ReturnURL:  stripe.String(p.returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := p.api.AccountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create account link: %w", err)
	}
	return link.URL, nil
}

func (p *StripeProvider) CreateTransfer(ctx context.Context, in TransferInput) (string, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(in.AmountMinor),
		Currency:    stripe.String(in.Currency),
		Destination: stripe.String(in.Destination),
	}
	params.Context = ctx
	params.SetIdempotencyKey(in.IdempotencyKey)

	tr, err := p.api.Transfers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create transfer: %w", err)
	}
	return tr.ID, nil
}

func (p *StripeProvider) CreatePayout(ctx context.Context, in PayoutInput) (string, error) {
	params := &stripe.PayoutParams{
		Amount:   stripe.Int64(in.AmountMinor),
		Currency: stripe.String(in.Currency),
	}
	params.Context = ctx
	params.SetStripeAccount(in.ConnectedAccount)
	params.SetIdempotencyKey(in.IdempotencyKey)

	po, err := p.api.Payouts.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payout: %w", err)
	}
	return po.ID, nil
}

func (p *StripeProvider) AvailableBalance(ctx context.Context, currency string) (int64, error) {
	params := &stripe.BalanceParams{}
	params.Context = ctx

	bal, err := p.api.Balance.Get(params)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve balance: %w", err)
	}

	var total int64
	for _, amt := range bal.Available {
		if strings.EqualFold(string(amt.Currency), currency) {
			total += amt.Amount
		}
	}
	return total, nil
}

func toPaymentIntent(pi *stripe.PaymentIntent) *PaymentIntent {
	return &PaymentIntent{
		ID:             pi.ID,
		ClientSecret:   pi.ClientSecret,
		Status:         string(pi.Status),
		Amount:         pi.Amount,
		AmountReceived: pi.AmountReceived,
		Currency:       string(pi.Currency),
		Metadata:       pi.Metadata,
	}
}
