package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/metrics"
	"socialdesk/pkg/money"
	"socialdesk/pkg/notify"
	"socialdesk/pkg/payment"
	"socialdesk/services/order/internal/entity"
	"socialdesk/services/order/internal/repo/cache"
	"socialdesk/services/order/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const providerName = "stripe"

type PayInput struct {
	UserID      string
	PackageName string
	Items       []entity.LineItem
}

type PayResult struct {
	ClientSecret    string          `json:"client_secret"`
	PaymentIntentID string          `json:"payment_intent_id"`
	OrderID         string          `json:"order_id"`
	Amount          decimal.Decimal `json:"amount"`
	AmountMinor     int64           `json:"amount_minor"`
	Currency        string          `json:"currency"`
}

type ReconcileResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Duplicate bool   `json:"duplicate"`
	OrderID   string `json:"order_id,omitempty"`
}

type PaymentUseCase interface {
	Pay(ctx context.Context, in PayInput) (*PayResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*ReconcileResult, error)
	Reconcile(ctx context.Context, event *payment.Event, payload []byte) (*ReconcileResult, error)
	ListTransactions(ctx context.Context, limit, offset int) ([]*entity.PaymentTransaction, error)
}

type paymentUseCase struct {
	orderRepo   persistent.OrderRepository
	paymentRepo persistent.PaymentRepository
	transactor  persistent.Transactor
	pricing     PricingUseCase
	provider    payment.Provider
	replay      cache.ReplayCache
	publisher   notify.Publisher
	currency    string
	logger      *logger.Logger
	now         func() time.Time
}

func NewPaymentUseCase(
	orderRepo persistent.OrderRepository,
	paymentRepo persistent.PaymentRepository,
	transactor persistent.Transactor,
	pricing PricingUseCase,
	provider payment.Provider,
	replay cache.ReplayCache,
	publisher notify.Publisher,
	currency string,
	logger *logger.Logger,
) PaymentUseCase {
	return &paymentUseCase{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		transactor:  transactor,
		pricing:     pricing,
		provider:    provider,
		replay:      replay,
		publisher:   publisher,
		currency:    currency,
		logger:      logger,
		now:         time.Now,
	}
}

// Pay prices the items and opens a payment intent. The order itself is created
// by the webhook once the provider confirms the payment.
func (uc *paymentUseCase) Pay(ctx context.Context, in PayInput) (*PayResult, error) {
	if in.PackageName == "" {
		return nil, apperror.Validation("Package name is required")
	}

	user, err := uc.orderRepo.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}

	quote, err := uc.pricing.Resolve(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	amountMinor := money.ToMinor(quote.Total)
	if amountMinor <= 0 {
		return nil, apperror.Validation("Order total must be greater than zero")
	}

	orderID := uuid.New().String()
	intent, err := uc.provider.CreatePaymentIntent(ctx, payment.PaymentIntentInput{
		AmountMinor:    amountMinor,
		Currency:       uc.currency,
		Metadata:       encodeMetadata(orderID, in.PackageName, user.ID, quote),
		IdempotencyKey: "order:" + orderID,
	})
	if err != nil {
		uc.logger.Error("Failed to create payment intent for user %s: %v", user.ID, err)
		return nil, apperror.Provider(err, "Failed to create payment intent")
	}

	transaction := &entity.PaymentTransaction{
		UserID:      user.ID,
		OrderID:     &orderID,
		ProviderRef: intent.ID,
		Amount:      quote.Total,
		Currency:    uc.currency,
		Status:      entity.TransactionStatusCreated,
		Type:        entity.TransactionTypePayment,
	}
	if err := uc.paymentRepo.CreateTransaction(ctx, transaction); err != nil {
		// the webhook inserts the row if it is still missing
		uc.logger.Error("Failed to record payment transaction for intent %s: %v", intent.ID, err)
	}

	uc.logger.Info("Payment intent %s created for order %s, amount=%d %s", intent.ID, orderID, amountMinor, uc.currency)

	return &PayResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		OrderID:         orderID,
		Amount:          quote.Total,
		AmountMinor:     amountMinor,
		Currency:        uc.currency,
	}, nil
}

func (uc *paymentUseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) (*ReconcileResult, error) {
	event, err := uc.provider.ConstructEvent(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			uc.logger.Warn("[WEBHOOK] Rejected event with invalid signature")
			metrics.WebhookEvents.WithLabelValues("unknown", "invalid_signature").Inc()
			return nil, err
		}
		return nil, apperror.Validation("Malformed webhook event: %v", err)
	}
	return uc.Reconcile(ctx, event, payload)
}

// Reconcile applies a verified event at most once. The event id is claimed in
// the same transaction as the state change, so a rolled back attempt can be retried.
func (uc *paymentUseCase) Reconcile(ctx context.Context, event *payment.Event, payload []byte) (*ReconcileResult, error) {
	result := &ReconcileResult{EventID: event.ID, EventType: event.Type}
	if event.ID == "" {
		return nil, apperror.Validation("Webhook event has no id")
	}

	if uc.replay.Seen(ctx, event.ID) {
		uc.logger.Info("[WEBHOOK] Event %s already processed (cache)", event.ID)
		metrics.WebhookEvents.WithLabelValues(event.Type, "duplicate").Inc()
		result.Duplicate = true
		return result, nil
	}

	processedAt := uc.now()
	record := &entity.WebhookEvent{
		Provider:        providerName,
		ProviderEventID: event.ID,
		EventType:       event.Type,
		Payload:         payload,
		ProcessedAt:     &processedAt,
	}

	var placed *entity.Order
	var adminID string
	err := uc.transactor.WithinTransaction(ctx, func(orders persistent.OrderRepository, payments persistent.PaymentRepository) error {
		claimed, err := payments.ClaimEvent(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to claim webhook event: %w", err)
		}
		if !claimed {
			result.Duplicate = true
			return nil
		}

		switch event.Type {
		case payment.EventPaymentIntentSucceeded:
			placed, adminID, err = uc.applySucceeded(ctx, orders, payments, event.PaymentIntent)
			return err
		case payment.EventPaymentIntentFailed:
			return uc.applyFailed(ctx, orders, payments, event.PaymentIntent)
		case payment.EventPaymentIntentCanceled:
			return uc.markTransaction(ctx, payments, event.PaymentIntent, entity.TransactionStatusCanceled, nil)
		case payment.EventPaymentIntentRequiresAction:
			return uc.markTransaction(ctx, payments, event.PaymentIntent, entity.TransactionStatusRequiresAction, nil)
		case payment.EventPayoutPaid, payment.EventPayoutFailed:
			uc.logPayout(event)
			return nil
		default:
			uc.logger.Info("[WEBHOOK] Ignoring unhandled event type %s (%s)", event.Type, event.ID)
			return nil
		}
	})
	if err != nil {
		if apperror.IsPermanent(err) {
			uc.recordRejected(ctx, record, err)
			metrics.WebhookEvents.WithLabelValues(event.Type, "rejected").Inc()
		} else {
			metrics.WebhookEvents.WithLabelValues(event.Type, "error").Inc()
		}
		uc.logger.Error("[WEBHOOK] Failed to process event %s (%s): %v", event.ID, event.Type, err)
		return nil, err
	}

	uc.replay.Remember(ctx, event.ID)

	if result.Duplicate {
		uc.logger.Info("[WEBHOOK] Event %s already processed", event.ID)
		metrics.WebhookEvents.WithLabelValues(event.Type, "duplicate").Inc()
		return result, nil
	}

	metrics.WebhookEvents.WithLabelValues(event.Type, "processed").Inc()
	if placed != nil {
		result.OrderID = placed.ID
		metrics.OrdersCreated.WithLabelValues("webhook").Inc()
		publishOrderPlaced(ctx, uc.publisher, uc.logger, adminID, placed)
		uc.publish(ctx, notify.Event{
			SenderID:   adminID,
			ReceiverID: placed.UserID,
			Text:       fmt.Sprintf("Payment of %s received", placed.Amount.StringFixed(2)),
			Type:       notify.TypePaymentSucceeded,
			EntityID:   placed.ID,
			Priority:   5,
		})
	}
	return result, nil
}

func (uc *paymentUseCase) applySucceeded(ctx context.Context, orders persistent.OrderRepository, payments persistent.PaymentRepository, pi *payment.PaymentIntent) (*entity.Order, string, error) {
	if pi == nil {
		return nil, "", apperror.Validation("Event has no payment intent")
	}

	existing, err := orders.GetOrderByPaymentIntent(ctx, pi.ID)
	if err == nil {
		uc.logger.Info("[WEBHOOK] Order %s already exists for intent %s", existing.ID, pi.ID)
		return nil, "", uc.markTransaction(ctx, payments, pi, entity.TransactionStatusSucceeded, &existing.ID)
	}
	if !errors.Is(err, persistent.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to look up order by intent: %w", err)
	}

	meta, err := decodeMetadata(pi.Metadata)
	if err != nil {
		return nil, "", err
	}

	purchaser, err := orders.GetUser(ctx, meta.UserID)
	if err != nil {
		return nil, "", notFoundOr(err, "Purchaser not found")
	}
	admin, err := orders.FindAdmin(ctx)
	if err != nil {
		return nil, "", notFoundOr(err, "Admin user not found")
	}

	charged := pi.AmountReceived
	if charged == 0 {
		charged = pi.Amount
	}
	order, err := placeOrder(ctx, orders, purchaser, CreateOrderInput{
		OrderID:         meta.OrderID,
		PurchaserID:     purchaser.ID,
		PackageName:     meta.PackageName,
		Items:           meta.Items,
		PaymentIntentID: pi.ID,
		PaymentStatus:   entity.PaymentStatusPaid,
		ChargedMinor:    charged,
	}, uc.now())
	if err != nil {
		if apperror.KindOf(err) == apperror.KindValidation {
			uc.logger.Warn("[WEBHOOK] Rejecting intent %s for order %s: %v", pi.ID, meta.OrderID, err)
		}
		return nil, "", err
	}

	if err := orders.SetUserType(ctx, purchaser.ID, "client"); err != nil {
		return nil, "", fmt.Errorf("failed to update purchaser type: %w", err)
	}

	if err := uc.markTransaction(ctx, payments, pi, entity.TransactionStatusSucceeded, &order.ID); err != nil {
		return nil, "", err
	}

	uc.logger.Info("[WEBHOOK] Order %s created from intent %s", order.ID, pi.ID)
	return order, admin.ID, nil
}

func (uc *paymentUseCase) applyFailed(ctx context.Context, orders persistent.OrderRepository, payments persistent.PaymentRepository, pi *payment.PaymentIntent) error {
	if pi == nil {
		return apperror.Validation("Event has no payment intent")
	}

	var orderID *string
	order, err := orders.GetOrderByPaymentIntent(ctx, pi.ID)
	switch {
	case err == nil:
		orderID = &order.ID
		if err := orders.UpdatePaymentStatus(ctx, order.ID, entity.PaymentStatusDue); err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}
	case !errors.Is(err, persistent.ErrNotFound):
		return fmt.Errorf("failed to look up order by intent: %w", err)
	}

	if err := uc.markTransaction(ctx, payments, pi, entity.TransactionStatusFailed, orderID); err != nil {
		return err
	}

	if userID := pi.Metadata[metaUserID]; userID != "" {
		entityID := pi.ID
		if orderID != nil {
			entityID = *orderID
		}
		uc.publish(ctx, notify.Event{
			ReceiverID: userID,
			Text:       "Your payment could not be completed",
			Type:       notify.TypePaymentFailed,
			EntityID:   entityID,
			Priority:   7,
		})
	}
	return nil
}

// markTransaction updates the ledger row for the intent, inserting it when the
// pay call never managed to record one.
func (uc *paymentUseCase) markTransaction(ctx context.Context, payments persistent.PaymentRepository, pi *payment.PaymentIntent, status string, orderID *string) error {
	if pi == nil {
		return apperror.Validation("Event has no payment intent")
	}

	amount := money.FromMinor(pi.Amount)
	if status == entity.TransactionStatusSucceeded {
		amount = money.FromMinor(pi.AmountReceived)
	}

	transaction, err := payments.GetTransactionByProviderRef(ctx, pi.ID)
	if errors.Is(err, persistent.ErrNotFound) {
		if orderID == nil {
			if id := pi.Metadata[metaOrderID]; id != "" {
				orderID = &id
			}
		}
		transaction = &entity.PaymentTransaction{
			UserID:      pi.Metadata[metaUserID],
			OrderID:     orderID,
			ProviderRef: pi.ID,
			Amount:      amount,
			Currency:    pi.Currency,
			Status:      status,
			Type:        entity.TransactionTypePayment,
		}
		if err := payments.CreateTransaction(ctx, transaction); err != nil {
			return fmt.Errorf("failed to create payment transaction: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load payment transaction: %w", err)
	}

	transaction.Status = status
	if status == entity.TransactionStatusSucceeded {
		transaction.Amount = amount
		transaction.Currency = pi.Currency
	}
	if orderID != nil {
		transaction.OrderID = orderID
	}
	if err := payments.UpdateTransaction(ctx, transaction); err != nil {
		return fmt.Errorf("failed to update payment transaction: %w", err)
	}
	return nil
}

func (uc *paymentUseCase) logPayout(event *payment.Event) {
	if event.Payout == nil {
		uc.logger.Info("[WEBHOOK] %s received without payout data (%s)", event.Type, event.ID)
		return
	}
	if event.Type == payment.EventPayoutFailed {
		uc.logger.Warn("[WEBHOOK] Payout %s failed: %s", event.Payout.ID, event.Payout.FailureMessage)
		return
	}
	uc.logger.Info("[WEBHOOK] Payout %s paid: %d %s", event.Payout.ID, event.Payout.Amount, event.Payout.Currency)
}

// recordRejected stores a permanently failed event so later deliveries are acknowledged as duplicates.
func (uc *paymentUseCase) recordRejected(ctx context.Context, record *entity.WebhookEvent, cause error) {
	record.ID = ""
	record.ProcessingError = cause.Error()
	if _, err := uc.paymentRepo.ClaimEvent(ctx, record); err != nil {
		uc.logger.Error("[WEBHOOK] Failed to record rejected event %s: %v", record.ProviderEventID, err)
	}
}

func (uc *paymentUseCase) publish(ctx context.Context, event notify.Event) {
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("Failed to publish %s notification: %v", event.Type, err)
	}
}

func (uc *paymentUseCase) ListTransactions(ctx context.Context, limit, offset int) ([]*entity.PaymentTransaction, error) {
	transactions, err := uc.paymentRepo.ListTransactions(ctx, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to list payment transactions: %v", err)
		return nil, fmt.Errorf("failed to list payment transactions: %w", err)
	}
	return transactions, nil
}
