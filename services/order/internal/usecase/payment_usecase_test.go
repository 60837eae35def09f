package usecase

import (
	"context"
	"errors"
	"testing"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/notify"
	"socialdesk/pkg/payment"
	"socialdesk/pkg/payment/paymenttest"
	"socialdesk/services/order/internal/entity"
	"socialdesk/services/order/internal/repo/cache"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	store    *memStore
	provider *paymenttest.Provider
	recorder *notify.Recorder
	uc       PaymentUseCase
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	store := newMemStore()
	seedCatalog(store)
	store.addUser(&entity.User{ID: adminID, Name: "Admin", Email: "admin@socialdesk.io", Role: "admin"})
	store.addUser(&entity.User{ID: clientID, Name: "Casey", Email: "casey@example.com", Role: "client"})

	provider := paymenttest.New()
	recorder := &notify.Recorder{}
	uc := NewPaymentUseCase(store, store, store, NewPricingUseCase(store), provider, cache.NewReplayCache(nil), recorder, "usd", logger.Nop())
	return &paymentFixture{store: store, provider: provider, recorder: recorder, uc: uc}
}

func (f *paymentFixture) pay(t *testing.T) *PayResult {
	t.Helper()
	result, err := f.uc.Pay(context.Background(), PayInput{
		UserID:      clientID,
		PackageName: "Social Starter",
		Items:       []entity.LineItem{{ServiceTierID: "tier-ig"}, {ServiceTierID: "tier-fb"}},
	})
	require.NoError(t, err)
	return result
}

func succeededEvent(eventID string, pay *PayResult, metadata map[string]string) *payment.Event {
	return &payment.Event{
		ID:   eventID,
		Type: payment.EventPaymentIntentSucceeded,
		PaymentIntent: &payment.PaymentIntent{
			ID:             pay.PaymentIntentID,
			Status:         "succeeded",
			Amount:         pay.AmountMinor,
			AmountReceived: pay.AmountMinor,
			Currency:       "usd",
			Metadata:       metadata,
		},
	}
}

func TestPay_CreatesIntentWithMetadata(t *testing.T) {
	f := newPaymentFixture(t)

	result := f.pay(t)

	assert.Equal(t, int64(7998), result.AmountMinor)
	assert.True(t, decimal.RequireFromString("79.98").Equal(result.Amount))
	assert.NotEmpty(t, result.ClientSecret)
	assert.NotEmpty(t, result.OrderID)

	require.Len(t, f.provider.Intents, 1)
	intent := f.provider.Intents[0]
	assert.Equal(t, int64(7998), intent.AmountMinor)
	assert.Equal(t, "usd", intent.Currency)
	assert.Equal(t, "order:"+result.OrderID, intent.IdempotencyKey)
	assert.Equal(t, result.OrderID, intent.Metadata["order_id"])
	assert.Equal(t, clientID, intent.Metadata["user_id"])
	assert.Equal(t, "tier-ig,tier-fb", intent.Metadata["tier_ids"])
	assert.Equal(t, "svc-ig,svc-fb", intent.Metadata["service_ids"])
	assert.Equal(t, "2", intent.Metadata["count"])

	rows := f.store.transactionsFor(result.PaymentIntentID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionStatusCreated, rows[0].Status)

	// no order until the provider confirms
	assert.Equal(t, 0, f.store.orderCount())
}

func TestPay_ProviderFailure(t *testing.T) {
	f := newPaymentFixture(t)
	f.provider.IntentErr = paymenttest.ErrProviderDown

	_, err := f.uc.Pay(context.Background(), PayInput{
		UserID:      clientID,
		PackageName: "Social Starter",
		Items:       []entity.LineItem{{ServiceTierID: "tier-ig"}},
	})
	assert.True(t, errors.Is(err, apperror.ErrProvider))
	assert.Empty(t, f.store.transactions)
}

func TestReconcile_SucceededCreatesPaidOrder(t *testing.T) {
	f := newPaymentFixture(t)
	pay := f.pay(t)
	event := succeededEvent("evt_1", pay, f.provider.Intents[0].Metadata)

	result, err := f.uc.Reconcile(context.Background(), event, []byte(`{}`))
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, pay.OrderID, result.OrderID)

	order, err := f.store.GetOrder(context.Background(), pay.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, order.PaymentStatus)
	assert.True(t, decimal.RequireFromString("79.98").Equal(order.Amount))
	require.NotNil(t, order.PaymentIntentID)
	assert.Equal(t, pay.PaymentIntentID, *order.PaymentIntentID)

	assert.Equal(t, "client", f.store.users[clientID].UserType)

	rows := f.store.transactionsFor(pay.PaymentIntentID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionStatusSucceeded, rows[0].Status)
	assert.True(t, decimal.RequireFromString("79.98").Equal(rows[0].Amount))

	types := []string{}
	for _, e := range f.recorder.Events() {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, notify.TypeOrderPlaced)
	assert.Contains(t, types, notify.TypePaymentSucceeded)
}

func TestReconcile_ReplayDoesNotCreateSecondOrder(t *testing.T) {
	f := newPaymentFixture(t)
	pay := f.pay(t)
	event := succeededEvent("evt_1", pay, f.provider.Intents[0].Metadata)

	_, err := f.uc.Reconcile(context.Background(), event, nil)
	require.NoError(t, err)

	result, err := f.uc.Reconcile(context.Background(), event, nil)
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, 1, f.store.orderCount())
}

func TestReconcile_NewEventForSameIntentDoesNotCreateSecondOrder(t *testing.T) {
	f := newPaymentFixture(t)
	pay := f.pay(t)
	metadata := f.provider.Intents[0].Metadata

	_, err := f.uc.Reconcile(context.Background(), succeededEvent("evt_1", pay, metadata), nil)
	require.NoError(t, err)

	result, err := f.uc.Reconcile(context.Background(), succeededEvent("evt_2", pay, metadata), nil)
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Empty(t, result.OrderID)
	assert.Equal(t, 1, f.store.orderCount())
}

func TestReconcile_MalformedMetadataIsPermanentAndRecorded(t *testing.T) {
	f := newPaymentFixture(t)
	pay := f.pay(t)
	event := succeededEvent("evt_bad", pay, map[string]string{"order_id": pay.OrderID})

	_, err := f.uc.Reconcile(context.Background(), event, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsPermanent(err))
	assert.Equal(t, 0, f.store.orderCount())

	recorded, ok := f.store.events["evt_bad"]
	require.True(t, ok)
	assert.NotEmpty(t, recorded.ProcessingError)

	result, err := f.uc.Reconcile(context.Background(), event, nil)
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
}

func TestReconcile_PriceChangedSincePaymentIsRejected(t *testing.T) {
	f := newPaymentFixture(t)
	pay := f.pay(t)
	f.store.tiers["tier-ig"].Price = decimal.RequireFromString("59.99")

	_, err := f.uc.Reconcile(context.Background(), succeededEvent("evt_price", pay, f.provider.Intents[0].Metadata), nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.True(t, apperror.IsPermanent(err))
	assert.Contains(t, apperror.Message(err), "79.98")
	assert.Equal(t, 0, f.store.orderCount())

	recorded, ok := f.store.events["evt_price"]
	require.True(t, ok)
	assert.NotEmpty(t, recorded.ProcessingError)
}

func TestReconcile_TransientFailureLeavesEventUnclaimed(t *testing.T) {
	f := newPaymentFixture(t)
	pay := f.pay(t)
	event := succeededEvent("evt_1", pay, f.provider.Intents[0].Metadata)

	f.store.failSubscription = errors.New("connection reset")
	_, err := f.uc.Reconcile(context.Background(), event, nil)
	require.Error(t, err)
	assert.False(t, apperror.IsPermanent(err))
	assert.Empty(t, f.store.events)
	assert.Equal(t, 0, f.store.orderCount())

	f.store.failSubscription = nil
	result, err := f.uc.Reconcile(context.Background(), event, nil)
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, 1, f.store.orderCount())
}

func TestReconcile_PaymentFailedMarksOrderDue(t *testing.T) {
	f := newPaymentFixture(t)
	pay := f.pay(t)
	metadata := f.provider.Intents[0].Metadata

	_, err := f.uc.Reconcile(context.Background(), succeededEvent("evt_1", pay, metadata), nil)
	require.NoError(t, err)

	failed := succeededEvent("evt_2", pay, metadata)
	failed.Type = payment.EventPaymentIntentFailed
	_, err = f.uc.Reconcile(context.Background(), failed, nil)
	require.NoError(t, err)

	order, err := f.store.GetOrder(context.Background(), pay.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusDue, order.PaymentStatus)

	rows := f.store.transactionsFor(pay.PaymentIntentID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionStatusFailed, rows[0].Status)
}

func TestReconcile_CanceledAndRequiresAction(t *testing.T) {
	f := newPaymentFixture(t)
	pay := f.pay(t)
	metadata := f.provider.Intents[0].Metadata

	action := succeededEvent("evt_1", pay, metadata)
	action.Type = payment.EventPaymentIntentRequiresAction
	_, err := f.uc.Reconcile(context.Background(), action, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusRequiresAction, f.store.transactionsFor(pay.PaymentIntentID)[0].Status)

	canceled := succeededEvent("evt_2", pay, metadata)
	canceled.Type = payment.EventPaymentIntentCanceled
	_, err = f.uc.Reconcile(context.Background(), canceled, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusCanceled, f.store.transactionsFor(pay.PaymentIntentID)[0].Status)
	assert.Equal(t, 0, f.store.orderCount())
}

func TestReconcile_PayoutEventsOnlyLogged(t *testing.T) {
	f := newPaymentFixture(t)

	result, err := f.uc.Reconcile(context.Background(), &payment.Event{
		ID:     "evt_po",
		Type:   payment.EventPayoutFailed,
		Payout: &payment.Payout{ID: "po_1", FailureMessage: "account closed"},
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Empty(t, f.store.transactions)
	assert.Equal(t, 0, f.store.orderCount())
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.uc.HandleWebhook(context.Background(), []byte(`{}`), "forged")
	assert.True(t, errors.Is(err, payment.ErrInvalidSignature))
	assert.Empty(t, f.store.events)
}

func TestHandleWebhook_VerifiedEvent(t *testing.T) {
	f := newPaymentFixture(t)
	pay := f.pay(t)
	f.provider.Event = succeededEvent("evt_1", pay, f.provider.Intents[0].Metadata)

	result, err := f.uc.HandleWebhook(context.Background(), []byte(`{"id":"evt_1"}`), "valid")
	require.NoError(t, err)
	assert.Equal(t, pay.OrderID, result.OrderID)
	assert.Equal(t, `{"id":"evt_1"}`, string(f.store.events["evt_1"].Payload))
}
