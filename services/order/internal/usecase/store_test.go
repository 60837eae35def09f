package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialdesk/services/order/internal/entity"
	"socialdesk/services/order/internal/repo/persistent"

	"github.com/google/uuid"
)

// memStore is an in-memory OrderRepository, PaymentRepository and Transactor.
// WithinTransaction snapshots state and restores it when fn fails.
type memStore struct {
	mu sync.Mutex

	users         map[string]*entity.User
	tiers         map[string]*entity.Tier
	orders        map[string]*entity.Order
	details       []*entity.OrderDetail
	subscriptions map[string]*entity.Subscription
	transactions  []*entity.PaymentTransaction
	events        map[string]*entity.WebhookEvent

	failSubscription error
}

var (
	_ persistent.OrderRepository   = (*memStore)(nil)
	_ persistent.PaymentRepository = (*memStore)(nil)
	_ persistent.Transactor        = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		users:         map[string]*entity.User{},
		tiers:         map[string]*entity.Tier{},
		orders:        map[string]*entity.Order{},
		subscriptions: map[string]*entity.Subscription{},
		events:        map[string]*entity.WebhookEvent{},
	}
}

type memSnapshot struct {
	orders        map[string]entity.Order
	details       int
	subscriptions map[string]entity.Subscription
	transactions  []entity.PaymentTransaction
	events        map[string]entity.WebhookEvent
	userTypes     map[string]string
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		orders:        map[string]entity.Order{},
		details:       len(s.details),
		subscriptions: map[string]entity.Subscription{},
		events:        map[string]entity.WebhookEvent{},
		userTypes:     map[string]string{},
	}
	for k, v := range s.orders {
		snap.orders[k] = *v
	}
	for k, v := range s.subscriptions {
		snap.subscriptions[k] = *v
	}
	for _, t := range s.transactions {
		snap.transactions = append(snap.transactions, *t)
	}
	for k, v := range s.events {
		snap.events[k] = *v
	}
	for k, v := range s.users {
		snap.userTypes[k] = v.UserType
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = map[string]*entity.Order{}
	for k, v := range snap.orders {
		o := v
		s.orders[k] = &o
	}
	s.details = s.details[:snap.details]
	s.subscriptions = map[string]*entity.Subscription{}
	for k, v := range snap.subscriptions {
		sub := v
		s.subscriptions[k] = &sub
	}
	s.transactions = nil
	for _, t := range snap.transactions {
		tr := t
		s.transactions = append(s.transactions, &tr)
	}
	s.events = map[string]*entity.WebhookEvent{}
	for k, v := range snap.events {
		ev := v
		s.events[k] = &ev
	}
	for k, v := range snap.userTypes {
		s.users[k].UserType = v
	}
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(orders persistent.OrderRepository, payments persistent.PaymentRepository) error) error {
	snap := s.snapshot()
	if err := fn(s, s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) addUser(u *entity.User) {
	s.users[u.ID] = u
}

func (s *memStore) addTier(t *entity.Tier) {
	s.tiers[t.ID] = t
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) FindTiers(_ context.Context, ids []string) ([]*entity.Tier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Tier
	for _, id := range ids {
		if t, ok := s.tiers[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) GetUser(_ context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, persistent.ErrNotFound
}

func (s *memStore) FindAdmin(_ context.Context) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Role == "admin" {
			return u, nil
		}
	}
	return nil, persistent.ErrNotFound
}

func (s *memStore) SetUserType(_ context.Context, userID, userType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.UserType = userType
	}
	return nil
}

func (s *memStore) CreateOrder(_ context.Context, order *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.PaymentIntentID != nil {
		for _, o := range s.orders {
			if o.PaymentIntentID != nil && *o.PaymentIntentID == *order.PaymentIntentID {
				return errDuplicateIntent
			}
		}
	}
	order.CreatedAt = time.Now()
	stored := *order
	s.orders[order.ID] = &stored
	return nil
}

func (s *memStore) CreateOrderDetails(_ context.Context, details []*entity.OrderDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range details {
		d.ID = uuid.New().String()
		s.details = append(s.details, d)
	}
	return nil
}

func (s *memStore) CreateSubscription(_ context.Context, subscription *entity.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSubscription != nil {
		return s.failSubscription
	}
	subscription.ID = uuid.New().String()
	stored := *subscription
	s.subscriptions[subscription.ID] = &stored
	return nil
}

func (s *memStore) LinkSubscription(_ context.Context, orderID, subscriptionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return persistent.ErrNotFound
	}
	id := subscriptionID
	o.SubscriptionID = &id
	return nil
}

func (s *memStore) GetOrder(_ context.Context, id string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		out := *o
		return &out, nil
	}
	return nil, persistent.ErrNotFound
}

func (s *memStore) GetOrderByPaymentIntent(_ context.Context, paymentIntentID string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.PaymentIntentID != nil && *o.PaymentIntentID == paymentIntentID {
			out := *o
			return &out, nil
		}
	}
	return nil, persistent.ErrNotFound
}

func (s *memStore) ListOrdersByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) UpdateOrderStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return persistent.ErrNotFound
	}
	o.OrderStatus = status
	return nil
}

func (s *memStore) UpdatePaymentStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return persistent.ErrNotFound
	}
	o.PaymentStatus = status
	return nil
}

func (s *memStore) ExpireSubscriptions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, sub := range s.subscriptions {
		if sub.Status == entity.SubscriptionStatusActive && sub.EndAt.Before(now) {
			sub.Status = entity.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

func (s *memStore) CreateTransaction(_ context.Context, transaction *entity.PaymentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	transaction.ID = uuid.New().String()
	stored := *transaction
	s.transactions = append(s.transactions, &stored)
	return nil
}

func (s *memStore) GetTransactionByProviderRef(_ context.Context, providerRef string) (*entity.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.transactions) - 1; i >= 0; i-- {
		if s.transactions[i].ProviderRef == providerRef {
			out := *s.transactions[i]
			return &out, nil
		}
	}
	return nil, persistent.ErrNotFound
}

func (s *memStore) UpdateTransaction(_ context.Context, transaction *entity.PaymentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.ID == transaction.ID {
			t.Status = transaction.Status
			t.Amount = transaction.Amount
			t.Currency = transaction.Currency
			t.OrderID = transaction.OrderID
			return nil
		}
	}
	return persistent.ErrNotFound
}

func (s *memStore) ListTransactions(_ context.Context, _, _ int) ([]*entity.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.PaymentTransaction(nil), s.transactions...), nil
}

func (s *memStore) ClaimEvent(_ context.Context, event *entity.WebhookEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ProviderEventID]; ok {
		return false, nil
	}
	event.ID = uuid.New().String()
	stored := *event
	s.events[event.ProviderEventID] = &stored
	return true, nil
}

func (s *memStore) transactionsFor(ref string) []*entity.PaymentTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.PaymentTransaction
	for _, t := range s.transactions {
		if t.ProviderRef == ref {
			out = append(out, t)
		}
	}
	return out
}
