package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"socialdesk/services/reseller/internal/entity"
	"socialdesk/services/reseller/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory ResellerRepository, SettingsRepository and
// Transactor. Transactions run one at a time, standing in for the reseller row
// lock, and restore the previous state when fn fails.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex
	memState

	failWithdrawal error
}

type memState struct {
	resellers    map[string]entity.Reseller
	accounts     []entity.PayoutAccount
	withdrawals  []entity.Withdrawal
	transactions []entity.PaymentTransaction
	settings     *entity.WithdrawalSettings
}

var (
	_ persistent.ResellerRepository = (*memStore)(nil)
	_ persistent.SettingsRepository = (*memStore)(nil)
	_ persistent.Transactor         = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{memState: memState{resellers: map[string]entity.Reseller{}}}
}

func (s memState) clone() memState {
	out := memState{
		resellers:    map[string]entity.Reseller{},
		accounts:     append([]entity.PayoutAccount(nil), s.accounts...),
		withdrawals:  append([]entity.Withdrawal(nil), s.withdrawals...),
		transactions: append([]entity.PaymentTransaction(nil), s.transactions...),
		settings:     s.settings,
	}
	for k, v := range s.resellers {
		out.resellers[k] = v
	}
	return out
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(resellers persistent.ResellerRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	saved := s.memState.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.memState = saved
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) addReseller(reseller entity.Reseller) {
	s.resellers[reseller.ID] = reseller
}

func (s *memStore) addAccount(resellerID, providerAccountID string) {
	s.accounts = append(s.accounts, entity.PayoutAccount{
		ID:                uuid.New().String(),
		ResellerID:        resellerID,
		ProviderAccountID: providerAccountID,
		IsDefault:         true,
	})
}

func (s *memStore) earnings(id string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resellers[id].TotalEarnings
}

func (s *memStore) storedWithdrawals() []entity.Withdrawal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Withdrawal(nil), s.withdrawals...)
}

func (s *memStore) storedTransactions() []entity.PaymentTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.PaymentTransaction(nil), s.transactions...)
}

func (s *memStore) GetReseller(ctx context.Context, id string) (*entity.Reseller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resellers[id]
	if !ok {
		return nil, persistent.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) LockReseller(ctx context.Context, id string) (*entity.Reseller, error) {
	return s.GetReseller(ctx, id)
}

func (s *memStore) DeductEarnings(ctx context.Context, id string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resellers[id]
	if !ok {
		return persistent.ErrNotFound
	}
	r.TotalEarnings = r.TotalEarnings.Sub(amount)
	s.resellers[id] = r
	return nil
}

func (s *memStore) GetPayoutAccount(ctx context.Context, resellerID, providerAccountID string) (*entity.PayoutAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ResellerID == resellerID && a.ProviderAccountID == providerAccountID {
			a := a
			return &a, nil
		}
	}
	return nil, persistent.ErrNotFound
}

func (s *memStore) ListPayoutAccounts(ctx context.Context, resellerID string) ([]*entity.PayoutAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.PayoutAccount
	for _, a := range s.accounts {
		if a.ResellerID == resellerID {
			a := a
			out = append(out, &a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IsDefault && !out[j].IsDefault })
	return out, nil
}

func (s *memStore) CreatePayoutAccount(ctx context.Context, account *entity.PayoutAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account.ID = uuid.New().String()
	account.CreatedAt = time.Now()
	s.accounts = append(s.accounts, *account)
	return nil
}

func (s *memStore) CreateWithdrawal(ctx context.Context, withdrawal *entity.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWithdrawal != nil {
		return s.failWithdrawal
	}
	withdrawal.CreatedAt = time.Now()
	s.withdrawals = append(s.withdrawals, *withdrawal)
	return nil
}

func (s *memStore) ListWithdrawals(ctx context.Context, resellerID string, limit, offset int) ([]*entity.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Withdrawal
	for i := len(s.withdrawals) - 1; i >= 0; i-- {
		w := s.withdrawals[i]
		if w.ResellerID == resellerID {
			out = append(out, &w)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) CreateTransaction(ctx context.Context, transaction *entity.PaymentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	transaction.ID = uuid.New().String()
	transaction.CreatedAt = time.Now()
	s.transactions = append(s.transactions, *transaction)
	return nil
}

func (s *memStore) Load(ctx context.Context) (*entity.WithdrawalSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil, persistent.ErrNotFound
	}
	settings := *s.settings
	return &settings, nil
}

func (s *memStore) Save(ctx context.Context, settings *entity.WithdrawalSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.UpdatedAt = time.Now()
	stored := *settings
	s.settings = &stored
	return nil
}

var errStoreDown = errors.New("store unavailable")
