package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	WithdrawalStatusRequested    = "requested"
	WithdrawalStatusPayoutFailed = "payout_failed"
)

const (
	TransactionTypeWithdrawal = "withdrawal"

	TransactionStatusPending = "pending"
	TransactionStatusFailed  = "failed"
)

// Earnings deduction modes.
const (
	DeductGross = "gross"
	DeductNet   = "net"
)

type WithdrawalSettings struct {
	MinimumWithdrawalAmount decimal.Decimal `json:"minimum_withdrawal_amount"`
	IsFlatCommission        bool            `json:"is_flat_commission"`
	FlatCommission          decimal.Decimal `json:"flat_commission"`
	PercentageCommission    decimal.Decimal `json:"percentage_commission"`
	ProcessingFee           decimal.Decimal `json:"processing_fee"`
	PaymentMethods          []string        `json:"payment_methods"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

func (s *WithdrawalSettings) AcceptsMethod(method string) bool {
	for _, m := range s.PaymentMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

type Withdrawal struct {
	ID            string          `json:"id"`
	ResellerID    string          `json:"reseller_id"`
	AccountID     string          `json:"account_id"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	Commission    decimal.Decimal `json:"commission"`
	ProcessingFee decimal.Decimal `json:"processing_fee"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	Status        string          `json:"status"`
	TransferID    string          `json:"transfer_id,omitempty"`
	PayoutID      string          `json:"payout_id,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type PaymentTransaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	ResellerID  string          `json:"reseller_id"`
	ProviderRef string          `json:"provider_ref"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	Type        string          `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
}
