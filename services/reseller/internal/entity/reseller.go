package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Reseller struct {
	ID             string           `json:"id"`
	UserID         *string          `json:"user_id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Status         string           `json:"status"`
	TotalTask      int              `json:"total_task"`
	TotalEarnings  decimal.Decimal  `json:"total_earnings"`
	CompleteTasks  int              `json:"complete_tasks"`
	PayoutAccounts []*PayoutAccount `json:"payout_accounts,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// OwnedBy reports whether userID is the reseller's linked user.
func (r *Reseller) OwnedBy(userID string) bool {
	return r.UserID != nil && *r.UserID == userID
}

// PayoutAccount is a connected account at the payment provider.
type PayoutAccount struct {
	ID                string    `json:"id"`
	ResellerID        string    `json:"reseller_id"`
	ProviderAccountID string    `json:"provider_account_id"`
	IsDefault         bool      `json:"is_default"`
	CreatedAt         time.Time `json:"created_at"`
}
