package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PayoutAccountModel struct {
	ID                string `gorm:"type:uuid;primary_key"`
	ResellerID        string `gorm:"type:uuid;not null;index"`
	ProviderAccountID string `gorm:"not null;uniqueIndex"`
	IsDefault         bool   `gorm:"default:false"`
	CreatedAt         time.Time
}

func (PayoutAccountModel) TableName() string {
	return "reseller_payout_accounts"
}

func (a *PayoutAccountModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

type WithdrawalModel struct {
	ID            string          `gorm:"type:uuid;primary_key"`
	ResellerID    string          `gorm:"type:uuid;not null;index"`
	AccountID     string          `gorm:"not null"`
	Method        string          `gorm:"type:varchar(50);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Commission    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProcessingFee decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null"`
	TransferID    string
	PayoutID      string
	FailureReason string          `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (WithdrawalModel) TableName() string {
	return "reseller_withdrawals"
}

func (w *WithdrawalModel) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

type PaymentTransactionModel struct {
	ID          string          `gorm:"type:uuid;primary_key"`
	UserID      *string         `gorm:"type:uuid;index"`
	ResellerID  *string         `gorm:"type:uuid;index"`
	ProviderRef string          `gorm:"index"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"type:varchar(10)"`
	Status      string          `gorm:"type:varchar(20);not null"`
	Type        string          `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PaymentTransactionModel) TableName() string {
	return "payment_transactions"
}

func (t *PaymentTransactionModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
