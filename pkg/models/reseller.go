package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ResellerStatusActive   = "active"
	ResellerStatusInactive = "inactive"
)

type Reseller struct {
	ID            string          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        *string         `gorm:"type:uuid;index" json:"user_id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Status        string          `gorm:"type:varchar(20);default:'active'" json:"status"`
	TotalTask     int             `gorm:"default:0" json:"total_task"`
	TotalEarnings decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_earnings"`
	CompleteTasks int             `gorm:"default:0" json:"complete_tasks"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// WithdrawalSettings is a single row with ID 1.
type WithdrawalSettings struct {
	ID                      int             `gorm:"primaryKey" json:"id"`
	MinimumWithdrawalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"minimum_withdrawal_amount"`
	IsFlatCommission        bool            `gorm:"default:false" json:"is_flat_commission"`
	FlatCommission          decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"flat_commission"`
	PercentageCommission    decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"percentage_commission"`
	ProcessingFee           decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"processing_fee"`
	PaymentMethods          string          `gorm:"not null" json:"payment_methods"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

func (WithdrawalSettings) TableName() string {
	return "withdrawal_settings"
}

func (r *Reseller) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
