package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserModel struct {
	ID        string `gorm:"type:uuid;primary_key"`
	Email     string `gorm:"uniqueIndex;not null"`
	Name      string
	Role      string `gorm:"type:varchar(20)"`
	UserType  string `gorm:"type:varchar(20)"`
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

type ServiceModel struct {
	ID       string `gorm:"type:uuid;primary_key"`
	Name     string `gorm:"not null"`
	IsActive bool   `gorm:"default:true"`
}

func (ServiceModel) TableName() string {
	return "services"
}

type ServiceTierModel struct {
	ID        string          `gorm:"type:uuid;primary_key"`
	ServiceID string          `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PostQuota int             `gorm:"default:0"`
}

func (ServiceTierModel) TableName() string {
	return "service_tiers"
}

// TierRow is the service_tiers JOIN services projection used for pricing.
type TierRow struct {
	ID          string
	ServiceID   string
	ServiceName string
	Name        string
	Price       decimal.Decimal
	PostQuota   int
}
