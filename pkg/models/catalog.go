package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	ID          string        `gorm:"type:uuid;primary_key" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description"`
	IsActive    bool          `gorm:"default:true" json:"is_active"`
	Tiers       []ServiceTier `gorm:"foreignKey:ServiceID" json:"tiers,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type ServiceTier struct {
	ID        string          `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID string          `gorm:"type:uuid;not null;index" json:"service_id"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	PostQuota int             `gorm:"default:0" json:"post_quota"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Role is a task role a reseller can be assigned under (designer, copywriter, ...).
type Role struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (t *ServiceTier) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
