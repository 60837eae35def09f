package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TaskAssignModel struct {
	ID        string              `gorm:"type:uuid;primary_key"`
	OrderID   string              `gorm:"type:uuid;not null;uniqueIndex:idx_task_order_role"`
	RoleID    string              `gorm:"type:uuid;not null;uniqueIndex:idx_task_order_role"`
	Amount    decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	PostCount int                 `gorm:"not null;default:0"`
	PostType  string
	Note      string
	Status    string              `gorm:"type:varchar(20);not null"`
	Assignees []TaskAssigneeModel `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TaskAssignModel) TableName() string {
	return "task_assigns"
}

func (t *TaskAssignModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type TaskAssigneeModel struct {
	ID         string          `gorm:"type:uuid;primary_key"`
	TaskID     string          `gorm:"type:uuid;not null;uniqueIndex:idx_task_reseller"`
	ResellerID string          `gorm:"type:uuid;not null;uniqueIndex:idx_task_reseller;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Note       string
	CreatedAt  time.Time
}

func (TaskAssigneeModel) TableName() string {
	return "task_assignees"
}

func (a *TaskAssigneeModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

type TaskPostModel struct {
	ID            string  `gorm:"type:uuid;primary_key"`
	TaskID        string  `gorm:"type:uuid;not null;index"`
	ResellerID    string  `gorm:"type:uuid;not null"`
	Caption       string  `gorm:"type:text"`
	FileURL       string  `gorm:"not null"`
	Status        string  `gorm:"type:varchar(20);not null"`
	ReviewComment string  `gorm:"type:text"`
	ReviewedBy    *string `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (TaskPostModel) TableName() string {
	return "task_posts"
}

func (p *TaskPostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
