package model

import "github.com/shopspring/decimal"

// OrderModel reads the columns of orders the task ledger needs.
type OrderModel struct {
	ID          string `gorm:"type:uuid;primary_key"`
	UserID      string `gorm:"type:uuid"`
	PackageName string
	OrderStatus string
}

func (OrderModel) TableName() string {
	return "orders"
}

type ResellerModel struct {
	ID            string          `gorm:"type:uuid;primary_key"`
	UserID        *string         `gorm:"type:uuid"`
	Name          string
	Email         string
	Status        string
	TotalTask     int
	TotalEarnings decimal.Decimal `gorm:"type:decimal(12,2)"`
	CompleteTasks int
}

func (ResellerModel) TableName() string {
	return "resellers"
}

type RoleModel struct {
	ID   string `gorm:"type:uuid;primary_key"`
	Name string
}

func (RoleModel) TableName() string {
	return "roles"
}

type UserModel struct {
	ID string `gorm:"type:uuid;primary_key"`
}

func (UserModel) TableName() string {
	return "users"
}
