package entity

import "github.com/shopspring/decimal"

const ResellerStatusActive = "active"

type Order struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	PackageName string `json:"package_name"`
	OrderStatus string `json:"order_status"`
}

type Reseller struct {
	ID            string          `json:"id"`
	UserID        *string         `json:"user_id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Status        string          `json:"status"`
	TotalTask     int             `json:"total_task"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	CompleteTasks int             `json:"complete_tasks"`
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
