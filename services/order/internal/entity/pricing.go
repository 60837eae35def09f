package entity

import "github.com/shopspring/decimal"

type LineItem struct {
	ServiceTierID string `json:"service_tier_id" binding:"required"`
	Quantity      int    `json:"quantity"`
}

type PricedItem struct {
	ServiceID     string          `json:"service_id"`
	ServiceTierID string          `json:"service_tier_id"`
	ServiceName   string          `json:"service_name"`
	TierName      string          `json:"tier_name"`
	Quantity      int             `json:"quantity"`
	PostCount     int             `json:"post_count"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Price         decimal.Decimal `json:"price"`
}

type PriceQuote struct {
	Items []PricedItem    `json:"items"`
	Total decimal.Decimal `json:"total"`
}
