package usecase

import (
	"context"
	"fmt"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/money"
	"socialdesk/services/order/internal/entity"

	"github.com/shopspring/decimal"
)

// TierFinder is the single lookup pricing needs; both the plain repository
// and the transaction-bound one satisfy it.
type TierFinder interface {
	FindTiers(ctx context.Context, ids []string) ([]*entity.Tier, error)
}

type PricingUseCase interface {
	Resolve(ctx context.Context, items []entity.LineItem) (*entity.PriceQuote, error)
}

type pricingUseCase struct {
	tiers TierFinder
}

func NewPricingUseCase(tiers TierFinder) PricingUseCase {
	return &pricingUseCase{tiers: tiers}
}

func (uc *pricingUseCase) Resolve(ctx context.Context, items []entity.LineItem) (*entity.PriceQuote, error) {
	return resolvePricing(ctx, uc.tiers, items)
}

// resolvePricing fetches every referenced tier in one query and snapshots name,
// quota and price per line item. A missing tier is a validation error.
func resolvePricing(ctx context.Context, finder TierFinder, items []entity.LineItem) (*entity.PriceQuote, error) {
	if len(items) == 0 {
		return nil, apperror.Validation("At least one service tier is required")
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ServiceTierID == "" {
			return nil, apperror.Validation("Service tier id is required")
		}
		if item.Quantity < 0 {
			return nil, apperror.Validation("Quantity must not be negative")
		}
		if !seen[item.ServiceTierID] {
			seen[item.ServiceTierID] = true
			ids = append(ids, item.ServiceTierID)
		}
	}

	tiers, err := finder.FindTiers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load service tiers: %w", err)
	}
	if len(tiers) != len(ids) {
		return nil, apperror.Validation("One or more service tiers do not exist")
	}

	byID := make(map[string]*entity.Tier, len(tiers))
	for _, tier := range tiers {
		byID[tier.ID] = tier
	}

	quote := &entity.PriceQuote{Items: make([]entity.PricedItem, 0, len(items))}
	prices := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		tier, ok := byID[item.ServiceTierID]
		if !ok {
			return nil, apperror.Validation("Service tier %s does not exist", item.ServiceTierID)
		}
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		price := tier.Price.Mul(decimal.NewFromInt(int64(quantity)))
		quote.Items = append(quote.Items, entity.PricedItem{
			ServiceID:     tier.ServiceID,
			ServiceTierID: tier.ID,
			ServiceName:   tier.ServiceName,
			TierName:      tier.Name,
			Quantity:      quantity,
			PostCount:     tier.PostQuota * quantity,
			UnitPrice:     tier.Price,
			Price:         price,
		})
		prices = append(prices, price)
	}
	quote.Total = money.Sum(prices...)
	return quote, nil
}
