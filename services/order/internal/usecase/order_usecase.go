package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/metrics"
	"socialdesk/pkg/money"
	"socialdesk/pkg/notify"
	"socialdesk/services/order/internal/entity"
	"socialdesk/services/order/internal/repo/persistent"
)

type CreateOrderInput struct {
	// OrderID is optional; the payment flow pre-allocates it.
	OrderID         string
	PurchaserID     string
	PackageName     string
	Items           []entity.LineItem
	PaymentIntentID string
	PaymentStatus   string
	// ChargedMinor, when set, must equal the priced total in minor units.
	ChargedMinor    int64
}

type OrderUseCase interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.Order, error)
	GetMyOrders(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error)
	GetOrder(ctx context.Context, id, requesterID, requesterRole string) (*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status, actorID string) (*entity.Order, error)
	ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error)
}

type orderUseCase struct {
	orderRepo  persistent.OrderRepository
	transactor persistent.Transactor
	publisher  notify.Publisher
	logger     *logger.Logger
	now        func() time.Time
}

func NewOrderUseCase(orderRepo persistent.OrderRepository, transactor persistent.Transactor, publisher notify.Publisher, logger *logger.Logger) OrderUseCase {
	return &orderUseCase{
		orderRepo:  orderRepo,
		transactor: transactor,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	if in.PackageName == "" {
		return nil, apperror.Validation("Package name is required")
	}

	purchaser, err := uc.orderRepo.GetUser(ctx, in.PurchaserID)
	if err != nil {
		return nil, notFoundOr(err, "Purchaser not found")
	}
	admin, err := uc.orderRepo.FindAdmin(ctx)
	if err != nil {
		return nil, notFoundOr(err, "Admin user not found")
	}

	if in.PaymentStatus == "" {
		in.PaymentStatus = entity.PaymentStatusDue
	}

	var order *entity.Order
	err = uc.transactor.WithinTransaction(ctx, func(orders persistent.OrderRepository, _ persistent.PaymentRepository) error {
		var err error
		order, err = placeOrder(ctx, orders, purchaser, in, uc.now())
		return err
	})
	if err != nil {
		uc.logger.Error("Failed to create order for user %s: %v", in.PurchaserID, err)
		return nil, err
	}

	metrics.OrdersCreated.WithLabelValues("manual").Inc()
	uc.logger.Info("Order %s created for user %s, amount=%s", order.ID, purchaser.ID, order.Amount.StringFixed(2))

	publishOrderPlaced(ctx, uc.publisher, uc.logger, admin.ID, order)
	return order, nil
}

func (uc *orderUseCase) GetMyOrders(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error) {
	orders, err := uc.orderRepo.ListOrdersByUser(ctx, userID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to get orders: %v", err)
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id, requesterID, requesterRole string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if requesterRole != "admin" && order.UserID != requesterID {
		return nil, apperror.Forbidden("You do not have access to this order")
	}
	return order, nil
}

var validOrderStatuses = map[string]bool{
	entity.OrderStatusPending:    true,
	entity.OrderStatusInProgress: true,
	entity.OrderStatusCompleted:  true,
	entity.OrderStatusCancelled:  true,
}

func (uc *orderUseCase) UpdateOrderStatus(ctx context.Context, id, status, actorID string) (*entity.Order, error) {
	if !validOrderStatuses[status] {
		return nil, apperror.Validation("Invalid order status: %s", status)
	}

	if err := uc.orderRepo.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, notFoundOr(err, "Order not found")
	}

	order, err := uc.orderRepo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}

	event := notify.Event{
		SenderID:   actorID,
		ReceiverID: order.UserID,
		Text:       fmt.Sprintf("Your order %s is now %s", order.PackageName, status),
		Type:       notify.TypeOrderStatus,
		EntityID:   order.ID,
		Priority:   5,
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("Failed to publish order status notification for order %s: %v", order.ID, err)
	}
	return order, nil
}

func (uc *orderUseCase) ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	expired, err := uc.orderRepo.ExpireSubscriptions(ctx, now)
	if err != nil {
		uc.logger.Error("Failed to expire subscriptions: %v", err)
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	if expired > 0 {
		uc.logger.Info("Expired %d subscriptions", expired)
	}
	return expired, nil
}

// placeOrder writes the order, its detail snapshots and its subscription through
// a transaction-bound repository.
func placeOrder(ctx context.Context, orders persistent.OrderRepository, purchaser *entity.User, in CreateOrderInput, now time.Time) (*entity.Order, error) {
	quote, err := resolvePricing(ctx, orders, in.Items)
	if err != nil {
		return nil, err
	}
	if in.ChargedMinor > 0 && money.ToMinor(quote.Total) != in.ChargedMinor {
		return nil, apperror.Validation("Charged amount %s does not match order total %s",
			money.FromMinor(in.ChargedMinor).StringFixed(2), quote.Total.StringFixed(2))
	}

	order := &entity.Order{
		ID:            in.OrderID,
		PackageName:   in.PackageName,
		Amount:        quote.Total,
		UserID:        purchaser.ID,
		UserName:      purchaser.Name,
		UserEmail:     purchaser.Email,
		OrderStatus:   entity.OrderStatusPending,
		PaymentStatus: in.PaymentStatus,
	}
	if in.PaymentIntentID != "" {
		intentID := in.PaymentIntentID
		order.PaymentIntentID = &intentID
	}
	if err := orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	details := make([]*entity.OrderDetail, len(quote.Items))
	for i, item := range quote.Items {
		details[i] = &entity.OrderDetail{
			OrderID:       order.ID,
			ServiceID:     item.ServiceID,
			ServiceTierID: item.ServiceTierID,
			ServiceName:   item.ServiceName,
			TierName:      item.TierName,
			Quantity:      item.Quantity,
			PostCount:     item.PostCount,
			ServicePrice:  item.Price,
		}
	}
	if err := orders.CreateOrderDetails(ctx, details); err != nil {
		return nil, fmt.Errorf("failed to create order details: %w", err)
	}

	subscription := &entity.Subscription{
		OrderID: order.ID,
		UserID:  purchaser.ID,
		StartAt: now,
		EndAt:   now.AddDate(0, 1, 0),
		Status:  entity.SubscriptionStatusActive,
	}
	if err := orders.CreateSubscription(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	if err := orders.LinkSubscription(ctx, order.ID, subscription.ID); err != nil {
		return nil, fmt.Errorf("failed to link subscription: %w", err)
	}

	order.SubscriptionID = &subscription.ID
	order.Subscription = subscription
	order.Details = details
	return order, nil
}

func publishOrderPlaced(ctx context.Context, publisher notify.Publisher, log *logger.Logger, adminID string, order *entity.Order) {
	event := notify.Event{
		SenderID:   adminID,
		ReceiverID: order.UserID,
		Text:       fmt.Sprintf("Your order for %s has been placed", order.PackageName),
		Type:       notify.TypeOrderPlaced,
		EntityID:   order.ID,
		Priority:   5,
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish order placed notification for order %s: %v", order.ID, err)
	}
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, persistent.ErrNotFound) {
		return apperror.NotFound("%s", message)
	}
	return err
}
