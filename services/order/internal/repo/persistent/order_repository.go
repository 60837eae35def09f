package persistent

import (
	"context"
	"errors"
	"time"

	"socialdesk/services/order/internal/entity"
	"socialdesk/services/order/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

type OrderRepository interface {
	FindTiers(ctx context.Context, ids []string) ([]*entity.Tier, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	FindAdmin(ctx context.Context) (*entity.User, error)
	SetUserType(ctx context.Context, userID, userType string) error

	CreateOrder(ctx context.Context, order *entity.Order) error
	CreateOrderDetails(ctx context.Context, details []*entity.OrderDetail) error
	CreateSubscription(ctx context.Context, subscription *entity.Subscription) error
	LinkSubscription(ctx context.Context, orderID, subscriptionID string) error

	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	GetOrderByPaymentIntent(ctx context.Context, paymentIntentID string) (*entity.Order, error)
	ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	UpdatePaymentStatus(ctx context.Context, id, status string) error
	ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindTiers(ctx context.Context, ids []string) ([]*entity.Tier, error) {
	var rows []model.TierRow
	err := r.db.WithContext(ctx).
		Table("service_tiers").
		Select("service_tiers.id, service_tiers.service_id, services.name AS service_name, service_tiers.name, service_tiers.price, service_tiers.post_quota").
		Joins("JOIN services ON services.id = service_tiers.service_id").
		Where("service_tiers.id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	tiers := make([]*entity.Tier, len(rows))
	for i := range rows {
		tiers[i] = ToTierEntity(&rows[i])
	}
	return tiers, nil
}

func (r *orderRepository) GetUser(ctx context.Context, id string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *orderRepository) FindAdmin(ctx context.Context) (*entity.User, error) {
	var userModel model.UserModel
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", "admin", true).
		Order("created_at ASC").
		First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *orderRepository) SetUserType(ctx context.Context, userID, userType string) error {
	return r.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("id = ?", userID).
		Update("user_type", userType).Error
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	orderModel := ToOrderModel(order)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(orderModel).Error; err != nil {
		return err
	}
	order.ID = orderModel.ID
	order.CreatedAt = orderModel.CreatedAt
	order.UpdatedAt = orderModel.UpdatedAt
	return nil
}

func (r *orderRepository) CreateOrderDetails(ctx context.Context, details []*entity.OrderDetail) error {
	if len(details) == 0 {
		return nil
	}

	detailModels := make([]*model.OrderDetailModel, len(details))
	for i, d := range details {
		detailModels[i] = ToOrderDetailModel(d)
	}
	if err := r.db.WithContext(ctx).Create(&detailModels).Error; err != nil {
		return err
	}
	for i := range details {
		details[i].ID = detailModels[i].ID
	}
	return nil
}

func (r *orderRepository) CreateSubscription(ctx context.Context, subscription *entity.Subscription) error {
	subscriptionModel := ToSubscriptionModel(subscription)
	if err := r.db.WithContext(ctx).Create(subscriptionModel).Error; err != nil {
		return err
	}
	subscription.ID = subscriptionModel.ID
	return nil
}

func (r *orderRepository) LinkSubscription(ctx context.Context, orderID, subscriptionID string) error {
	return r.db.WithContext(ctx).Model(&model.OrderModel{}).
		Where("id = ?", orderID).
		Update("subscription_id", subscriptionID).Error
}

func (r *orderRepository) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	return r.findOrder(ctx, "id = ?", id)
}

func (r *orderRepository) GetOrderByPaymentIntent(ctx context.Context, paymentIntentID string) (*entity.Order, error) {
	return r.findOrder(ctx, "payment_intent_id = ?", paymentIntentID)
}

func (r *orderRepository) findOrder(ctx context.Context, query string, args ...interface{}) (*entity.Order, error) {
	var orderModel model.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Subscription").
		Where(query, args...).
		First(&orderModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToOrderEntity(&orderModel), nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error) {
	var orderModels []model.OrderModel
	query := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Subscription").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]*entity.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = ToOrderEntity(&orderModels[i])
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id, status string) error {
	return r.updateOrderColumn(ctx, id, "order_status", status)
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	return r.updateOrderColumn(ctx, id, "payment_status", status)
}

func (r *orderRepository) updateOrderColumn(ctx context.Context, id, column, value string) error {
	result := r.db.WithContext(ctx).Model(&model.OrderModel{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.SubscriptionModel{}).
		Where("status = ? AND end_at < ?", entity.SubscriptionStatusActive, now).
		Update("status", entity.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}
