package persistent

import (
	"socialdesk/services/order/internal/entity"
	"socialdesk/services/order/internal/model"

	"gorm.io/datatypes"
)

func ToOrderEntity(m *model.OrderModel) *entity.Order {
	if m == nil {
		return nil
	}

	order := &entity.Order{
		ID:              m.ID,
		PackageName:     m.PackageName,
		Amount:          m.Amount,
		UserID:          m.UserID,
		UserName:        m.UserName,
		UserEmail:       m.UserEmail,
		OrderStatus:     m.OrderStatus,
		PaymentStatus:   m.PaymentStatus,
		PaymentIntentID: m.PaymentIntentID,
		SubscriptionID:  m.SubscriptionID,
		Subscription:    ToSubscriptionEntity(m.Subscription),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	for i := range m.Details {
		order.Details = append(order.Details, ToOrderDetailEntity(&m.Details[i]))
	}
	return order
}

// ToOrderModel maps the order row only; details and subscription are written separately.
func ToOrderModel(e *entity.Order) *model.OrderModel {
	if e == nil {
		return nil
	}

	return &model.OrderModel{
		ID:              e.ID,
		PackageName:     e.PackageName,
		Amount:          e.Amount,
		UserID:          e.UserID,
		UserName:        e.UserName,
		UserEmail:       e.UserEmail,
		OrderStatus:     e.OrderStatus,
		PaymentStatus:   e.PaymentStatus,
		PaymentIntentID: e.PaymentIntentID,
		SubscriptionID:  e.SubscriptionID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func ToOrderDetailEntity(m *model.OrderDetailModel) *entity.OrderDetail {
	if m == nil {
		return nil
	}

	return &entity.OrderDetail{
		ID:            m.ID,
		OrderID:       m.OrderID,
		ServiceID:     m.ServiceID,
		ServiceTierID: m.ServiceTierID,
		ServiceName:   m.ServiceName,
		TierName:      m.TierName,
		Quantity:      m.Quantity,
		PostCount:     m.PostCount,
		ServicePrice:  m.ServicePrice,
	}
}

func ToOrderDetailModel(e *entity.OrderDetail) *model.OrderDetailModel {
	if e == nil {
		return nil
	}

	return &model.OrderDetailModel{
		ID:            e.ID,
		OrderID:       e.OrderID,
		ServiceID:     e.ServiceID,
		ServiceTierID: e.ServiceTierID,
		ServiceName:   e.ServiceName,
		TierName:      e.TierName,
		Quantity:      e.Quantity,
		PostCount:     e.PostCount,
		ServicePrice:  e.ServicePrice,
	}
}

func ToSubscriptionEntity(m *model.SubscriptionModel) *entity.Subscription {
	if m == nil {
		return nil
	}

	return &entity.Subscription{
		ID:      m.ID,
		OrderID: m.OrderID,
		UserID:  m.UserID,
		StartAt: m.StartAt,
		EndAt:   m.EndAt,
		Status:  m.Status,
	}
}

func ToSubscriptionModel(e *entity.Subscription) *model.SubscriptionModel {
	if e == nil {
		return nil
	}

	return &model.SubscriptionModel{
		ID:      e.ID,
		OrderID: e.OrderID,
		UserID:  e.UserID,
		StartAt: e.StartAt,
		EndAt:   e.EndAt,
		Status:  e.Status,
	}
}

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:       m.ID,
		Email:    m.Email,
		Name:     m.Name,
		Role:     m.Role,
		UserType: m.UserType,
	}
}

func ToTierEntity(m *model.TierRow) *entity.Tier {
	if m == nil {
		return nil
	}

	return &entity.Tier{
		ID:          m.ID,
		ServiceID:   m.ServiceID,
		ServiceName: m.ServiceName,
		Name:        m.Name,
		Price:       m.Price,
		PostQuota:   m.PostQuota,
	}
}

func ToPaymentTransactionEntity(m *model.PaymentTransactionModel) *entity.PaymentTransaction {
	if m == nil {
		return nil
	}

	return &entity.PaymentTransaction{
		ID:          m.ID,
		UserID:      m.UserID,
		OrderID:     m.OrderID,
		ResellerID:  m.ResellerID,
		ProviderRef: m.ProviderRef,
		Amount:      m.Amount,
		Currency:    m.Currency,
		Status:      m.Status,
		Type:        m.Type,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToPaymentTransactionModel(e *entity.PaymentTransaction) *model.PaymentTransactionModel {
	if e == nil {
		return nil
	}

	return &model.PaymentTransactionModel{
		ID:          e.ID,
		UserID:      e.UserID,
		OrderID:     e.OrderID,
		ResellerID:  e.ResellerID,
		ProviderRef: e.ProviderRef,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Status:      e.Status,
		Type:        e.Type,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToWebhookEventModel(e *entity.WebhookEvent) *model.WebhookEventModel {
	if e == nil {
		return nil
	}

	return &model.WebhookEventModel{
		ID:              e.ID,
		Provider:        e.Provider,
		ProviderEventID: e.ProviderEventID,
		EventType:       e.EventType,
		Payload:         datatypes.JSON(e.Payload),
		ProcessedAt:     e.ProcessedAt,
		ProcessingError: e.ProcessingError,
	}
}
