package persistent

import (
	"context"
	"errors"

	"socialdesk/services/order/internal/entity"
	"socialdesk/services/order/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	CreateTransaction(ctx context.Context, transaction *entity.PaymentTransaction) error
	GetTransactionByProviderRef(ctx context.Context, providerRef string) (*entity.PaymentTransaction, error)
	UpdateTransaction(ctx context.Context, transaction *entity.PaymentTransaction) error
	ListTransactions(ctx context.Context, limit, offset int) ([]*entity.PaymentTransaction, error)

	// ClaimEvent inserts the event row and reports false if the provider event id was already stored.
	ClaimEvent(ctx context.Context, event *entity.WebhookEvent) (bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateTransaction(ctx context.Context, transaction *entity.PaymentTransaction) error {
	transactionModel := ToPaymentTransactionModel(transaction)
	if err := r.db.WithContext(ctx).Create(transactionModel).Error; err != nil {
		return err
	}
	transaction.ID = transactionModel.ID
	transaction.CreatedAt = transactionModel.CreatedAt
	return nil
}

func (r *paymentRepository) GetTransactionByProviderRef(ctx context.Context, providerRef string) (*entity.PaymentTransaction, error) {
	var transactionModel model.PaymentTransactionModel
	err := r.db.WithContext(ctx).
		Where("provider_ref = ? AND type = ?", providerRef, entity.TransactionTypePayment).
		Order("created_at DESC").
		First(&transactionModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToPaymentTransactionEntity(&transactionModel), nil
}

func (r *paymentRepository) UpdateTransaction(ctx context.Context, transaction *entity.PaymentTransaction) error {
	return r.db.WithContext(ctx).Model(&model.PaymentTransactionModel{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]interface{}{
			"status":   transaction.Status,
			"amount":   transaction.Amount,
			"currency": transaction.Currency,
			"order_id": transaction.OrderID,
		}).Error
}

func (r *paymentRepository) ListTransactions(ctx context.Context, limit, offset int) ([]*entity.PaymentTransaction, error) {
	var transactionModels []model.PaymentTransactionModel
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.PaymentTransaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = ToPaymentTransactionEntity(&transactionModels[i])
	}
	return transactions, nil
}

func (r *paymentRepository) ClaimEvent(ctx context.Context, event *entity.WebhookEvent) (bool, error) {
	eventModel := ToWebhookEventModel(event)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "provider_event_id"}}, DoNothing: true}).
		Create(eventModel)
	if result.Error != nil {
		return false, result.Error
	}
	event.ID = eventModel.ID
	return result.RowsAffected == 1, nil
}
