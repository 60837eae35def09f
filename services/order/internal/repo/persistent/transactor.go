package persistent

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn with repositories bound to a single database transaction.
// Returning an error from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(orders OrderRepository, payments PaymentRepository) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(orders OrderRepository, payments PaymentRepository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewOrderRepository(tx), NewPaymentRepository(tx))
	})
}
