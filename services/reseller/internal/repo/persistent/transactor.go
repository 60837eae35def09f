package persistent

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn with a ResellerRepository bound to one database transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(resellers ResellerRepository) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(resellers ResellerRepository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewResellerRepository(tx))
	})
}
