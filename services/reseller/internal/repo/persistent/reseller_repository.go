package persistent

import (
	"context"
	"errors"

	"socialdesk/pkg/models"
	"socialdesk/services/reseller/internal/entity"
	"socialdesk/services/reseller/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

type ResellerRepository interface {
	GetReseller(ctx context.Context, id string) (*entity.Reseller, error)
	// LockReseller reads the reseller row FOR UPDATE; only meaningful inside a transaction.
	LockReseller(ctx context.Context, id string) (*entity.Reseller, error)
	DeductEarnings(ctx context.Context, id string, amount decimal.Decimal) error

	GetPayoutAccount(ctx context.Context, resellerID, providerAccountID string) (*entity.PayoutAccount, error)
	ListPayoutAccounts(ctx context.Context, resellerID string) ([]*entity.PayoutAccount, error)
	CreatePayoutAccount(ctx context.Context, account *entity.PayoutAccount) error

	CreateWithdrawal(ctx context.Context, withdrawal *entity.Withdrawal) error
	ListWithdrawals(ctx context.Context, resellerID string, limit, offset int) ([]*entity.Withdrawal, error)
	CreateTransaction(ctx context.Context, transaction *entity.PaymentTransaction) error
}

type resellerRepository struct {
	db *gorm.DB
}

func NewResellerRepository(db *gorm.DB) ResellerRepository {
	return &resellerRepository{db: db}
}

func (r *resellerRepository) GetReseller(ctx context.Context, id string) (*entity.Reseller, error) {
	return r.findReseller(r.db.WithContext(ctx), id)
}

func (r *resellerRepository) LockReseller(ctx context.Context, id string) (*entity.Reseller, error) {
	return r.findReseller(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *resellerRepository) findReseller(db *gorm.DB, id string) (*entity.Reseller, error) {
	var resellerModel models.Reseller
	if err := db.Where("id = ?", id).First(&resellerModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToResellerEntity(&resellerModel), nil
}

func (r *resellerRepository) DeductEarnings(ctx context.Context, id string, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.Reseller{}).
		Where("id = ?", id).
		Update("total_earnings", gorm.Expr("total_earnings - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *resellerRepository) GetPayoutAccount(ctx context.Context, resellerID, providerAccountID string) (*entity.PayoutAccount, error) {
	var accountModel model.PayoutAccountModel
	err := r.db.WithContext(ctx).
		Where("reseller_id = ? AND provider_account_id = ?", resellerID, providerAccountID).
		First(&accountModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToPayoutAccountEntity(&accountModel), nil
}

func (r *resellerRepository) ListPayoutAccounts(ctx context.Context, resellerID string) ([]*entity.PayoutAccount, error) {
	var accountModels []model.PayoutAccountModel
	err := r.db.WithContext(ctx).
		Where("reseller_id = ?", resellerID).
		Order("is_default DESC, created_at ASC").
		Find(&accountModels).Error
	if err != nil {
		return nil, err
	}

	accounts := make([]*entity.PayoutAccount, len(accountModels))
	for i := range accountModels {
		accounts[i] = ToPayoutAccountEntity(&accountModels[i])
	}
	return accounts, nil
}

func (r *resellerRepository) CreatePayoutAccount(ctx context.Context, account *entity.PayoutAccount) error {
	accountModel := ToPayoutAccountModel(account)
	if err := r.db.WithContext(ctx).Create(accountModel).Error; err != nil {
		return err
	}
	account.ID = accountModel.ID
	account.CreatedAt = accountModel.CreatedAt
	return nil
}

func (r *resellerRepository) CreateWithdrawal(ctx context.Context, withdrawal *entity.Withdrawal) error {
	withdrawalModel := ToWithdrawalModel(withdrawal)
	if err := r.db.WithContext(ctx).Create(withdrawalModel).Error; err != nil {
		return err
	}
	withdrawal.ID = withdrawalModel.ID
	withdrawal.CreatedAt = withdrawalModel.CreatedAt
	return nil
}

func (r *resellerRepository) ListWithdrawals(ctx context.Context, resellerID string, limit, offset int) ([]*entity.Withdrawal, error) {
	var withdrawalModels []model.WithdrawalModel
	err := r.db.WithContext(ctx).
		Where("reseller_id = ?", resellerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&withdrawalModels).Error
	if err != nil {
		return nil, err
	}

	withdrawals := make([]*entity.Withdrawal, len(withdrawalModels))
	for i := range withdrawalModels {
		withdrawals[i] = ToWithdrawalEntity(&withdrawalModels[i])
	}
	return withdrawals, nil
}

func (r *resellerRepository) CreateTransaction(ctx context.Context, transaction *entity.PaymentTransaction) error {
	transactionModel := ToTransactionModel(transaction)
	if err := r.db.WithContext(ctx).Create(transactionModel).Error; err != nil {
		return err
	}
	transaction.ID = transactionModel.ID
	transaction.CreatedAt = transactionModel.CreatedAt
	return nil
}
