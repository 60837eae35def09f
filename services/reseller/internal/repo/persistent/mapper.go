package persistent

import (
	"strings"

	"socialdesk/pkg/models"
	"socialdesk/services/reseller/internal/entity"
	"socialdesk/services/reseller/internal/model"
)

func ToResellerEntity(m *models.Reseller) *entity.Reseller {
	return &entity.Reseller{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		Email:         m.Email,
		Status:        m.Status,
		TotalTask:     m.TotalTask,
		TotalEarnings: m.TotalEarnings,
		CompleteTasks: m.CompleteTasks,
		CreatedAt:     m.CreatedAt,
	}
}

func ToPayoutAccountEntity(m *model.PayoutAccountModel) *entity.PayoutAccount {
	return &entity.PayoutAccount{
		ID:                m.ID,
		ResellerID:        m.ResellerID,
		ProviderAccountID: m.ProviderAccountID,
		IsDefault:         m.IsDefault,
		CreatedAt:         m.CreatedAt,
	}
}

func ToPayoutAccountModel(e *entity.PayoutAccount) *model.PayoutAccountModel {
	return &model.PayoutAccountModel{
		ID:                e.ID,
		ResellerID:        e.ResellerID,
		ProviderAccountID: e.ProviderAccountID,
		IsDefault:         e.IsDefault,
	}
}

func ToWithdrawalEntity(m *model.WithdrawalModel) *entity.Withdrawal {
	return &entity.Withdrawal{
		ID:            m.ID,
		ResellerID:    m.ResellerID,
		AccountID:     m.AccountID,
		Method:        m.Method,
		Amount:        m.Amount,
		Commission:    m.Commission,
		ProcessingFee: m.ProcessingFee,
		FinalAmount:   m.FinalAmount,
		Status:        m.Status,
		TransferID:    m.TransferID,
		PayoutID:      m.PayoutID,
		FailureReason: m.FailureReason,
		CreatedAt:     m.CreatedAt,
	}
}

func ToWithdrawalModel(e *entity.Withdrawal) *model.WithdrawalModel {
	return &model.WithdrawalModel{
		ID:            e.ID,
		ResellerID:    e.ResellerID,
		AccountID:     e.AccountID,
		Method:        e.Method,
		Amount:        e.Amount,
		Commission:    e.Commission,
		ProcessingFee: e.ProcessingFee,
		FinalAmount:   e.FinalAmount,
		Status:        e.Status,
		TransferID:    e.TransferID,
		PayoutID:      e.PayoutID,
		FailureReason: e.FailureReason,
	}
}

func ToTransactionModel(e *entity.PaymentTransaction) *model.PaymentTransactionModel {
	var userID, resellerID *string
	if e.UserID != "" {
		userID = &e.UserID
	}
	if e.ResellerID != "" {
		resellerID = &e.ResellerID
	}
	return &model.PaymentTransactionModel{
		ID:          e.ID,
		UserID:      userID,
		ResellerID:  resellerID,
		ProviderRef: e.ProviderRef,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Status:      e.Status,
		Type:        e.Type,
	}
}

// Payment methods are stored as a comma separated list.
func ToSettingsEntity(m *models.WithdrawalSettings) *entity.WithdrawalSettings {
	var methods []string
	for _, method := range strings.Split(m.PaymentMethods, ",") {
		if method = strings.TrimSpace(method); method != "" {
			methods = append(methods, method)
		}
	}
	return &entity.WithdrawalSettings{
		MinimumWithdrawalAmount: m.MinimumWithdrawalAmount,
		IsFlatCommission:        m.IsFlatCommission,
		FlatCommission:          m.FlatCommission,
		PercentageCommission:    m.PercentageCommission,
		ProcessingFee:           m.ProcessingFee,
		PaymentMethods:          methods,
		UpdatedAt:               m.UpdatedAt,
	}
}

func ToSettingsModel(e *entity.WithdrawalSettings) *models.WithdrawalSettings {
	return &models.WithdrawalSettings{
		ID:                      settingsRowID,
		MinimumWithdrawalAmount: e.MinimumWithdrawalAmount,
		IsFlatCommission:        e.IsFlatCommission,
		FlatCommission:          e.FlatCommission,
		PercentageCommission:    e.PercentageCommission,
		ProcessingFee:           e.ProcessingFee,
		PaymentMethods:          strings.Join(e.PaymentMethods, ","),
	}
}
