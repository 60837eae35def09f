package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/payment"
	"socialdesk/services/reseller/internal/entity"
	"socialdesk/services/reseller/internal/repo/persistent"

	"github.com/shopspring/decimal"
)

type ConnectAccountResult struct {
	Account       *entity.PayoutAccount `json:"account"`
	OnboardingURL string                `json:"onboarding_url"`
}

type SettingsInput struct {
	MinimumWithdrawalAmount decimal.Decimal
	IsFlatCommission        bool
	FlatCommission          decimal.Decimal
	PercentageCommission    decimal.Decimal
	ProcessingFee           decimal.Decimal
	PaymentMethods          []string
}

type ResellerUseCase interface {
	GetProfile(ctx context.Context, resellerID, requesterID, requesterRole string) (*entity.Reseller, error)
	ListWithdrawals(ctx context.Context, resellerID, requesterID, requesterRole string, limit, offset int) ([]*entity.Withdrawal, error)
	CreateConnectAccount(ctx context.Context, resellerID, requesterID, requesterRole string) (*ConnectAccountResult, error)
	GetSettings(ctx context.Context) (*entity.WithdrawalSettings, error)
	UpdateSettings(ctx context.Context, in SettingsInput) (*entity.WithdrawalSettings, error)
}

type resellerUseCase struct {
	resellerRepo persistent.ResellerRepository
	settingsRepo persistent.SettingsRepository
	provider     payment.Provider
	logger       *logger.Logger
}

func NewResellerUseCase(
	resellerRepo persistent.ResellerRepository,
	settingsRepo persistent.SettingsRepository,
	provider payment.Provider,
	logger *logger.Logger,
) ResellerUseCase {
	return &resellerUseCase{
		resellerRepo: resellerRepo,
		settingsRepo: settingsRepo,
		provider:     provider,
		logger:       logger,
	}
}

func (uc *resellerUseCase) authorize(ctx context.Context, resellerID, requesterID, requesterRole string) (*entity.Reseller, error) {
	reseller, err := uc.resellerRepo.GetReseller(ctx, resellerID)
	if err != nil {
		return nil, notFoundOr(err, "Reseller not found")
	}
	if requesterRole != "admin" && !reseller.OwnedBy(requesterID) {
		return nil, apperror.Forbidden("You do not have access to this reseller")
	}
	return reseller, nil
}

func (uc *resellerUseCase) GetProfile(ctx context.Context, resellerID, requesterID, requesterRole string) (*entity.Reseller, error) {
	reseller, err := uc.authorize(ctx, resellerID, requesterID, requesterRole)
	if err != nil {
		return nil, err
	}

	accounts, err := uc.resellerRepo.ListPayoutAccounts(ctx, reseller.ID)
	if err != nil {
		uc.logger.Error("Failed to list payout accounts for reseller %s: %v", reseller.ID, err)
		return nil, fmt.Errorf("failed to list payout accounts: %w", err)
	}
	reseller.PayoutAccounts = accounts
	return reseller, nil
}

func (uc *resellerUseCase) ListWithdrawals(ctx context.Context, resellerID, requesterID, requesterRole string, limit, offset int) ([]*entity.Withdrawal, error) {
	if _, err := uc.authorize(ctx, resellerID, requesterID, requesterRole); err != nil {
		return nil, err
	}

	withdrawals, err := uc.resellerRepo.ListWithdrawals(ctx, resellerID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to list withdrawals for reseller %s: %v", resellerID, err)
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return withdrawals, nil
}

func (uc *resellerUseCase) CreateConnectAccount(ctx context.Context, resellerID, requesterID, requesterRole string) (*ConnectAccountResult, error) {
	reseller, err := uc.authorize(ctx, resellerID, requesterID, requesterRole)
	if err != nil {
		return nil, err
	}
	if reseller.Email == "" {
		return nil, apperror.Validation("Reseller email is required to create a payout account")
	}

	existing, err := uc.resellerRepo.ListPayoutAccounts(ctx, reseller.ID)
	if err != nil {
		return nil, err
	}

	accountID, err := uc.provider.CreateConnectAccount(ctx, reseller.Email)
	if err != nil {
		uc.logger.Error("Failed to create connect account for reseller %s: %v", reseller.ID, err)
		return nil, apperror.Provider(err, "Failed to create payout account")
	}

	account := &entity.PayoutAccount{
		ResellerID:        reseller.ID,
		ProviderAccountID: accountID,
		IsDefault:         len(existing) == 0,
	}
	if err := uc.resellerRepo.CreatePayoutAccount(ctx, account); err != nil {
		uc.logger.Error("Failed to store payout account %s for reseller %s: %v", accountID, reseller.ID, err)
		return nil, err
	}

	link, err := uc.provider.CreateAccountLink(ctx, accountID)
	if err != nil {
		uc.logger.Error("Failed to create onboarding link for account %s: %v", accountID, err)
		return nil, apperror.Provider(err, "Failed to create onboarding link")
	}

	uc.logger.Info("Payout account %s created for reseller %s", accountID, reseller.ID)
	return &ConnectAccountResult{Account: account, OnboardingURL: link}, nil
}

func (uc *resellerUseCase) GetSettings(ctx context.Context) (*entity.WithdrawalSettings, error) {
	settings, err := uc.settingsRepo.Load(ctx)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, apperror.Config("Withdrawal settings are not configured")
		}
		return nil, err
	}
	return settings, nil
}

var hundred = decimal.NewFromInt(100)

func (uc *resellerUseCase) UpdateSettings(ctx context.Context, in SettingsInput) (*entity.WithdrawalSettings, error) {
	if in.MinimumWithdrawalAmount.IsNegative() {
		return nil, apperror.Validation("Minimum withdrawal amount must not be negative")
	}
	if in.ProcessingFee.IsNegative() {
		return nil, apperror.Validation("Processing fee must not be negative")
	}
	if in.FlatCommission.IsNegative() {
		return nil, apperror.Validation("Flat commission must not be negative")
	}
	if in.PercentageCommission.IsNegative() || in.PercentageCommission.GreaterThan(hundred) {
		return nil, apperror.Validation("Percentage commission must be between 0 and 100")
	}

	var methods []string
	for _, m := range in.PaymentMethods {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if strings.Contains(m, ",") {
			return nil, apperror.Validation("Payment method names must not contain commas")
		}
		methods = append(methods, m)
	}
	if len(methods) == 0 {
		return nil, apperror.Validation("At least one payment method is required")
	}

	settings := &entity.WithdrawalSettings{
		MinimumWithdrawalAmount: in.MinimumWithdrawalAmount,
		IsFlatCommission:        in.IsFlatCommission,
		FlatCommission:          in.FlatCommission,
		PercentageCommission:    in.PercentageCommission,
		ProcessingFee:           in.ProcessingFee,
		PaymentMethods:          methods,
	}
	if err := uc.settingsRepo.Save(ctx, settings); err != nil {
		uc.logger.Error("Failed to save withdrawal settings: %v", err)
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	uc.logger.Info("Withdrawal settings updated: min=%s flat=%t commission=%s/%s%% fee=%s methods=%v",
		settings.MinimumWithdrawalAmount.StringFixed(2), settings.IsFlatCommission,
		settings.FlatCommission.StringFixed(2), settings.PercentageCommission.StringFixed(2),
		settings.ProcessingFee.StringFixed(2), settings.PaymentMethods)
	return settings, nil
}
