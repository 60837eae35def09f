package usecase

import (
	"context"
	"errors"
	"fmt"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/metrics"
	"socialdesk/pkg/money"
	"socialdesk/pkg/notify"
	"socialdesk/pkg/payment"
	"socialdesk/services/reseller/internal/entity"
	"socialdesk/services/reseller/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettingsProvider returns the current withdrawal settings.
type SettingsProvider interface {
	Load(ctx context.Context) (*entity.WithdrawalSettings, error)
}

type WithdrawInput struct {
	ResellerID    string
	AccountID     string
	Amount        decimal.Decimal
	Method        string
	RequesterID   string
	RequesterRole string
}

type WithdrawalUseCase interface {
	Withdraw(ctx context.Context, in WithdrawInput) (*entity.Withdrawal, error)
}

type withdrawalUseCase struct {
	resellerRepo  persistent.ResellerRepository
	transactor    persistent.Transactor
	settings      SettingsProvider
	provider      payment.Provider
	publisher     notify.Publisher
	currency      string
	deductionMode string
	logger        *logger.Logger
}

func NewWithdrawalUseCase(
	resellerRepo persistent.ResellerRepository,
	transactor persistent.Transactor,
	settings SettingsProvider,
	provider payment.Provider,
	publisher notify.Publisher,
	currency string,
	deductionMode string,
	logger *logger.Logger,
) WithdrawalUseCase {
	if deductionMode != entity.DeductNet {
		deductionMode = entity.DeductGross
	}
	return &withdrawalUseCase{
		resellerRepo:  resellerRepo,
		transactor:    transactor,
		settings:      settings,
		provider:      provider,
		publisher:     publisher,
		currency:      currency,
		deductionMode: deductionMode,
		logger:        logger,
	}
}

// Withdraw moves money from the platform account to the reseller's connected
// account and pays it out. The reseller row stays locked for the whole flow so
// concurrent requests for the same reseller are applied one after the other.
func (uc *withdrawalUseCase) Withdraw(ctx context.Context, in WithdrawInput) (*entity.Withdrawal, error) {
	reseller, err := uc.resellerRepo.GetReseller(ctx, in.ResellerID)
	if err != nil {
		return nil, notFoundOr(err, "Reseller not found")
	}
	if in.RequesterRole != "admin" && !reseller.OwnedBy(in.RequesterID) {
		return nil, apperror.Forbidden("You can only withdraw your own earnings")
	}

	settings, err := uc.settings.Load(ctx)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, apperror.Config("Withdrawal settings are not configured")
		}
		return nil, err
	}
	if !settings.AcceptsMethod(in.Method) {
		return nil, apperror.Validation("Payment method %q is not supported", in.Method)
	}
	if !in.Amount.IsPositive() {
		return nil, apperror.Validation("Amount must be greater than zero")
	}
	if in.Amount.LessThan(settings.MinimumWithdrawalAmount) {
		return nil, apperror.Validation("Minimum withdrawal amount is %s", settings.MinimumWithdrawalAmount.StringFixed(2))
	}

	account, err := uc.resellerRepo.GetPayoutAccount(ctx, reseller.ID, in.AccountID)
	if err != nil {
		return nil, notFoundOr(err, "Payout account not found")
	}

	commission := Commission(settings, in.Amount)
	net := in.Amount.Sub(commission).Sub(settings.ProcessingFee)
	netMinor := money.ToMinor(net)

	withdrawal := &entity.Withdrawal{
		ID:            uuid.New().String(),
		ResellerID:    reseller.ID,
		AccountID:     account.ProviderAccountID,
		Method:        in.Method,
		Amount:        in.Amount,
		Commission:    commission,
		ProcessingFee: settings.ProcessingFee,
		FinalAmount:   net,
		Status:        entity.WithdrawalStatusRequested,
	}

	var payoutErr error
	err = uc.transactor.WithinTransaction(ctx, func(resellers persistent.ResellerRepository) error {
		locked, err := resellers.LockReseller(ctx, reseller.ID)
		if err != nil {
			return notFoundOr(err, "Reseller not found")
		}
		if in.Amount.GreaterThan(locked.TotalEarnings) {
			return apperror.InsufficientFunds("Insufficient earnings: available %s", locked.TotalEarnings.StringFixed(2))
		}
		if !net.IsPositive() {
			return apperror.Validation("Amount does not cover commission and processing fee")
		}

		balance, err := uc.provider.AvailableBalance(ctx, uc.currency)
		if err != nil {
			return apperror.Provider(err, "Failed to check platform balance")
		}
		if balance < netMinor {
			return apperror.InsufficientPlatformBalance("Platform balance is insufficient for this withdrawal")
		}

		transferID, err := uc.provider.CreateTransfer(ctx, payment.TransferInput{
			AmountMinor:    netMinor,
			Currency:       uc.currency,
			Destination:    account.ProviderAccountID,
			IdempotencyKey: "withdrawal:" + withdrawal.ID + ":transfer",
		})
		if err != nil {
			return apperror.Provider(err, "Failed to transfer funds to the payout account")
		}
		withdrawal.TransferID = transferID

		// The transfer has left the platform account; from here on the withdrawal is recorded
		// even when the payout fails.
		transactionStatus := entity.TransactionStatusPending
		payoutID, err := uc.provider.CreatePayout(ctx, payment.PayoutInput{
			AmountMinor:      netMinor,
			Currency:         uc.currency,
			ConnectedAccount: account.ProviderAccountID,
			IdempotencyKey:   "withdrawal:" + withdrawal.ID + ":payout",
		})
		if err != nil {
			payoutErr = err
			withdrawal.Status = entity.WithdrawalStatusPayoutFailed
			withdrawal.FailureReason = err.Error()
			transactionStatus = entity.TransactionStatusFailed
		}
		withdrawal.PayoutID = payoutID

		if err := resellers.CreateWithdrawal(ctx, withdrawal); err != nil {
			return err
		}

		userID := ""
		if locked.UserID != nil {
			userID = *locked.UserID
		}
		ref := payoutID
		if ref == "" {
			ref = transferID
		}
		if err := resellers.CreateTransaction(ctx, &entity.PaymentTransaction{
			UserID:      userID,
			ResellerID:  locked.ID,
			ProviderRef: ref,
			Amount:      net,
			Currency:    uc.currency,
			Status:      transactionStatus,
			Type:        entity.TransactionTypeWithdrawal,
		}); err != nil {
			return err
		}

		return resellers.DeductEarnings(ctx, locked.ID, uc.deduction(withdrawal))
	})
	if err != nil {
		metrics.Withdrawals.WithLabelValues(outcome(err)).Inc()
		uc.logger.Error("Withdrawal %s for reseller %s failed: %v", withdrawal.ID, reseller.ID, err)
		return nil, err
	}

	if payoutErr != nil {
		metrics.Withdrawals.WithLabelValues("payout_failed").Inc()
		uc.logger.Error("Payout for withdrawal %s failed after transfer %s: %v", withdrawal.ID, withdrawal.TransferID, payoutErr)
		uc.notify(ctx, reseller, withdrawal, "Your withdrawal could not be paid out to your bank; our team has been notified")
		return withdrawal, apperror.Provider(payoutErr, "Payout failed after transfer; withdrawal recorded as payout_failed")
	}

	metrics.Withdrawals.WithLabelValues("requested").Inc()
	uc.logger.Info("Withdrawal %s for reseller %s: amount=%s commission=%s fee=%s net=%s",
		withdrawal.ID, reseller.ID,
		withdrawal.Amount.StringFixed(2), commission.StringFixed(2), settings.ProcessingFee.StringFixed(2), net.StringFixed(2))

	uc.notify(ctx, reseller, withdrawal, fmt.Sprintf("Your withdrawal of %s %s is on its way", net.StringFixed(2), uc.currency))
	return withdrawal, nil
}

func (uc *withdrawalUseCase) deduction(w *entity.Withdrawal) decimal.Decimal {
	if uc.deductionMode == entity.DeductNet {
		return w.FinalAmount
	}
	return w.Amount
}

func (uc *withdrawalUseCase) notify(ctx context.Context, reseller *entity.Reseller, w *entity.Withdrawal, text string) {
	if reseller.UserID == nil {
		return
	}
	event := notify.Event{
		ReceiverID: *reseller.UserID,
		Text:       text,
		Type:       notify.TypeWithdrawal,
		EntityID:   w.ID,
		Priority:   8,
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("Failed to publish withdrawal notification for %s: %v", w.ID, err)
	}
}

// Commission is the flat commission, or the percentage of amount.
func Commission(settings *entity.WithdrawalSettings, amount decimal.Decimal) decimal.Decimal {
	if settings.IsFlatCommission {
		return settings.FlatCommission
	}
	return money.Percent(amount, settings.PercentageCommission)
}

func outcome(err error) string {
	switch apperror.KindOf(err) {
	case apperror.KindInsufficientFunds:
		return "insufficient_funds"
	case apperror.KindInsufficientPlatformBalance:
		return "insufficient_platform_balance"
	case apperror.KindProvider:
		return "provider_error"
	default:
		return "error"
	}
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, persistent.ErrNotFound) {
		return apperror.NotFound("%s", message)
	}
	return err
}
