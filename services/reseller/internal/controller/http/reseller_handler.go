package http

import (
	"net/http"
	"strconv"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/response"
	"socialdesk/services/reseller/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ResellerHandler struct {
	resellerUseCase   usecase.ResellerUseCase
	withdrawalUseCase usecase.WithdrawalUseCase
	logger            *logger.Logger
}

func NewResellerHandler(resellerUseCase usecase.ResellerUseCase, withdrawalUseCase usecase.WithdrawalUseCase, logger *logger.Logger) *ResellerHandler {
	return &ResellerHandler{
		resellerUseCase:   resellerUseCase,
		withdrawalUseCase: withdrawalUseCase,
		logger:            logger,
	}
}

type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"number"`
	Method string          `json:"method" binding:"required"`
}

type SettingsRequest struct {
	MinimumWithdrawalAmount decimal.Decimal `json:"minimum_withdrawal_amount" swaggertype:"number"`
	IsFlatCommission        bool            `json:"is_flat_commission"`
	FlatCommission          decimal.Decimal `json:"flat_commission" swaggertype:"number"`
	PercentageCommission    decimal.Decimal `json:"percentage_commission" swaggertype:"number"`
	ProcessingFee           decimal.Decimal `json:"processing_fee" swaggertype:"number"`
	PaymentMethods          []string        `json:"payment_methods" binding:"required,min=1"`
}

// Withdraw godoc
// @Summary      Withdraw earnings
// @Description  Transfer earnings to the reseller's connected account and pay them out
// @Tags         reseller-profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resellerId path string true "Reseller ID"
// @Param        accountId  path string true "Connected account ID"
// @Param        request body WithdrawRequest true "Withdrawal"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /reseller-profile/{resellerId}/withdraw/{accountId} [post]
func (h *ResellerHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	withdrawal, err := h.withdrawalUseCase.Withdraw(c.Request.Context(), usecase.WithdrawInput{
		ResellerID:    c.Param("resellerId"),
		AccountID:     c.Param("accountId"),
		Amount:        req.Amount,
		Method:        req.Method,
		RequesterID:   c.GetString("user_id"),
		RequesterRole: c.GetString("user_role"),
	})
	if err != nil {
		if withdrawal != nil {
			// payout failed after the transfer; the recorded withdrawal goes back with the error
			c.JSON(response.StatusFor(err), gin.H{"success": false, "message": apperror.Message(err), "data": withdrawal})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "Withdrawal requested successfully", withdrawal)
}

// GetProfile godoc
// @Summary      Get reseller profile
// @Tags         reseller-profile
// @Produce      json
// @Security     BearerAuth
// @Param        resellerId path string true "Reseller ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /reseller-profile/{resellerId} [get]
func (h *ResellerHandler) GetProfile(c *gin.Context) {
	reseller, err := h.resellerUseCase.GetProfile(c.Request.Context(), c.Param("resellerId"), c.GetString("user_id"), c.GetString("user_role"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Reseller retrieved successfully", reseller)
}

// ListWithdrawals godoc
// @Summary      List withdrawals
// @Tags         reseller-profile
// @Produce      json
// @Security     BearerAuth
// @Param        resellerId path  string true  "Reseller ID"
// @Param        limit      query int    false "Limit"  default(20)
// @Param        offset     query int    false "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /reseller-profile/{resellerId}/withdrawals [get]
func (h *ResellerHandler) ListWithdrawals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	withdrawals, err := h.resellerUseCase.ListWithdrawals(c.Request.Context(), c.Param("resellerId"), c.GetString("user_id"), c.GetString("user_role"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Withdrawals retrieved successfully", withdrawals)
}

// CreateConnectAccount godoc
// @Summary      Create payout account
// @Description  Create a connected account at the payment provider and return its onboarding link
// @Tags         reseller-profile
// @Produce      json
// @Security     BearerAuth
// @Param        resellerId path string true "Reseller ID"
// @Success      201  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /reseller-profile/{resellerId}/connect-account [post]
func (h *ResellerHandler) CreateConnectAccount(c *gin.Context) {
	result, err := h.resellerUseCase.CreateConnectAccount(c.Request.Context(), c.Param("resellerId"), c.GetString("user_id"), c.GetString("user_role"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "Payout account created", result)
}

// GetSettings godoc
// @Summary      Get withdrawal settings
// @Tags         withdrawal-settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /withdrawal-settings [get]
func (h *ResellerHandler) GetSettings(c *gin.Context) {
	settings, err := h.resellerUseCase.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Settings retrieved successfully", settings)
}

// UpdateSettings godoc
// @Summary      Update withdrawal settings
// @Tags         withdrawal-settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SettingsRequest true "Settings"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /withdrawal-settings [put]
func (h *ResellerHandler) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	settings, err := h.resellerUseCase.UpdateSettings(c.Request.Context(), usecase.SettingsInput{
		MinimumWithdrawalAmount: req.MinimumWithdrawalAmount,
		IsFlatCommission:        req.IsFlatCommission,
		FlatCommission:          req.FlatCommission,
		PercentageCommission:    req.PercentageCommission,
		ProcessingFee:           req.ProcessingFee,
		PaymentMethods:          req.PaymentMethods,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Settings updated successfully", settings)
}
