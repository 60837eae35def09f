package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/payment"
	"socialdesk/pkg/response"
	"socialdesk/services/order/internal/entity"
	"socialdesk/services/order/internal/usecase"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "Stripe-Signature"

// maxWebhookBody caps the raw body read before signature verification.
const maxWebhookBody = 1 << 19

type PaymentHandler struct {
	paymentUseCase usecase.PaymentUseCase
	logger         *logger.Logger
}

func NewPaymentHandler(paymentUseCase usecase.PaymentUseCase, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
		logger:         logger,
	}
}

type PayRequest struct {
	PackageName string            `json:"package_name" binding:"required"`
	Items       []entity.LineItem `json:"items" binding:"required,min=1,dive"`
}

// Pay godoc
// @Summary      Start payment
// @Description  Price the selected tiers and create a payment intent. The order is created when the provider confirms payment.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PayRequest true "Package"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /payment/pay [post]
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.paymentUseCase.Pay(c.Request.Context(), usecase.PayInput{
		UserID:      c.GetString("user_id"),
		PackageName: req.PackageName,
		Items:       req.Items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Payment intent created", result)
}

// Webhook godoc
// @Summary      Payment provider webhook
// @Description  Verifies the signature over the raw body and reconciles the event. Permanent failures answer 200 with received=false, transient ones 500.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature header string true "Webhook signature"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      413  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /payment/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("[WEBHOOK] Body exceeds %d bytes", tooLarge.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"received": false})
			return
		}
		h.logger.Error("[WEBHOOK] Failed to read body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"received": false})
		return
	}

	result, err := h.paymentUseCase.HandleWebhook(c.Request.Context(), payload, c.GetHeader(signatureHeader))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": result.Duplicate})
	case errors.Is(err, payment.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"received": false})
	case apperror.IsPermanent(err):
		c.JSON(http.StatusOK, gin.H{"received": false, "error": apperror.Message(err)})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"received": false, "error": "temporary failure, retry later"})
	}
}

// ListTransactions godoc
// @Summary      List payment transactions
// @Tags         payment
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Limit"  default(50)
// @Param        offset query int false "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /payment/transactions [get]
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	transactions, err := h.paymentUseCase.ListTransactions(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Transactions retrieved successfully", transactions)
}
