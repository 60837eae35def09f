package http

import (
	"net/http"
	"strconv"

	"socialdesk/pkg/logger"
	"socialdesk/pkg/response"
	"socialdesk/services/order/internal/entity"
	"socialdesk/services/order/internal/usecase"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderUseCase usecase.OrderUseCase
	logger       *logger.Logger
}

func NewOrderHandler(orderUseCase usecase.OrderUseCase, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
		logger:       logger,
	}
}

type CreateOrderRequest struct {
	PackageName string            `json:"package_name" binding:"required"`
	Items       []entity.LineItem `json:"items" binding:"required,min=1,dive"`
	// UserID lets an admin place an order on behalf of a client.
	UserID string `json:"user_id"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder godoc
// @Summary      Create order
// @Description  Create an unpaid order with its details and subscription
// @Tags         order
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateOrderRequest true "Order"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /order [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	purchaserID := c.GetString("user_id")
	if req.UserID != "" && c.GetString("user_role") == "admin" {
		purchaserID = req.UserID
	}

	order, err := h.orderUseCase.CreateOrder(c.Request.Context(), usecase.CreateOrderInput{
		PurchaserID: purchaserID,
		PackageName: req.PackageName,
		Items:       req.Items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "Order created successfully", order)
}

// GetMyOrders godoc
// @Summary      List my orders
// @Tags         order
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Limit"  default(20)
// @Param        offset query int false "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /order/my [get]
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.orderUseCase.GetMyOrders(c.Request.Context(), c.GetString("user_id"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// GetOrder godoc
// @Summary      Get order
// @Tags         order
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /order/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderUseCase.GetOrder(c.Request.Context(), c.Param("id"), c.GetString("user_id"), c.GetString("user_role"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Order retrieved successfully", order)
}

// UpdateOrderStatus godoc
// @Summary      Update order status
// @Tags         order
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body UpdateOrderStatusRequest true "Status"
// @Success      200  {object}  map[string]interface{}
// @Router       /order/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderUseCase.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status, c.GetString("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Order status updated", order)
}
