package http

import (
	"net/http"

	"socialdesk/pkg/logger"
	"socialdesk/pkg/response"
	"socialdesk/services/task/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TaskHandler struct {
	taskUseCase usecase.TaskUseCase
	logger      *logger.Logger
}

func NewTaskHandler(taskUseCase usecase.TaskUseCase, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskUseCase: taskUseCase,
		logger:      logger,
	}
}

type AssignRequest struct {
	ResellerID string          `json:"reseller_id" binding:"required"`
	RoleID     string          `json:"role_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	PostCount  int             `json:"post_count" binding:"gte=0"`
	PostType   string          `json:"post_type"`
	Note       string          `json:"note"`
}

type UnassignRequest struct {
	TaskID     string `json:"task_id" binding:"required"`
	ResellerID string `json:"reseller_id" binding:"required"`
	Note       string `json:"note"`
}

// Assign godoc
// @Summary      Assign reseller
// @Description  Assign a reseller to the order's task for a role, creating the task on first assignment
// @Tags         task-management
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        orderId path string true "Order ID"
// @Param        request body AssignRequest true "Assignment"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /task-management/assign/{orderId} [post]
func (h *TaskHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskUseCase.Assign(c.Request.Context(), c.Param("orderId"), usecase.AssignInput{
		ResellerID: req.ResellerID,
		RoleID:     req.RoleID,
		Amount:     req.Amount,
		PostCount:  req.PostCount,
		PostType:   req.PostType,
		Note:       req.Note,
	}, c.GetString("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "Reseller assigned successfully", task)
}

// Unassign godoc
// @Summary      Unassign reseller
// @Description  Remove a reseller from a task. The task is deleted when no assignee remains.
// @Tags         task-management
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        orderId path string true "Order ID"
// @Param        request body UnassignRequest true "Unassignment"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /task-management/unassign/{orderId} [post]
func (h *TaskHandler) Unassign(c *gin.Context) {
	var req UnassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.taskUseCase.Unassign(c.Request.Context(), c.Param("orderId"), usecase.UnassignInput{
		TaskID:     req.TaskID,
		ResellerID: req.ResellerID,
		Note:       req.Note,
	}, c.GetString("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Reseller unassigned successfully"
	if result.Deleted {
		message = "Reseller unassigned and task removed"
	}
	response.OK(c, http.StatusOK, message, result)
}

// GetOrderTasks godoc
// @Summary      List order tasks
// @Tags         task-management
// @Produce      json
// @Security     BearerAuth
// @Param        orderId path string true "Order ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /task-management/order/{orderId} [get]
func (h *TaskHandler) GetOrderTasks(c *gin.Context) {
	tasks, err := h.taskUseCase.GetOrderTasks(c.Request.Context(), c.Param("orderId"), c.GetString("user_id"), c.GetString("user_role"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Tasks retrieved successfully", tasks)
}

// GetResellerTasks godoc
// @Summary      List reseller tasks
// @Tags         task-management
// @Produce      json
// @Security     BearerAuth
// @Param        resellerId path string true "Reseller ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /task-management/reseller/{resellerId} [get]
func (h *TaskHandler) GetResellerTasks(c *gin.Context) {
	tasks, err := h.taskUseCase.GetResellerTasks(c.Request.Context(), c.Param("resellerId"), c.GetString("user_id"), c.GetString("user_role"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Tasks retrieved successfully", tasks)
}
