package usecase

import (
	"context"
	"errors"
	"fmt"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/metrics"
	"socialdesk/pkg/notify"
	"socialdesk/services/task/internal/entity"
	"socialdesk/services/task/internal/repo/persistent"

	"github.com/shopspring/decimal"
)

type AssignInput struct {
	ResellerID string
	RoleID     string
	Amount     decimal.Decimal
	PostCount  int
	PostType   string
	Note       string
}

type UnassignInput struct {
	TaskID     string
	ResellerID string
	Note       string
}

// UnassignResult carries the remaining task, or Deleted when the last assignee left.
type UnassignResult struct {
	Deleted bool               `json:"deleted"`
	Task    *entity.TaskAssign `json:"task,omitempty"`
}

type TaskUseCase interface {
	Assign(ctx context.Context, orderID string, in AssignInput, assignerID string) (*entity.TaskAssign, error)
	Unassign(ctx context.Context, orderID string, in UnassignInput, actorID string) (*UnassignResult, error)
	GetOrderTasks(ctx context.Context, orderID, requesterID, requesterRole string) ([]*entity.TaskAssign, error)
	GetResellerTasks(ctx context.Context, resellerID, requesterID, requesterRole string) ([]*entity.TaskAssign, error)
}

type taskUseCase struct {
	taskRepo   persistent.TaskRepository
	transactor persistent.Transactor
	publisher  notify.Publisher
	logger     *logger.Logger
}

func NewTaskUseCase(taskRepo persistent.TaskRepository, transactor persistent.Transactor, publisher notify.Publisher, logger *logger.Logger) TaskUseCase {
	return &taskUseCase{
		taskRepo:   taskRepo,
		transactor: transactor,
		publisher:  publisher,
		logger:     logger,
	}
}

func (uc *taskUseCase) Assign(ctx context.Context, orderID string, in AssignInput, assignerID string) (*entity.TaskAssign, error) {
	if in.Amount.IsNegative() {
		return nil, apperror.Validation("Amount must not be negative")
	}
	if in.PostCount < 0 {
		return nil, apperror.Validation("Post count must not be negative")
	}

	order, err := uc.taskRepo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	role, err := uc.taskRepo.GetRole(ctx, in.RoleID)
	if err != nil {
		return nil, notFoundOr(err, "Role not found")
	}
	reseller, err := uc.taskRepo.GetReseller(ctx, in.ResellerID)
	if err != nil {
		return nil, notFoundOr(err, "Reseller not found")
	}
	if reseller.UserID == nil || *reseller.UserID == "" {
		return nil, apperror.Validation("Reseller has no linked user account")
	}
	exists, err := uc.taskRepo.UserExists(ctx, *reseller.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound("Reseller user not found")
	}
	if reseller.Status != entity.ResellerStatusActive {
		return nil, apperror.Validation("Reseller is not active")
	}

	var task *entity.TaskAssign
	err = uc.transactor.WithinTransaction(ctx, func(tasks persistent.TaskRepository) error {
		existing, err := tasks.FindTask(ctx, order.ID, role.ID)
		switch {
		case err == nil:
			if existing.HasAssignee(reseller.ID) {
				return apperror.Conflict("Reseller already assigned to this task")
			}
			task = existing
		case errors.Is(err, persistent.ErrNotFound):
			task = &entity.TaskAssign{
				OrderID:   order.ID,
				RoleID:    role.ID,
				Amount:    in.Amount,
				PostCount: in.PostCount,
				PostType:  in.PostType,
				Note:      in.Note,
				Status:    entity.TaskStatusInProgress,
			}
			if err := tasks.CreateTask(ctx, task); err != nil {
				if errors.Is(err, persistent.ErrDuplicate) {
					return apperror.Conflict("Task for this role was created concurrently, please retry")
				}
				return err
			}
		default:
			return err
		}

		assignee := &entity.TaskAssignee{
			TaskID:     task.ID,
			ResellerID: reseller.ID,
			Amount:     in.Amount,
			Note:       in.Note,
		}
		if err := tasks.AddAssignee(ctx, assignee); err != nil {
			if errors.Is(err, persistent.ErrDuplicate) {
				return apperror.Conflict("Reseller already assigned to this task")
			}
			return err
		}
		task.Assignees = append(task.Assignees, assignee)

		return tasks.AdjustTaskCount(ctx, reseller.ID, 1)
	})
	if err != nil {
		uc.logger.Error("Failed to assign reseller %s to order %s role %s: %v", reseller.ID, orderID, in.RoleID, err)
		return nil, err
	}

	metrics.TaskAssignments.WithLabelValues("assign").Inc()
	uc.logger.Info("Reseller %s assigned to task %s (order %s, role %s)", reseller.ID, task.ID, order.ID, role.Name)

	uc.publish(ctx, notify.Event{
		SenderID:   assignerID,
		ReceiverID: *reseller.UserID,
		Text:       fmt.Sprintf("You have been assigned as %s on %s", role.Name, order.PackageName),
		Type:       notify.TypeTaskAssigned,
		EntityID:   task.ID,
		Priority:   7,
	})
	return task, nil
}

func (uc *taskUseCase) Unassign(ctx context.Context, orderID string, in UnassignInput, actorID string) (*UnassignResult, error) {
	task, err := uc.taskRepo.GetTask(ctx, in.TaskID)
	if err != nil {
		return nil, notFoundOr(err, "Task not found")
	}
	if task.OrderID != orderID {
		return nil, apperror.NotFound("Task not found for this order")
	}
	if !task.HasAssignee(in.ResellerID) {
		return nil, apperror.NotFound("Reseller is not assigned to this task")
	}

	result := &UnassignResult{}
	err = uc.transactor.WithinTransaction(ctx, func(tasks persistent.TaskRepository) error {
		if _, err := tasks.LockTask(ctx, task.ID); err != nil {
			return notFoundOr(err, "Task not found")
		}
		if err := tasks.RemoveAssignee(ctx, task.ID, in.ResellerID); err != nil {
			return notFoundOr(err, "Reseller is not assigned to this task")
		}
		if err := tasks.AdjustTaskCount(ctx, in.ResellerID, -1); err != nil {
			return err
		}

		remaining, err := tasks.CountAssignees(ctx, task.ID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			result.Task, err = tasks.GetTask(ctx, task.ID)
			return err
		}

		result.Deleted = true
		return tasks.DeleteTask(ctx, task.ID)
	})
	if err != nil {
		uc.logger.Error("Failed to unassign reseller %s from task %s: %v", in.ResellerID, in.TaskID, err)
		return nil, err
	}

	action := "unassign"
	if result.Deleted {
		action = "delete"
	}
	metrics.TaskAssignments.WithLabelValues(action).Inc()
	uc.logger.Info("Reseller %s unassigned from task %s (deleted=%t)", in.ResellerID, task.ID, result.Deleted)

	reseller, err := uc.taskRepo.GetReseller(ctx, in.ResellerID)
	if err != nil || reseller.UserID == nil {
		uc.logger.Warn("Skipping unassign notification for reseller %s: no linked user", in.ResellerID)
		return result, nil
	}

	event := notify.Event{
		SenderID:   actorID,
		ReceiverID: *reseller.UserID,
		Text:       "You have been removed from a task",
		Type:       notify.TypeTaskUnassigned,
		EntityID:   task.ID,
		Priority:   5,
	}
	if result.Deleted {
		event.Text = "A task you were assigned to has been removed"
		event.Type = notify.TypeTaskDeleted
	}
	if in.Note != "" {
		event.Text += ": " + in.Note
	}
	uc.publish(ctx, event)

	return result, nil
}

func (uc *taskUseCase) GetOrderTasks(ctx context.Context, orderID, requesterID, requesterRole string) ([]*entity.TaskAssign, error) {
	order, err := uc.taskRepo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if requesterRole != "admin" && order.UserID != requesterID {
		return nil, apperror.Forbidden("You do not have access to this order")
	}

	tasks, err := uc.taskRepo.ListTasksByOrder(ctx, orderID)
	if err != nil {
		uc.logger.Error("Failed to list tasks for order %s: %v", orderID, err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (uc *taskUseCase) GetResellerTasks(ctx context.Context, resellerID, requesterID, requesterRole string) ([]*entity.TaskAssign, error) {
	reseller, err := uc.taskRepo.GetReseller(ctx, resellerID)
	if err != nil {
		return nil, notFoundOr(err, "Reseller not found")
	}
	if requesterRole != "admin" && (reseller.UserID == nil || *reseller.UserID != requesterID) {
		return nil, apperror.Forbidden("You do not have access to these tasks")
	}

	tasks, err := uc.taskRepo.ListTasksByReseller(ctx, resellerID)
	if err != nil {
		uc.logger.Error("Failed to list tasks for reseller %s: %v", resellerID, err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (uc *taskUseCase) publish(ctx context.Context, event notify.Event) {
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("Failed to publish %s notification for %s: %v", event.Type, event.EntityID, err)
	}
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, persistent.ErrNotFound) {
		return apperror.NotFound("%s", message)
	}
	return err
}
