package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/metrics"
	"socialdesk/pkg/notify"
	"socialdesk/pkg/s3"
	"socialdesk/services/task/internal/entity"
	"socialdesk/services/task/internal/repo/persistent"

	"github.com/google/uuid"
)

type SubmitPostInput struct {
	TaskID      string
	UserID      string
	Caption     string
	FileName    string
	ContentType string
	File        io.Reader
}

type ReviewPostInput struct {
	PostID       string
	ReviewerID   string
	ReviewerRole string
	Approve      bool
	Comment      string
}

// PostUseCase runs the content review loop between resellers and the order's purchaser.
type PostUseCase interface {
	SubmitPost(ctx context.Context, in SubmitPostInput) (*entity.TaskPost, error)
	ReviewPost(ctx context.Context, in ReviewPostInput) (*entity.TaskPost, error)
	ListTaskPosts(ctx context.Context, taskID, requesterID, requesterRole string) ([]*entity.TaskPost, error)
}

type postUseCase struct {
	taskRepo   persistent.TaskRepository
	transactor persistent.Transactor
	storage    s3.Storage
	publisher  notify.Publisher
	logger     *logger.Logger
}

func NewPostUseCase(
	taskRepo persistent.TaskRepository,
	transactor persistent.Transactor,
	storage s3.Storage,
	publisher notify.Publisher,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		taskRepo:   taskRepo,
		transactor: transactor,
		storage:    storage,
		publisher:  publisher,
		logger:     logger,
	}
}

func (uc *postUseCase) SubmitPost(ctx context.Context, in SubmitPostInput) (*entity.TaskPost, error) {
	if in.File == nil {
		return nil, apperror.Validation("Design file is required")
	}

	reseller, err := uc.taskRepo.GetResellerByUser(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, apperror.Forbidden("Only resellers can submit posts")
		}
		return nil, err
	}
	task, err := uc.taskRepo.GetTask(ctx, in.TaskID)
	if err != nil {
		return nil, notFoundOr(err, "Task not found")
	}
	if !task.HasAssignee(reseller.ID) {
		return nil, apperror.Forbidden("You are not assigned to this task")
	}
	if task.Status == entity.TaskStatusCompleted {
		return nil, apperror.Validation("Task is already completed")
	}
	order, err := uc.taskRepo.GetOrder(ctx, task.OrderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fileKey := fmt.Sprintf("tasks/%s/%s%s", task.ID, uuid.New().String(), filepath.Ext(in.FileName))

	fileURL, err := uc.storage.UploadFile(fileKey, in.File, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload design file for task %s: %v", task.ID, err)
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	post := &entity.TaskPost{
		TaskID:     task.ID,
		ResellerID: reseller.ID,
		Caption:    in.Caption,
		FileURL:    fileURL,
		Status:     entity.PostStatusPending,
	}
	err = uc.transactor.WithinTransaction(ctx, func(tasks persistent.TaskRepository) error {
		if err := tasks.CreatePost(ctx, post); err != nil {
			return err
		}
		return tasks.UpdateTaskStatus(ctx, task.ID, entity.TaskStatusClientReview)
	})
	if err != nil {
		uc.logger.Error("Failed to save post for task %s: %v", task.ID, err)
		if delErr := uc.storage.DeleteFile(fileKey); delErr != nil {
			uc.logger.Warn("Failed to delete orphaned file %s: %v", fileKey, delErr)
		}
		return nil, err
	}

	metrics.TaskAssignments.WithLabelValues("submit").Inc()
	uc.logger.Info("Post %s submitted for task %s by reseller %s", post.ID, task.ID, reseller.ID)

	uc.publish(ctx, notify.Event{
		SenderID:   in.UserID,
		ReceiverID: order.UserID,
		Text:       fmt.Sprintf("A new post for %s is waiting for your review", order.PackageName),
		Type:       notify.TypePostSubmitted,
		EntityID:   post.ID,
		Priority:   6,
	})
	return post, nil
}

func (uc *postUseCase) ReviewPost(ctx context.Context, in ReviewPostInput) (*entity.TaskPost, error) {
	post, err := uc.taskRepo.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, notFoundOr(err, "Post not found")
	}
	task, err := uc.taskRepo.GetTask(ctx, post.TaskID)
	if err != nil {
		return nil, notFoundOr(err, "Task not found")
	}
	order, err := uc.taskRepo.GetOrder(ctx, task.OrderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if in.ReviewerRole != "admin" && order.UserID != in.ReviewerID {
		return nil, apperror.Forbidden("Only the order owner can review posts")
	}
	if post.Status != entity.PostStatusPending {
		return nil, apperror.Validation("Post has already been reviewed")
	}

	status := entity.PostStatusRejected
	if in.Approve {
		status = entity.PostStatusApproved
	}

	completed := false
	err = uc.transactor.WithinTransaction(ctx, func(tasks persistent.TaskRepository) error {
		locked, err := tasks.LockTask(ctx, task.ID)
		if err != nil {
			return notFoundOr(err, "Task not found")
		}
		if err := tasks.ReviewPost(ctx, post.ID, status, in.Comment, in.ReviewerID); err != nil {
			if errors.Is(err, persistent.ErrNotFound) {
				return apperror.Validation("Post has already been reviewed")
			}
			return err
		}
		if locked.Status == entity.TaskStatusCompleted {
			return nil
		}

		if in.Approve {
			approved, err := tasks.CountPosts(ctx, locked.ID, entity.PostStatusApproved)
			if err != nil {
				return err
			}
			if approved >= int64(requiredPosts(locked)) {
				completed = true
				if err := tasks.UpdateTaskStatus(ctx, locked.ID, entity.TaskStatusCompleted); err != nil {
					return err
				}
				for _, assignee := range locked.Assignees {
					if err := tasks.CreditCompletedTask(ctx, assignee.ResellerID, assignee.Amount); err != nil {
						return err
					}
				}
				task = locked
				return nil
			}
		}

		pending, err := tasks.CountPosts(ctx, locked.ID, entity.PostStatusPending)
		if err != nil {
			return err
		}
		next := entity.TaskStatusInProgress
		if pending > 0 {
			next = entity.TaskStatusClientReview
		}
		return tasks.UpdateTaskStatus(ctx, locked.ID, next)
	})
	if err != nil {
		uc.logger.Error("Failed to review post %s: %v", post.ID, err)
		return nil, err
	}

	metrics.TaskAssignments.WithLabelValues(status).Inc()
	uc.logger.Info("Post %s %s by %s (task %s completed=%t)", post.ID, status, in.ReviewerID, task.ID, completed)

	uc.notifyReviewed(ctx, in, post, status)
	if completed {
		uc.notifyCompleted(ctx, in.ReviewerID, task, order)
	}

	post.Status = status
	post.ReviewComment = in.Comment
	post.ReviewedBy = &in.ReviewerID
	return post, nil
}

func (uc *postUseCase) ListTaskPosts(ctx context.Context, taskID, requesterID, requesterRole string) ([]*entity.TaskPost, error) {
	task, err := uc.taskRepo.GetTask(ctx, taskID)
	if err != nil {
		return nil, notFoundOr(err, "Task not found")
	}

	if requesterRole != "admin" {
		order, err := uc.taskRepo.GetOrder(ctx, task.OrderID)
		if err != nil {
			return nil, notFoundOr(err, "Order not found")
		}
		if order.UserID != requesterID && !uc.isAssignedUser(ctx, task, requesterID) {
			return nil, apperror.Forbidden("You do not have access to this task")
		}
	}

	posts, err := uc.taskRepo.ListPosts(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (uc *postUseCase) isAssignedUser(ctx context.Context, task *entity.TaskAssign, userID string) bool {
	reseller, err := uc.taskRepo.GetResellerByUser(ctx, userID)
	if err != nil {
		return false
	}
	return task.HasAssignee(reseller.ID)
}

func (uc *postUseCase) notifyReviewed(ctx context.Context, in ReviewPostInput, post *entity.TaskPost, status string) {
	reseller, err := uc.taskRepo.GetReseller(ctx, post.ResellerID)
	if err != nil || reseller.UserID == nil {
		return
	}

	text := "Your post was approved"
	if status == entity.PostStatusRejected {
		text = "Your post was rejected"
	}
	if in.Comment != "" {
		text += ": " + in.Comment
	}
	uc.publish(ctx, notify.Event{
		SenderID:   in.ReviewerID,
		ReceiverID: *reseller.UserID,
		Text:       text,
		Type:       notify.TypePostReviewed,
		EntityID:   post.ID,
		Priority:   6,
	})
}

func (uc *postUseCase) notifyCompleted(ctx context.Context, senderID string, task *entity.TaskAssign, order *entity.Order) {
	for _, assignee := range task.Assignees {
		reseller, err := uc.taskRepo.GetReseller(ctx, assignee.ResellerID)
		if err != nil || reseller.UserID == nil {
			continue
		}
		uc.publish(ctx, notify.Event{
			SenderID:   senderID,
			ReceiverID: *reseller.UserID,
			Text:       fmt.Sprintf("Task for %s is completed, %s added to your earnings", order.PackageName, assignee.Amount.StringFixed(2)),
			Type:       notify.TypeTaskCompleted,
			EntityID:   task.ID,
			Priority:   8,
		})
	}
}

func (uc *postUseCase) publish(ctx context.Context, event notify.Event) {
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("Failed to publish %s notification for %s: %v", event.Type, event.EntityID, err)
	}
}

// requiredPosts is the number of approved posts that completes a task.
func requiredPosts(task *entity.TaskAssign) int {
	if task.PostCount < 1 {
		return 1
	}
	return task.PostCount
}
