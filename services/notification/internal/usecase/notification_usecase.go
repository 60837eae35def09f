package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/metrics"
	"socialdesk/pkg/notify"
	"socialdesk/services/notification/internal/entity"
	"socialdesk/services/notification/internal/repo/persistent"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// Broadcaster delivers a stored notification to the receiver's live sessions.
type Broadcaster interface {
	Push(ctx context.Context, userID string, payload []byte) (int64, error)
}

type NotificationPage struct {
	Notifications []*entity.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
	Unread        int64                  `json:"unread"`
	Limit         int                    `json:"limit"`
	Offset        int                    `json:"offset"`
}

type NotificationUseCase interface {
	HandleEvent(ctx context.Context, event notify.Event) (*entity.Notification, error)
	GetNotifications(ctx context.Context, userID string, limit, offset int) (*NotificationPage, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	broadcaster      Broadcaster
	logger           *logger.Logger
}

func NewNotificationUseCase(notificationRepo persistent.NotificationRepository, broadcaster Broadcaster, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		broadcaster:      broadcaster,
		logger:           logger,
	}
}

// HandleEvent stores the event as a notification row and pushes it to the
// receiver. A failed push is logged only; the row is the source of truth and
// clients catch up through GetNotifications.
func (uc *notificationUseCase) HandleEvent(ctx context.Context, event notify.Event) (*entity.Notification, error) {
	if event.ReceiverID == "" {
		return nil, apperror.Validation("notification %s has no receiver", event.Type)
	}
	if event.Type == "" || event.Text == "" {
		return nil, apperror.Validation("notification for %s is missing type or text", event.ReceiverID)
	}

	notification := &entity.Notification{
		SenderID:   event.SenderID,
		ReceiverID: event.ReceiverID,
		Text:       event.Text,
		Type:       event.Type,
		EntityID:   event.EntityID,
	}
	if event.Priority > 0 {
		notification.Data = map[string]interface{}{"priority": event.Priority}
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		uc.logger.Error("[NOTIFICATION HANDLER] Failed to store %s notification for %s: %v", event.Type, event.ReceiverID, err)
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}
	metrics.NotificationsDelivered.Inc()

	payload, err := json.Marshal(notification)
	if err != nil {
		uc.logger.Error("[NOTIFICATION HANDLER] Failed to marshal notification %s: %v", notification.ID, err)
		return notification, nil
	}

	subscribers, err := uc.broadcaster.Push(ctx, notification.ReceiverID, payload)
	if err != nil {
		uc.logger.Warn("[NOTIFICATION HANDLER] Stored notification %s but push failed: %v", notification.ID, err)
		return notification, nil
	}

	uc.logger.Info("[NOTIFICATION HANDLER] Delivered %s notification %s to %s (live sessions=%d)",
		notification.Type, notification.ID, notification.ReceiverID, subscribers)
	return notification, nil
}

func (uc *notificationUseCase) GetNotifications(ctx context.Context, userID string, limit, offset int) (*NotificationPage, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	notifications, total, err := uc.notificationRepo.ListByReceiver(ctx, userID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to list notifications for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to count unread notifications for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &NotificationPage{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
		Limit:         limit,
		Offset:        offset,
	}, nil
}

func (uc *notificationUseCase) MarkRead(ctx context.Context, id, userID string) error {
	if err := uc.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return apperror.NotFound("Notification not found")
		}
		return err
	}
	return nil
}
