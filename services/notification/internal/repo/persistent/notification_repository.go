package persistent

import (
	"context"
	"errors"
	"fmt"

	"socialdesk/services/notification/internal/entity"
	"socialdesk/services/notification/internal/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByReceiver(ctx context.Context, receiverID string, limit, offset int) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
	MarkRead(ctx context.Context, id, receiverID string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	m, err := ToNotificationModel(notification)
	if err != nil {
		return fmt.Errorf("failed to encode notification data: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	notification.ID = m.ID
	notification.CreatedAt = m.CreatedAt
	return nil
}

func (r *notificationRepository) ListByReceiver(ctx context.Context, receiverID string, limit, offset int) ([]*entity.Notification, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.NotificationModel{}).Where("receiver_id = ?", receiverID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []model.NotificationModel
	if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	notifications := make([]*entity.Notification, len(models))
	for i := range models {
		notifications[i] = ToNotificationEntity(&models[i])
	}
	return notifications, total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, receiverID string) error {
	result := r.db.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
