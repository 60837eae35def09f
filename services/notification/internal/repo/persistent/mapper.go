package persistent

import (
	"encoding/json"

	"socialdesk/services/notification/internal/entity"
	"socialdesk/services/notification/internal/model"

	"gorm.io/datatypes"
)

func ToNotificationEntity(m *model.NotificationModel) *entity.Notification {
	if m == nil {
		return nil
	}

	n := &entity.Notification{
		ID:         m.ID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		Type:       m.Type,
		EntityID:   m.EntityID,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
	if m.SenderID != nil {
		n.SenderID = *m.SenderID
	}
	if len(m.Data) > 0 {
		// rows written by hand may carry anything; a bad payload only loses Data
		_ = json.Unmarshal(m.Data, &n.Data)
	}
	return n
}

func ToNotificationModel(e *entity.Notification) (*model.NotificationModel, error) {
	if e == nil {
		return nil, nil
	}

	m := &model.NotificationModel{
		ID:         e.ID,
		ReceiverID: e.ReceiverID,
		Text:       e.Text,
		Type:       e.Type,
		EntityID:   e.EntityID,
		IsRead:     e.IsRead,
	}
	if e.SenderID != "" {
		sender := e.SenderID
		m.SenderID = &sender
	}
	if e.Data != nil {
		raw, err := json.Marshal(e.Data)
		if err != nil {
			return nil, err
		}
		m.Data = datatypes.JSON(raw)
	}
	return m, nil
}
