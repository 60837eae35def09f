package persistent

import (
	"socialdesk/services/task/internal/entity"
	"socialdesk/services/task/internal/model"
)

func ToTaskEntity(m *model.TaskAssignModel) *entity.TaskAssign {
	task := &entity.TaskAssign{
		ID:        m.ID,
		OrderID:   m.OrderID,
		RoleID:    m.RoleID,
		Amount:    m.Amount,
		PostCount: m.PostCount,
		PostType:  m.PostType,
		Note:      m.Note,
		Status:    m.Status,
		Assignees: make([]*entity.TaskAssignee, 0, len(m.Assignees)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for i := range m.Assignees {
		task.Assignees = append(task.Assignees, ToAssigneeEntity(&m.Assignees[i]))
	}
	return task
}

// ToTaskModel leaves Assignees out; links are written separately.
func ToTaskModel(e *entity.TaskAssign) *model.TaskAssignModel {
	return &model.TaskAssignModel{
		ID:        e.ID,
		OrderID:   e.OrderID,
		RoleID:    e.RoleID,
		Amount:    e.Amount,
		PostCount: e.PostCount,
		PostType:  e.PostType,
		Note:      e.Note,
		Status:    e.Status,
	}
}

func ToAssigneeEntity(m *model.TaskAssigneeModel) *entity.TaskAssignee {
	return &entity.TaskAssignee{
		ID:         m.ID,
		TaskID:     m.TaskID,
		ResellerID: m.ResellerID,
		Amount:     m.Amount,
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
	}
}

func ToAssigneeModel(e *entity.TaskAssignee) *model.TaskAssigneeModel {
	return &model.TaskAssigneeModel{
		ID:         e.ID,
		TaskID:     e.TaskID,
		ResellerID: e.ResellerID,
		Amount:     e.Amount,
		Note:       e.Note,
	}
}

func ToPostEntity(m *model.TaskPostModel) *entity.TaskPost {
	return &entity.TaskPost{
		ID:            m.ID,
		TaskID:        m.TaskID,
		ResellerID:    m.ResellerID,
		Caption:       m.Caption,
		FileURL:       m.FileURL,
		Status:        m.Status,
		ReviewComment: m.ReviewComment,
		ReviewedBy:    m.ReviewedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToPostModel(e *entity.TaskPost) *model.TaskPostModel {
	return &model.TaskPostModel{
		ID:            e.ID,
		TaskID:        e.TaskID,
		ResellerID:    e.ResellerID,
		Caption:       e.Caption,
		FileURL:       e.FileURL,
		Status:        e.Status,
		ReviewComment: e.ReviewComment,
		ReviewedBy:    e.ReviewedBy,
	}
}

func ToResellerEntity(m *model.ResellerModel) *entity.Reseller {
	return &entity.Reseller{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		Email:         m.Email,
		Status:        m.Status,
		TotalTask:     m.TotalTask,
		TotalEarnings: m.TotalEarnings,
		CompleteTasks: m.CompleteTasks,
	}
}
