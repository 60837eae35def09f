package persistent

import (
	"context"
	"errors"

	"socialdesk/services/task/internal/entity"
	"socialdesk/services/task/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type TaskRepository interface {
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	GetRole(ctx context.Context, id string) (*entity.Role, error)
	GetReseller(ctx context.Context, id string) (*entity.Reseller, error)
	GetResellerByUser(ctx context.Context, userID string) (*entity.Reseller, error)
	UserExists(ctx context.Context, id string) (bool, error)

	// FindTask and LockTask read the task row FOR UPDATE; only meaningful inside a transaction.
	FindTask(ctx context.Context, orderID, roleID string) (*entity.TaskAssign, error)
	LockTask(ctx context.Context, id string) (*entity.TaskAssign, error)
	GetTask(ctx context.Context, id string) (*entity.TaskAssign, error)
	CreateTask(ctx context.Context, task *entity.TaskAssign) error
	DeleteTask(ctx context.Context, id string) error
	UpdateTaskStatus(ctx context.Context, id, status string) error
	ListTasksByOrder(ctx context.Context, orderID string) ([]*entity.TaskAssign, error)
	ListTasksByReseller(ctx context.Context, resellerID string) ([]*entity.TaskAssign, error)

	AddAssignee(ctx context.Context, assignee *entity.TaskAssignee) error
	RemoveAssignee(ctx context.Context, taskID, resellerID string) error
	CountAssignees(ctx context.Context, taskID string) (int64, error)

	AdjustTaskCount(ctx context.Context, resellerID string, delta int) error
	CreditCompletedTask(ctx context.Context, resellerID string, amount decimal.Decimal) error

	CreatePost(ctx context.Context, post *entity.TaskPost) error
	GetPost(ctx context.Context, id string) (*entity.TaskPost, error)
	ListPosts(ctx context.Context, taskID string) ([]*entity.TaskPost, error)
	ReviewPost(ctx context.Context, id, status, comment, reviewerID string) error
	CountPosts(ctx context.Context, taskID, status string) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *taskRepository) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	var orderModel model.OrderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&orderModel).Error; err != nil {
		return nil, notFound(err)
	}
	return &entity.Order{
		ID:          orderModel.ID,
		UserID:      orderModel.UserID,
		PackageName: orderModel.PackageName,
		OrderStatus: orderModel.OrderStatus,
	}, nil
}

func (r *taskRepository) GetRole(ctx context.Context, id string) (*entity.Role, error) {
	var roleModel model.RoleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&roleModel).Error; err != nil {
		return nil, notFound(err)
	}
	return &entity.Role{ID: roleModel.ID, Name: roleModel.Name}, nil
}

func (r *taskRepository) GetReseller(ctx context.Context, id string) (*entity.Reseller, error) {
	var resellerModel model.ResellerModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resellerModel).Error; err != nil {
		return nil, notFound(err)
	}
	return ToResellerEntity(&resellerModel), nil
}

func (r *taskRepository) GetResellerByUser(ctx context.Context, userID string) (*entity.Reseller, error) {
	var resellerModel model.ResellerModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&resellerModel).Error; err != nil {
		return nil, notFound(err)
	}
	return ToResellerEntity(&resellerModel), nil
}

func (r *taskRepository) UserExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *taskRepository) FindTask(ctx context.Context, orderID, roleID string) (*entity.TaskAssign, error) {
	return r.findTask(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "order_id = ? AND role_id = ?", orderID, roleID)
}

func (r *taskRepository) LockTask(ctx context.Context, id string) (*entity.TaskAssign, error) {
	return r.findTask(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (r *taskRepository) GetTask(ctx context.Context, id string) (*entity.TaskAssign, error) {
	return r.findTask(r.db.WithContext(ctx), "id = ?", id)
}

func (r *taskRepository) findTask(db *gorm.DB, query string, args ...interface{}) (*entity.TaskAssign, error) {
	var taskModel model.TaskAssignModel
	if err := db.Preload("Assignees").Where(query, args...).First(&taskModel).Error; err != nil {
		return nil, notFound(err)
	}
	return ToTaskEntity(&taskModel), nil
}

func (r *taskRepository) CreateTask(ctx context.Context, task *entity.TaskAssign) error {
	taskModel := ToTaskModel(task)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(taskModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	task.ID = taskModel.ID
	task.CreatedAt = taskModel.CreatedAt
	task.UpdatedAt = taskModel.UpdatedAt
	return nil
}

func (r *taskRepository) DeleteTask(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("task_id = ?", id).Delete(&model.TaskAssigneeModel{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.TaskAssignModel{}).Error
}

func (r *taskRepository) UpdateTaskStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&model.TaskAssignModel{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taskRepository) ListTasksByOrder(ctx context.Context, orderID string) ([]*entity.TaskAssign, error) {
	var taskModels []model.TaskAssignModel
	err := r.db.WithContext(ctx).
		Preload("Assignees").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&taskModels).Error
	if err != nil {
		return nil, err
	}
	return toTaskEntities(taskModels), nil
}

func (r *taskRepository) ListTasksByReseller(ctx context.Context, resellerID string) ([]*entity.TaskAssign, error) {
	var taskModels []model.TaskAssignModel
	err := r.db.WithContext(ctx).
		Preload("Assignees").
		Joins("JOIN task_assignees ON task_assignees.task_id = task_assigns.id").
		Where("task_assignees.reseller_id = ?", resellerID).
		Order("task_assigns.created_at DESC").
		Find(&taskModels).Error
	if err != nil {
		return nil, err
	}
	return toTaskEntities(taskModels), nil
}

func toTaskEntities(taskModels []model.TaskAssignModel) []*entity.TaskAssign {
	tasks := make([]*entity.TaskAssign, len(taskModels))
	for i := range taskModels {
		tasks[i] = ToTaskEntity(&taskModels[i])
	}
	return tasks
}

func (r *taskRepository) AddAssignee(ctx context.Context, assignee *entity.TaskAssignee) error {
	assigneeModel := ToAssigneeModel(assignee)
	if err := r.db.WithContext(ctx).Create(assigneeModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	assignee.ID = assigneeModel.ID
	assignee.CreatedAt = assigneeModel.CreatedAt
	return nil
}

func (r *taskRepository) RemoveAssignee(ctx context.Context, taskID, resellerID string) error {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND reseller_id = ?", taskID, resellerID).
		Delete(&model.TaskAssigneeModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taskRepository) CountAssignees(ctx context.Context, taskID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TaskAssigneeModel{}).Where("task_id = ?", taskID).Count(&count).Error
	return count, err
}

func (r *taskRepository) AdjustTaskCount(ctx context.Context, resellerID string, delta int) error {
	return r.db.WithContext(ctx).Model(&model.ResellerModel{}).
		Where("id = ?", resellerID).
		Update("total_task", gorm.Expr("CASE WHEN total_task + ? < 0 THEN 0 ELSE total_task + ? END", delta, delta)).Error
}

func (r *taskRepository) CreditCompletedTask(ctx context.Context, resellerID string, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.ResellerModel{}).
		Where("id = ?", resellerID).
		Updates(map[string]interface{}{
			"complete_tasks": gorm.Expr("complete_tasks + 1"),
			"total_earnings": gorm.Expr("total_earnings + ?", amount),
		}).Error
}

func (r *taskRepository) CreatePost(ctx context.Context, post *entity.TaskPost) error {
	postModel := ToPostModel(post)
	if err := r.db.WithContext(ctx).Create(postModel).Error; err != nil {
		return err
	}
	post.ID = postModel.ID
	post.CreatedAt = postModel.CreatedAt
	post.UpdatedAt = postModel.UpdatedAt
	return nil
}

func (r *taskRepository) GetPost(ctx context.Context, id string) (*entity.TaskPost, error) {
	var postModel model.TaskPostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, notFound(err)
	}
	return ToPostEntity(&postModel), nil
}

func (r *taskRepository) ListPosts(ctx context.Context, taskID string) ([]*entity.TaskPost, error) {
	var postModels []model.TaskPostModel
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at DESC").Find(&postModels).Error
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.TaskPost, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

func (r *taskRepository) ReviewPost(ctx context.Context, id, status, comment, reviewerID string) error {
	result := r.db.WithContext(ctx).Model(&model.TaskPostModel{}).
		Where("id = ? AND status = ?", id, entity.PostStatusPending).
		Updates(map[string]interface{}{
			"status":         status,
			"review_comment": comment,
			"reviewed_by":    reviewerID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taskRepository) CountPosts(ctx context.Context, taskID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TaskPostModel{}).
		Where("task_id = ? AND status = ?", taskID, status).
		Count(&count).Error
	return count, err
}
