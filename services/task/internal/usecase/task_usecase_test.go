package usecase

import (
	"context"
	"errors"
	"testing"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/notify"
	"socialdesk/services/task/internal/entity"
	"socialdesk/services/task/internal/repo/persistent"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID   = "admin-1"
	clientID  = "client-1"
	orderID   = "order-1"
	designer  = "role-design"
	copywrite = "role-copy"
)

func strPtr(s string) *string { return &s }

func seedTaskStore() *memStore {
	store := newMemStore()
	store.addUser(adminID)
	store.addUser(clientID)
	store.addUser("user-ana")
	store.addUser("user-ben")
	store.addUser("user-idle")
	store.addOrder(entity.Order{ID: orderID, UserID: clientID, PackageName: "Social Starter", OrderStatus: "pending"})
	store.addRole(entity.Role{ID: designer, Name: "Designer"})
	store.addRole(entity.Role{ID: copywrite, Name: "Copywriter"})
	store.addReseller(entity.Reseller{ID: "res-ana", UserID: strPtr("user-ana"), Name: "Ana", Status: entity.ResellerStatusActive})
	store.addReseller(entity.Reseller{ID: "res-ben", UserID: strPtr("user-ben"), Name: "Ben", Status: entity.ResellerStatusActive})
	store.addReseller(entity.Reseller{ID: "res-idle", UserID: strPtr("user-idle"), Name: "Idle", Status: "inactive"})
	store.addReseller(entity.Reseller{ID: "res-orphan", Name: "Orphan", Status: entity.ResellerStatusActive})
	store.addReseller(entity.Reseller{ID: "res-ghost", UserID: strPtr("user-gone"), Name: "Ghost", Status: entity.ResellerStatusActive})
	return store
}

func newTaskFixture(t *testing.T) (*memStore, *notify.Recorder, TaskUseCase) {
	t.Helper()
	store := seedTaskStore()
	recorder := &notify.Recorder{}
	return store, recorder, NewTaskUseCase(store, store, recorder, logger.Nop())
}

func assignInput(resellerID, roleID string) AssignInput {
	return AssignInput{
		ResellerID: resellerID,
		RoleID:     roleID,
		Amount:     decimal.RequireFromString("25.00"),
		PostCount:  2,
		PostType:   "carousel",
	}
}

func TestAssign_CreatesTaskAndLinksReseller(t *testing.T) {
	store, recorder, uc := newTaskFixture(t)

	task, err := uc.Assign(context.Background(), orderID, assignInput("res-ana", designer), adminID)
	require.NoError(t, err)

	assert.Equal(t, orderID, task.OrderID)
	assert.Equal(t, designer, task.RoleID)
	assert.Equal(t, entity.TaskStatusInProgress, task.Status)
	require.Len(t, task.Assignees, 1)
	assert.Equal(t, "res-ana", task.Assignees[0].ResellerID)
	assert.Equal(t, 1, store.reseller("res-ana").TotalTask)

	events := recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.TypeTaskAssigned, events[0].Type)
	assert.Equal(t, "user-ana", events[0].ReceiverID)
	assert.Equal(t, adminID, events[0].SenderID)
	assert.Equal(t, task.ID, events[0].EntityID)
}

func TestAssign_SecondResellerJoinsExistingTask(t *testing.T) {
	store, _, uc := newTaskFixture(t)
	ctx := context.Background()

	first, err := uc.Assign(ctx, orderID, assignInput("res-ana", designer), adminID)
	require.NoError(t, err)
	second, err := uc.Assign(ctx, orderID, assignInput("res-ben", designer), adminID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Assignees, 2)
	assert.Equal(t, 1, store.taskCount())
}

func TestAssign_DuplicateTripleConflicts(t *testing.T) {
	store, recorder, uc := newTaskFixture(t)
	ctx := context.Background()

	_, err := uc.Assign(ctx, orderID, assignInput("res-ana", designer), adminID)
	require.NoError(t, err)

	_, err = uc.Assign(ctx, orderID, assignInput("res-ana", designer), adminID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	assert.Equal(t, 1, store.taskCount())
	assert.Equal(t, 1, store.assigneeCount())
	assert.Equal(t, 1, store.reseller("res-ana").TotalTask)
	assert.Len(t, recorder.Events(), 1)
}

func TestAssign_SameResellerDifferentRole(t *testing.T) {
	store, _, uc := newTaskFixture(t)
	ctx := context.Background()

	_, err := uc.Assign(ctx, orderID, assignInput("res-ana", designer), adminID)
	require.NoError(t, err)
	_, err = uc.Assign(ctx, orderID, assignInput("res-ana", copywrite), adminID)
	require.NoError(t, err)

	assert.Equal(t, 2, store.taskCount())
	assert.Equal(t, 2, store.reseller("res-ana").TotalTask)
}

func TestAssign_Failures(t *testing.T) {
	tests := []struct {
		name    string
		orderID string
		input   AssignInput
		kind    apperror.Kind
	}{
		{"unknown order", "order-missing", assignInput("res-ana", designer), apperror.KindNotFound},
		{"unknown role", orderID, assignInput("res-ana", "role-missing"), apperror.KindNotFound},
		{"unknown reseller", orderID, assignInput("res-missing", designer), apperror.KindNotFound},
		{"reseller user deleted", orderID, assignInput("res-ghost", designer), apperror.KindNotFound},
		{"reseller without user", orderID, assignInput("res-orphan", designer), apperror.KindValidation},
		{"inactive reseller", orderID, assignInput("res-idle", designer), apperror.KindValidation},
		{"negative amount", orderID, AssignInput{ResellerID: "res-ana", RoleID: designer, Amount: decimal.NewFromInt(-1)}, apperror.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, recorder, uc := newTaskFixture(t)

			_, err := uc.Assign(context.Background(), tt.orderID, tt.input, adminID)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
			assert.Equal(t, 0, store.taskCount())
			assert.Empty(t, recorder.Events())
		})
	}
}

func TestUnassign_LastAssigneeDeletesTask(t *testing.T) {
	store, recorder, uc := newTaskFixture(t)
	ctx := context.Background()

	task, err := uc.Assign(ctx, orderID, assignInput("res-ana", designer), adminID)
	require.NoError(t, err)

	result, err := uc.Unassign(ctx, orderID, UnassignInput{TaskID: task.ID, ResellerID: "res-ana", Note: "reassigning"}, adminID)
	require.NoError(t, err)

	assert.True(t, result.Deleted)
	assert.Nil(t, result.Task)
	assert.Equal(t, 0, store.taskCount())
	assert.Equal(t, 0, store.assigneeCount())
	assert.Equal(t, 0, store.reseller("res-ana").TotalTask)

	events := recorder.Events()
	require.Len(t, events, 2)
	assert.Equal(t, notify.TypeTaskDeleted, events[1].Type)
	assert.Contains(t, events[1].Text, "reassigning")
}

func TestUnassign_NonLastAssigneeKeepsTask(t *testing.T) {
	store, recorder, uc := newTaskFixture(t)
	ctx := context.Background()

	task, err := uc.Assign(ctx, orderID, assignInput("res-ana", designer), adminID)
	require.NoError(t, err)
	_, err = uc.Assign(ctx, orderID, assignInput("res-ben", designer), adminID)
	require.NoError(t, err)

	result, err := uc.Unassign(ctx, orderID, UnassignInput{TaskID: task.ID, ResellerID: "res-ana"}, adminID)
	require.NoError(t, err)

	assert.False(t, result.Deleted)
	require.NotNil(t, result.Task)
	require.Len(t, result.Task.Assignees, 1)
	assert.Equal(t, "res-ben", result.Task.Assignees[0].ResellerID)
	assert.Equal(t, 1, store.taskCount())
	assert.Equal(t, 0, store.reseller("res-ana").TotalTask)
	assert.Equal(t, 1, store.reseller("res-ben").TotalTask)

	events := recorder.Events()
	assert.Equal(t, notify.TypeTaskUnassigned, events[len(events)-1].Type)
}

func TestUnassign_Failures(t *testing.T) {
	store, _, uc := newTaskFixture(t)
	ctx := context.Background()

	task, err := uc.Assign(ctx, orderID, assignInput("res-ana", designer), adminID)
	require.NoError(t, err)
	store.addOrder(entity.Order{ID: "order-2", UserID: clientID, PackageName: "Other"})

	tests := []struct {
		name    string
		orderID string
		input   UnassignInput
	}{
		{"unknown task", orderID, UnassignInput{TaskID: "task-missing", ResellerID: "res-ana"}},
		{"task of another order", "order-2", UnassignInput{TaskID: task.ID, ResellerID: "res-ana"}},
		{"reseller not assigned", orderID, UnassignInput{TaskID: task.ID, ResellerID: "res-ben"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Unassign(ctx, tt.orderID, tt.input, adminID)
			require.Error(t, err)
			assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		})
	}

	assert.Equal(t, 1, store.taskCount())
	assert.Equal(t, 1, store.reseller("res-ana").TotalTask)
}

func TestGetOrderTasks_Access(t *testing.T) {
	_, _, uc := newTaskFixture(t)
	ctx := context.Background()

	_, err := uc.Assign(ctx, orderID, assignInput("res-ana", designer), adminID)
	require.NoError(t, err)

	tasks, err := uc.GetOrderTasks(ctx, orderID, clientID, "client")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	tasks, err = uc.GetOrderTasks(ctx, orderID, adminID, "admin")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	_, err = uc.GetOrderTasks(ctx, orderID, "someone", "client")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = uc.GetOrderTasks(ctx, "order-missing", adminID, "admin")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestGetResellerTasks_Access(t *testing.T) {
	_, _, uc := newTaskFixture(t)
	ctx := context.Background()

	_, err := uc.Assign(ctx, orderID, assignInput("res-ana", designer), adminID)
	require.NoError(t, err)
	_, err = uc.Assign(ctx, orderID, assignInput("res-ana", copywrite), adminID)
	require.NoError(t, err)

	tasks, err := uc.GetResellerTasks(ctx, "res-ana", "user-ana", "reseller")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	_, err = uc.GetResellerTasks(ctx, "res-ana", "user-ben", "reseller")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	tasks, err = uc.GetResellerTasks(ctx, "res-ben", adminID, "admin")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestNotFoundOr(t *testing.T) {
	err := notFoundOr(persistent.ErrNotFound, "100% not found")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, "100% not found", apperror.Message(err))

	other := errors.New("connection reset")
	assert.Equal(t, other, notFoundOr(other, "ignored"))
}
