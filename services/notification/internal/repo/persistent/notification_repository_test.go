package persistent

import (
	"context"
	"testing"
	"time"

	"socialdesk/services/notification/internal/entity"
	"socialdesk/services/notification/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.NotificationModel{}))
	return db
}

func TestNotificationRepository_CreateAndList(t *testing.T) {
	repo := NewNotificationRepository(newSQLiteDB(t))
	ctx := context.Background()

	first := &entity.Notification{ReceiverID: "user-1", Text: "Task assigned", Type: "task_assigned", EntityID: "task-1"}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEmpty(t, first.ID)

	time.Sleep(5 * time.Millisecond)
	second := &entity.Notification{
		SenderID:   "admin-1",
		ReceiverID: "user-1",
		Text:       "Withdrawal on its way",
		Type:       "withdrawal",
		Data:       map[string]interface{}{"priority": 8},
	}
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, &entity.Notification{ReceiverID: "user-2", Text: "hi", Type: "order_placed"}))

	list, total, err := repo.ListByReceiver(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, "admin-1", list[0].SenderID)
	assert.Equal(t, float64(8), list[0].Data["priority"])
	assert.Equal(t, "task-1", list[1].EntityID)
	assert.Empty(t, list[1].SenderID)

	page, total, err := repo.ListByReceiver(ctx, "user-1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	repo := NewNotificationRepository(newSQLiteDB(t))
	ctx := context.Background()

	n := &entity.Notification{ReceiverID: "user-1", Text: "Post reviewed", Type: "post_reviewed"}
	require.NoError(t, repo.Create(ctx, n))

	unread, err := repo.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	assert.ErrorIs(t, repo.MarkRead(ctx, n.ID, "user-2"), ErrNotFound)
	require.NoError(t, repo.MarkRead(ctx, n.ID, "user-1"))

	unread, err = repo.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, unread)

	assert.ErrorIs(t, repo.MarkRead(ctx, "missing", "user-1"), ErrNotFound)
}
