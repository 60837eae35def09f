package usecase

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"socialdesk/pkg/database"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/notify"
	"socialdesk/services/task/internal/entity"
	"socialdesk/services/task/internal/model"
	"socialdesk/services/task/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openPostgres connects to TEST_DATABASE_DSN and applies the migrations.
func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("Skipping - TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.MigrateUp(sqlDB, "../../../../migrations"))
	return db
}

type pgTaskFixture struct {
	db      *gorm.DB
	orderID string
	roleID  string
	ana     string
	ben     string
	client  string
}

func seedPostgresTask(t *testing.T, db *gorm.DB) *pgTaskFixture {
	t.Helper()
	f := &pgTaskFixture{db: db, orderID: uuid.NewString(), roleID: uuid.NewString()}

	newUser := func(role string) string {
		id := uuid.NewString()
		require.NoError(t, db.Exec(
			"INSERT INTO users (id, email, name, password, role) VALUES (?, ?, ?, 'x', ?)",
			id, id+"@example.com", "User "+id[:8], role,
		).Error)
		return id
	}
	newReseller := func() string {
		userID := newUser("reseller")
		id := uuid.NewString()
		require.NoError(t, db.Exec(
			"INSERT INTO resellers (id, user_id, name, status) VALUES (?, ?, 'Reseller', 'active')",
			id, userID,
		).Error)
		return id
	}

	f.client = newUser("client")
	f.ana = newReseller()
	f.ben = newReseller()
	require.NoError(t, db.Exec(
		"INSERT INTO orders (id, package_name, ammount, user_id, order_status, payment_status) VALUES (?, 'Social Starter', 100, ?, 'pending', 'paid')",
		f.orderID, f.client,
	).Error)
	require.NoError(t, db.Exec("INSERT INTO roles (id, name) VALUES (?, ?)", f.roleID, "designer-"+f.roleID[:8]).Error)
	return f
}

func (f *pgTaskFixture) reseller(t *testing.T, id string) model.ResellerModel {
	t.Helper()
	var r model.ResellerModel
	require.NoError(t, f.db.Where("id = ?", id).First(&r).Error)
	return r
}

func TestPostgres_ConcurrentUnassignOfLastAssigneesDeletesTask(t *testing.T) {
	db := openPostgres(t)
	f := seedPostgresTask(t, db)
	ctx := context.Background()

	repo := persistent.NewTaskRepository(db)
	uc := NewTaskUseCase(repo, persistent.NewTransactor(db), notify.Nop{}, logger.Nop())

	for i := 0; i < 10; i++ {
		in := assignInput(f.ana, f.roleID)
		task, err := uc.Assign(ctx, f.orderID, in, adminID)
		require.NoError(t, err)
		_, err = uc.Assign(ctx, f.orderID, assignInput(f.ben, f.roleID), adminID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for _, resellerID := range []string{f.ana, f.ben} {
			wg.Add(1)
			go func(resellerID string) {
				defer wg.Done()
				_, err := uc.Unassign(ctx, f.orderID, UnassignInput{TaskID: task.ID, ResellerID: resellerID}, adminID)
				assert.NoError(t, err)
			}(resellerID)
		}
		wg.Wait()

		_, err = repo.GetTask(ctx, task.ID)
		assert.ErrorIs(t, err, persistent.ErrNotFound, "round %d", i)
		count, err := repo.CountAssignees(ctx, task.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	}
}

func TestPostgres_ConcurrentFinalApprovalsCreditOnce(t *testing.T) {
	db := openPostgres(t)
	f := seedPostgresTask(t, db)
	ctx := context.Background()

	repo := persistent.NewTaskRepository(db)
	transactor := persistent.NewTransactor(db)
	tasks := NewTaskUseCase(repo, transactor, notify.Nop{}, logger.Nop())
	posts := NewPostUseCase(repo, transactor, newMemStorage(), notify.Nop{}, logger.Nop())

	in := assignInput(f.ana, f.roleID)
	in.PostCount = 1
	task, err := tasks.Assign(ctx, f.orderID, in, adminID)
	require.NoError(t, err)

	anaUser := *f.reseller(t, f.ana).UserID
	submitted := make([]*entity.TaskPost, 3)
	for i := range submitted {
		submitted[i], err = posts.SubmitPost(ctx, SubmitPostInput{
			TaskID:   task.ID,
			UserID:   anaUser,
			FileName: "banner.png",
			File:     strings.NewReader("png-bytes"),
		})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for _, post := range submitted {
		wg.Add(1)
		go func(postID string) {
			defer wg.Done()
			_, err := posts.ReviewPost(ctx, ReviewPostInput{PostID: postID, ReviewerID: f.client, ReviewerRole: "client", Approve: true})
			assert.NoError(t, err)
		}(post.ID)
	}
	wg.Wait()

	stored, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusCompleted, stored.Status)

	r := f.reseller(t, f.ana)
	assert.Equal(t, 1, r.CompleteTasks)
	assert.True(t, in.Amount.Equal(r.TotalEarnings), r.TotalEarnings.String())
}
