package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"socialdesk/services/task/internal/entity"
	"socialdesk/services/task/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory TaskRepository and Transactor. WithinTransaction
// restores the previous state when fn fails.
type memStore struct {
	mu sync.Mutex
	memState

	failCredit error
}

type memState struct {
	orders    map[string]entity.Order
	roles     map[string]entity.Role
	resellers map[string]entity.Reseller
	users     map[string]bool
	tasks     map[string]entity.TaskAssign
	assignees []entity.TaskAssignee
	posts     map[string]entity.TaskPost
}

var (
	_ persistent.TaskRepository = (*memStore)(nil)
	_ persistent.Transactor     = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{memState: memState{
		orders:    map[string]entity.Order{},
		roles:     map[string]entity.Role{},
		resellers: map[string]entity.Reseller{},
		users:     map[string]bool{},
		tasks:     map[string]entity.TaskAssign{},
		posts:     map[string]entity.TaskPost{},
	}}
}

func (s memState) clone() memState {
	out := memState{
		orders:    map[string]entity.Order{},
		roles:     map[string]entity.Role{},
		resellers: map[string]entity.Reseller{},
		users:     map[string]bool{},
		tasks:     map[string]entity.TaskAssign{},
		assignees: append([]entity.TaskAssignee(nil), s.assignees...),
		posts:     map[string]entity.TaskPost{},
	}
	for k, v := range s.orders {
		out.orders[k] = v
	}
	for k, v := range s.roles {
		out.roles[k] = v
	}
	for k, v := range s.resellers {
		out.resellers[k] = v
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.tasks {
		out.tasks[k] = v
	}
	for k, v := range s.posts {
		out.posts[k] = v
	}
	return out
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(tasks persistent.TaskRepository) error) error {
	s.mu.Lock()
	saved := s.memState.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.memState = saved
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) addUser(id string) {
	s.users[id] = true
}

func (s *memStore) addOrder(order entity.Order) {
	s.orders[order.ID] = order
}

func (s *memStore) addRole(role entity.Role) {
	s.roles[role.ID] = role
}

func (s *memStore) addReseller(reseller entity.Reseller) {
	s.resellers[reseller.ID] = reseller
}

func (s *memStore) reseller(id string) entity.Reseller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resellers[id]
}

func (s *memStore) taskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *memStore) assigneeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assignees)
}

func (s *memStore) taskStatus(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[id].Status
}

func (s *memStore) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, persistent.ErrNotFound
	}
	return &o, nil
}

func (s *memStore) GetRole(ctx context.Context, id string) (*entity.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.roles[id]
	if !ok {
		return nil, persistent.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) GetReseller(ctx context.Context, id string) (*entity.Reseller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resellers[id]
	if !ok {
		return nil, persistent.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) GetResellerByUser(ctx context.Context, userID string) (*entity.Reseller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.resellers {
		if r.UserID != nil && *r.UserID == userID {
			r := r
			return &r, nil
		}
	}
	return nil, persistent.ErrNotFound
}

func (s *memStore) UserExists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *memStore) withAssignees(t entity.TaskAssign) *entity.TaskAssign {
	t.Assignees = nil
	for i := range s.assignees {
		if s.assignees[i].TaskID == t.ID {
			a := s.assignees[i]
			t.Assignees = append(t.Assignees, &a)
		}
	}
	return &t
}

func (s *memStore) FindTask(ctx context.Context, orderID, roleID string) (*entity.TaskAssign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.OrderID == orderID && t.RoleID == roleID {
			return s.withAssignees(t), nil
		}
	}
	return nil, persistent.ErrNotFound
}

func (s *memStore) GetTask(ctx context.Context, id string) (*entity.TaskAssign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, persistent.ErrNotFound
	}
	return s.withAssignees(t), nil
}

func (s *memStore) LockTask(ctx context.Context, id string) (*entity.TaskAssign, error) {
	return s.GetTask(ctx, id)
}

func (s *memStore) CreateTask(ctx context.Context, task *entity.TaskAssign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.OrderID == task.OrderID && t.RoleID == task.RoleID {
			return persistent.ErrDuplicate
		}
	}
	task.ID = uuid.New().String()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	stored.Assignees = nil
	s.tasks[task.ID] = stored
	return nil
}

func (s *memStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.assignees[:0]
	for _, a := range s.assignees {
		if a.TaskID != id {
			kept = append(kept, a)
		}
	}
	s.assignees = kept
	delete(s.tasks, id)
	return nil
}

func (s *memStore) UpdateTaskStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return persistent.ErrNotFound
	}
	t.Status = status
	s.tasks[id] = t
	return nil
}

func (s *memStore) ListTasksByOrder(ctx context.Context, orderID string) ([]*entity.TaskAssign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.TaskAssign
	for _, t := range s.tasks {
		if t.OrderID == orderID {
			out = append(out, s.withAssignees(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) ListTasksByReseller(ctx context.Context, resellerID string) ([]*entity.TaskAssign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.TaskAssign
	for _, a := range s.assignees {
		if a.ResellerID == resellerID {
			out = append(out, s.withAssignees(s.tasks[a.TaskID]))
		}
	}
	return out, nil
}

func (s *memStore) AddAssignee(ctx context.Context, assignee *entity.TaskAssignee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assignees {
		if a.TaskID == assignee.TaskID && a.ResellerID == assignee.ResellerID {
			return persistent.ErrDuplicate
		}
	}
	assignee.ID = uuid.New().String()
	assignee.CreatedAt = time.Now()
	s.assignees = append(s.assignees, *assignee)
	return nil
}

func (s *memStore) RemoveAssignee(ctx context.Context, taskID, resellerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.assignees {
		if a.TaskID == taskID && a.ResellerID == resellerID {
			s.assignees = append(s.assignees[:i:i], s.assignees[i+1:]...)
			return nil
		}
	}
	return persistent.ErrNotFound
}

func (s *memStore) CountAssignees(ctx context.Context, taskID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, a := range s.assignees {
		if a.TaskID == taskID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) AdjustTaskCount(ctx context.Context, resellerID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.resellers[resellerID]
	r.TotalTask += delta
	if r.TotalTask < 0 {
		r.TotalTask = 0
	}
	s.resellers[resellerID] = r
	return nil
}

func (s *memStore) CreditCompletedTask(ctx context.Context, resellerID string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCredit != nil {
		return s.failCredit
	}
	r := s.resellers[resellerID]
	r.CompleteTasks++
	r.TotalEarnings = r.TotalEarnings.Add(amount)
	s.resellers[resellerID] = r
	return nil
}

func (s *memStore) CreatePost(ctx context.Context, post *entity.TaskPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post.ID = uuid.New().String()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	s.posts[post.ID] = *post
	return nil
}

func (s *memStore) GetPost(ctx context.Context, id string) (*entity.TaskPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, persistent.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) ListPosts(ctx context.Context, taskID string) ([]*entity.TaskPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.TaskPost
	for _, p := range s.posts {
		if p.TaskID == taskID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (s *memStore) ReviewPost(ctx context.Context, id, status, comment, reviewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok || p.Status != entity.PostStatusPending {
		return persistent.ErrNotFound
	}
	p.Status = status
	p.ReviewComment = comment
	p.ReviewedBy = &reviewerID
	s.posts[id] = p
	return nil
}

func (s *memStore) CountPosts(ctx context.Context, taskID, status string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, p := range s.posts {
		if p.TaskID == taskID && p.Status == status {
			n++
		}
	}
	return n, nil
}

var errStorageDown = errors.New("storage unavailable")

// memStorage records uploads and deletions.
type memStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	deleted   []string
	uploadErr error
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}}
}

func (m *memStorage) UploadFile(key string, file io.Reader, contentType string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = data
	return "https://files.test/" + key, nil
}

func (m *memStorage) DeleteFile(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	m.deleted = append(m.deleted, key)
	return nil
}
