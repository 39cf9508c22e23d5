package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"goodsgo/internal/authz"
	"goodsgo/internal/logger"
	"goodsgo/internal/models"
	"goodsgo/internal/repositories"
)

var errStoreDown = errors.New("store down")

type fakeTaskRepo struct {
	mu        sync.Mutex
	tasks     map[string]models.Task
	order     []string
	calls     int
	failStore error
	failFind  error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]models.Task{}}
}

func (r *fakeTaskRepo) Store(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failStore != nil {
		return r.failStore
	}
	if task.ID == "" {
		task.ID = fmt.Sprintf("task-%d", len(r.order)+1)
	}
	r.tasks[task.ID] = *task
	r.order = append(r.order, task.ID)
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	t, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (r *fakeTaskRepo) FindActive(_ context.Context, f models.TaskFilter) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failFind != nil {
		return nil, r.failFind
	}
	out := []models.Task{}
	for i := len(r.order) - 1; i >= 0; i-- {
		t := r.tasks[r.order[i]]
		if t.Deleted != nil ||
			(f.EventDayType != nil && t.EventDayType != *f.EventDayType) ||
			(f.Status != nil && t.CurrentStatus != *f.Status) ||
			(f.ItemID != nil && t.ItemID != *f.ItemID) ||
			(f.LeaderUserID != nil && (t.LeaderUserID == nil || *t.LeaderUserID != *f.LeaderUserID)) ||
			(f.FromLocationID != nil && t.FromLocationID != *f.FromLocationID) ||
			(f.ToLocationID != nil && t.ToLocationID != *f.ToLocationID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failStore != nil {
		return r.failStore
	}
	old, ok := r.tasks[task.ID]
	if !ok || old.Deleted != nil {
		return repositories.ErrNotFound
	}
	task.CreatedUserID = old.CreatedUserID
	task.Created = old.Created
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failStore != nil {
		return r.failStore
	}
	t, ok := r.tasks[id]
	if !ok || t.Deleted != nil {
		return repositories.ErrNotFound
	}
	t.Deleted = &at
	r.tasks[id] = t
	return nil
}

func (r *fakeTaskRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type fakeItemRepo struct {
	items []models.Item
	calls int
}

func (r *fakeItemRepo) Create(_ context.Context, item *models.Item) error {
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id string) (*models.Item, error) {
	for _, it := range r.items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeItemRepo) ListActive(context.Context) ([]models.Item, error) {
	r.calls++
	return append([]models.Item{}, r.items...), nil
}

type fakeLocationRepo struct {
	locations []models.Location
	fail      error
}

func (r *fakeLocationRepo) Create(_ context.Context, loc *models.Location) error {
	r.locations = append(r.locations, *loc)
	return nil
}

func (r *fakeLocationRepo) FindByID(_ context.Context, id string) (*models.Location, error) {
	for _, loc := range r.locations {
		if loc.ID == id {
			return &loc, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeLocationRepo) ListActive(context.Context) ([]models.Location, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	return append([]models.Location{}, r.locations...), nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email != nil && user.Email != nil && *u.Email == *user.Email {
			return fmt.Errorf("insert user: %w", repositories.ErrDuplicate)
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Deleted == nil && u.Email != nil && *u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) ListActiveByRoles(_ context.Context, roles []authz.Role) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.users {
		if u.Deleted != nil {
			continue
		}
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

type fakeActivityRepo struct {
	mu         sync.Mutex
	activities []models.TaskActivity
	fail       error
}

func (r *fakeActivityRepo) Append(_ context.Context, a *models.TaskActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.activities = append(r.activities, *a)
	return nil
}

func (r *fakeActivityRepo) ListByTask(_ context.Context, taskID string) ([]models.TaskActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.TaskActivity{}
	for _, a := range r.activities {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

type recordedNotice struct {
	action models.TaskAction
	task   models.Task
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []recordedNotice
}

func (n *fakeNotifier) TaskSaved(_ context.Context, action models.TaskAction, task models.Task) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, recordedNotice{action: action, task: task})
}

type taskFixture struct {
	svc        *taskService
	tasks      *fakeTaskRepo
	items      *fakeItemRepo
	locations  *fakeLocationRepo
	users      *fakeUserRepo
	activities *fakeActivityRepo
	cache      *TaskListCache
	notifier   *fakeNotifier
	clock      time.Time
}

var (
	adminActor  = &models.CurrentUser{UserID: "admin-1", Name: "管理者", Role: authz.RoleAdmin}
	leaderActor = &models.CurrentUser{UserID: "leader-1", Name: "指揮者", Role: authz.RoleLeader}
	memberActor = &models.CurrentUser{UserID: "member-1", Name: "部員", Role: authz.RoleMember}
)

func newTaskFixture() *taskFixture {
	f := &taskFixture{
		tasks: newFakeTaskRepo(),
		items: &fakeItemRepo{items: []models.Item{
			{ID: "item-desk", Name: "長机"},
			{ID: "item-chair", Name: "椅子"},
		}},
		locations: &fakeLocationRepo{locations: []models.Location{
			{ID: "loc-gym", Name: "体育館"},
			{ID: "loc-hall", Name: "講義棟"},
		}},
		users: newFakeUserRepo(
			models.User{ID: "admin-1", Name: "管理者", Role: authz.RoleAdmin},
			models.User{ID: "leader-1", Name: "指揮者", Role: authz.RoleLeader},
			models.User{ID: "member-1", Name: "部員", Role: authz.RoleMember},
		),
		activities: &fakeActivityRepo{},
		cache:      NewTaskListCache(16, time.Minute),
		notifier:   &fakeNotifier{},
		clock:      time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC),
	}
	svc := NewTaskService(f.tasks, f.items, f.locations, f.users, f.activities, f.cache, f.notifier, logger.Discard())
	f.svc = svc.(*taskService)
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func validInput() models.TaskInput {
	return models.TaskInput{
		EventDayType:       intPtr(1),
		CurrentStatus:      intPtr(0),
		LeaderUserID:       "leader-1",
		FromLocationID:     "loc-gym",
		ToLocationID:       "loc-hall",
		ItemID:             "item-desk",
		Quantity:           intPtr(3),
		ScheduledStartTime: "10:00",
		ScheduledEndTime:   "11:00",
		Note:               strPtr(""),
	}
}
