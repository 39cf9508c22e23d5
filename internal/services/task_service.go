// internal/services/task_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"goodsgo/internal/authz"
	"goodsgo/internal/logger"
	"goodsgo/internal/models"
	"goodsgo/internal/repositories"
	"goodsgo/internal/utils"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

const (
	msgCreateFailed = "タスクの追加に失敗しました"
	msgUpdateFailed = "タスクの保存に失敗しました"
	msgDeleteFailed = "削除に失敗しました"
	msgTaskNotFound = "対象タスクが見つかりません"
)

// TaskService is the admin task board. Every method checks the caller's
// role before touching the store; the returned error is ErrUnauthenticated
// or ErrForbidden in that case. Mutations report every other failure in
// the ActionResult.
type TaskService interface {
	GetAdminTaskListPageData(ctx context.Context, actor *models.CurrentUser, query models.TaskListQuery) (*models.AdminTaskListPageData, error)
	GetTaskDetail(ctx context.Context, actor *models.CurrentUser, id string) (*models.TaskDetail, error)
	GetTaskForm(ctx context.Context, actor *models.CurrentUser, mode models.TaskFormMode, id string) (*models.TaskFormState, error)

	Create(ctx context.Context, actor *models.CurrentUser, input models.TaskInput) (models.ActionResult, error)
	Update(ctx context.Context, actor *models.CurrentUser, id string, input models.TaskInput) (models.ActionResult, error)
	Delete(ctx context.Context, actor *models.CurrentUser, id string) (models.ActionResult, error)
}

type taskService struct {
	tasks      repositories.TaskRepository
	items      repositories.ItemRepository
	locations  repositories.LocationRepository
	users      repositories.UserRepository
	activities repositories.TaskActivityRepository
	cache      *TaskListCache
	notifier   TaskNotifier
	log        *logger.Logger
	now        func() time.Time
}

func NewTaskService(
	tasks repositories.TaskRepository,
	items repositories.ItemRepository,
	locations repositories.LocationRepository,
	users repositories.UserRepository,
	activities repositories.TaskActivityRepository,
	cache *TaskListCache,
	notifier TaskNotifier,
	log *logger.Logger,
) TaskService {
	return &taskService{
		tasks:      tasks,
		items:      items,
		locations:  locations,
		users:      users,
		activities: activities,
		cache:      cache,
		notifier:   notifier,
		log:        log,
		now:        time.Now,
	}
}

func requireAdmin(actor *models.CurrentUser) error {
	if actor == nil || !actor.Role.IsValid() {
		return ErrUnauthenticated
	}
	if actor.Role != authz.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *taskService) GetAdminTaskListPageData(ctx context.Context, actor *models.CurrentUser, query models.TaskListQuery) (*models.AdminTaskListPageData, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if data, ok := s.cache.Get(query); ok {
		return &data, nil
	}
	gen := s.cache.Generation()

	var (
		tasks     []models.Task
		items     []models.Item
		locations []models.Location
		leaders   []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = s.tasks.FindActive(gctx, query.StoreFilter())
		return err
	})
	g.Go(func() (err error) {
		items, err = s.items.ListActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		locations, err = s.locations.ListActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		leaders, err = s.users.ListActiveByRoles(gctx, authz.LeaderRoles())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load task list: %w", err)
	}

	data := BuildAdminTaskListPageData(query, tasks, items, locations, leaders)
	s.cache.Add(gen, query, data)
	return &data, nil
}

// GetTaskDetail returns a task by id, soft-deleted or not, with its history.
func (s *taskService) GetTaskDetail(ctx context.Context, actor *models.CurrentUser, id string) (*models.TaskDetail, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	activities, err := s.activities.ListByTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.TaskDetail{Task: *task, Activities: activities}, nil
}

func (s *taskService) GetTaskForm(ctx context.Context, actor *models.CurrentUser, mode models.TaskFormMode, id string) (*models.TaskFormState, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if mode != models.TaskFormEdit {
		state := NewTaskFormState(models.TaskFormCreate, nil)
		return &state, nil
	}

	task, err := s.tasks.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if task.Deleted != nil {
		return nil, fmt.Errorf("task %s is deleted: %w", task.ID, repositories.ErrNotFound)
	}
	state := NewTaskFormState(models.TaskFormEdit, &models.AdminTask{
		TaskID:             task.ID,
		EventDayType:       task.EventDayType,
		CurrentStatus:      task.CurrentStatus,
		ItemID:             task.ItemID,
		Quantity:           task.Quantity,
		FromLocationID:     task.FromLocationID,
		ToLocationID:       task.ToLocationID,
		ScheduledStartTime: utils.NormalizeTimeValue(task.ScheduledStartTime),
		ScheduledEndTime:   utils.NormalizeTimeValue(task.ScheduledEndTime),
		LeaderUserID:       task.LeaderUserID,
		Note:               task.Note,
	})
	return &state, nil
}

func (s *taskService) Create(ctx context.Context, actor *models.CurrentUser, input models.TaskInput) (models.ActionResult, error) {
	if err := requireAdmin(actor); err != nil {
		return models.ActionResult{}, err
	}
	in, fieldErrors := ValidateTaskInput(input)
	if fieldErrors != nil {
		s.log.DebugContext(ctx, "[task][create] validation failed", "fields", fieldErrors)
		return models.Invalid(fieldErrors), nil
	}

	now := s.now()
	task := taskFromInput(in)
	task.CreatedUserID = actor.UserID
	task.Created = now
	task.Modified = now

	if err := s.tasks.Store(ctx, &task); err != nil {
		s.log.ErrorContext(ctx, "[task][create] store failed", "user_id", actor.UserID, "err", err)
		return models.Failed(msgCreateFailed), nil
	}
	s.afterMutation(ctx, actor, models.TaskActionCreated, task, in)
	return models.Succeeded(), nil
}

func (s *taskService) Update(ctx context.Context, actor *models.CurrentUser, id string, input models.TaskInput) (models.ActionResult, error) {
	if err := requireAdmin(actor); err != nil {
		return models.ActionResult{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Failed(msgTaskNotFound), nil
	}
	in, fieldErrors := ValidateTaskInput(input)
	if fieldErrors != nil {
		s.log.DebugContext(ctx, "[task][update] validation failed", "task_id", id, "fields", fieldErrors)
		return models.Invalid(fieldErrors), nil
	}

	task := taskFromInput(in)
	task.ID = id
	task.Modified = s.now()

	if err := s.tasks.Update(ctx, &task); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Failed(msgTaskNotFound), nil
		}
		s.log.ErrorContext(ctx, "[task][update] store failed", "task_id", id, "err", err)
		return models.Failed(msgUpdateFailed), nil
	}
	s.afterMutation(ctx, actor, models.TaskActionUpdated, task, in)
	return models.Succeeded(), nil
}

func (s *taskService) Delete(ctx context.Context, actor *models.CurrentUser, id string) (models.ActionResult, error) {
	if err := requireAdmin(actor); err != nil {
		return models.ActionResult{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Failed(msgTaskNotFound), nil
	}

	if err := s.tasks.SoftDelete(ctx, id, s.now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Failed(msgTaskNotFound), nil
		}
		s.log.ErrorContext(ctx, "[task][delete] store failed", "task_id", id, "err", err)
		return models.Failed(msgDeleteFailed), nil
	}
	s.afterMutation(ctx, actor, models.TaskActionDeleted, models.Task{ID: id}, nil)
	return models.Succeeded(), nil
}

// afterMutation runs the side effects of a committed change. None of them
// can fail the mutation.
func (s *taskService) afterMutation(ctx context.Context, actor *models.CurrentUser, action models.TaskAction, task models.Task, input any) {
	s.cache.Purge()

	activity := &models.TaskActivity{
		TaskID:          task.ID,
		Action:          action,
		ChangedByUserID: actor.UserID,
		Created:         s.now(),
	}
	if input != nil {
		if payload, err := json.Marshal(input); err == nil {
			activity.Payload = payload
		}
	}
	if s.activities != nil {
		if err := s.activities.Append(ctx, activity); err != nil {
			s.log.WarnContext(ctx, "[task][activity] append failed", "task_id", task.ID, "action", action, "err", err)
		}
	}

	if s.notifier != nil && action != models.TaskActionDeleted {
		s.notifier.TaskSaved(ctx, action, task)
	}
}

// taskFromInput maps a validated input; an empty note is stored as NULL.
func taskFromInput(in models.TaskInput) models.Task {
	task := models.Task{
		EventDayType:       models.EventDayType(*in.EventDayType),
		CurrentStatus:      models.TaskStatus(*in.CurrentStatus),
		ItemID:             in.ItemID,
		Quantity:           *in.Quantity,
		FromLocationID:     in.FromLocationID,
		ToLocationID:       in.ToLocationID,
		ScheduledStartTime: in.ScheduledStartTime,
		ScheduledEndTime:   in.ScheduledEndTime,
	}
	if in.LeaderUserID != "" {
		leader := in.LeaderUserID
		task.LeaderUserID = &leader
	}
	if in.Note != nil && *in.Note != "" {
		note := *in.Note
		task.Note = &note
	}
	return task
}

// IsTaskNotFound reports whether a failed result is about a missing or
// deleted target task.
func IsTaskNotFound(r models.ActionResult) bool {
	return !r.OK && r.Message == msgTaskNotFound
}
