package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goodsgo/internal/logger"
	"goodsgo/internal/models"
	"goodsgo/internal/repositories"
	"goodsgo/internal/utils"
)

// TaskNotice is what a leader is told about a task assigned to them.
type TaskNotice struct {
	Action       models.TaskAction
	TaskID       string
	EventDay     models.EventDayType
	ItemName     string
	Quantity     int
	FromLocation string
	ToLocation   string
	Start        string
	End          string
	LeaderName   string
	Note         string
}

func (n TaskNotice) Subject() string {
	if n.Action == models.TaskActionUpdated {
		return "担当タスクが更新されました"
	}
	return "タスクが割り当てられました"
}

// TaskNotifier is told about every saved task.
type TaskNotifier interface {
	TaskSaved(ctx context.Context, action models.TaskAction, task models.Task)
}

// LeaderNotifier mails the task leader and posts to the staff chat. Either
// channel may be nil.
type LeaderNotifier struct {
	users     repositories.UserRepository
	items     repositories.ItemRepository
	locations repositories.LocationRepository
	email     EmailService
	telegram  *TelegramService
	log       *logger.Logger
	timeout   time.Duration
}

func NewLeaderNotifier(
	users repositories.UserRepository,
	items repositories.ItemRepository,
	locations repositories.LocationRepository,
	email EmailService,
	telegram *TelegramService,
	log *logger.Logger,
) *LeaderNotifier {
	return &LeaderNotifier{
		users:     users,
		items:     items,
		locations: locations,
		email:     email,
		telegram:  telegram,
		log:       log,
		timeout:   15 * time.Second,
	}
}

// TaskSaved delivers in the background; the request is not held up and
// delivery outlives its cancellation.
func (n *LeaderNotifier) TaskSaved(ctx context.Context, action models.TaskAction, task models.Task) {
	if task.LeaderUserID == nil || (n.email == nil && n.telegram == nil) {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	go func() {
		defer cancel()
		if err := n.Deliver(ctx, action, task); err != nil {
			n.log.WarnContext(ctx, "[notify][leader] delivery failed", "task_id", task.ID, "err", err)
		}
	}()
}

// Deliver resolves the notice and sends it on every configured channel.
func (n *LeaderNotifier) Deliver(ctx context.Context, action models.TaskAction, task models.Task) error {
	if task.LeaderUserID == nil {
		return nil
	}
	leader, err := n.users.FindByID(ctx, *task.LeaderUserID)
	if err != nil {
		return fmt.Errorf("load leader: %w", err)
	}

	notice := TaskNotice{
		Action:       action,
		TaskID:       task.ID,
		EventDay:     task.EventDayType,
		ItemName:     n.itemName(ctx, task.ItemID),
		Quantity:     task.Quantity,
		FromLocation: n.locationName(ctx, task.FromLocationID),
		ToLocation:   n.locationName(ctx, task.ToLocationID),
		Start:        utils.NormalizeTimeValue(task.ScheduledStartTime),
		End:          utils.NormalizeTimeValue(task.ScheduledEndTime),
		LeaderName:   leader.Name,
	}
	if task.Note != nil {
		notice.Note = *task.Note
	}

	var errs []error
	if n.email != nil && leader.Email != nil && *leader.Email != "" {
		if err := n.email.SendTaskAssigned(*leader.Email, notice); err != nil {
			errs = append(errs, err)
		}
	}
	if n.telegram != nil {
		if err := n.telegram.SendTaskNotice(notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *LeaderNotifier) itemName(ctx context.Context, id string) string {
	it, err := n.items.FindByID(ctx, id)
	if err != nil {
		return unresolvedName
	}
	return it.Name
}

func (n *LeaderNotifier) locationName(ctx context.Context, id string) string {
	loc, err := n.locations.FindByID(ctx, id)
	if err != nil {
		return unresolvedName
	}
	return loc.Name
}
