package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"task-manager/internal/auth"
	"task-manager/internal/calendar"
	"task-manager/internal/model"
)

// Store is the persistence façade the controller reads from and writes to.
type Store interface {
	GetAllCollections(ctx context.Context, ownerID string) ([]model.Collection, error)
	GetCollectionByID(ctx context.Context, id string) (*model.Collection, error)
	AddCollection(ctx context.Context, c model.Collection) error
	UpdateCollection(ctx context.Context, c model.Collection) error
	DeleteCollection(ctx context.Context, id string) error
	ObserveCollections(ctx context.Context, ownerID string) <-chan []model.Collection

	GetAllTasks(ctx context.Context, ownerID string) ([]model.Task, error)
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	AddTask(ctx context.Context, t model.Task) error
	UpdateTask(ctx context.Context, t model.Task) error
	DeleteTask(ctx context.Context, id string) error
	ObserveTasks(ctx context.Context, ownerID string) <-chan []model.Task

	GetAllReminders(ctx context.Context, ownerID string) ([]model.Reminder, error)
	GetReminderByID(ctx context.Context, id string) (*model.Reminder, error)
	AddReminder(ctx context.Context, r model.Reminder) error
	UpdateReminder(ctx context.Context, r model.Reminder) error
	DeleteReminder(ctx context.Context, id string) error
	ObserveReminders(ctx context.Context, ownerID string) <-chan []model.Reminder
}

// Session supplies the signed-in owner and announces sign-in/sign-out.
type Session interface {
	OwnerID() string
	Subscribe() (<-chan auth.State, func())
}

// Notifier delivers system-generated reminders outside the app.
type Notifier interface {
	Notify(ctx context.Context, r model.Reminder) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, model.Reminder) error { return nil }

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithDeadlinePolicy overrides the approaching-deadline window.
func WithDeadlinePolicy(p DeadlinePolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// Controller owns the in-memory snapshot of the signed-in owner's collections, tasks and reminders.
// All writes to the snapshot go through replace, which serializes them; readers load the
// current pointer without locking.
type Controller struct {
	log      *slog.Logger
	store    Store
	session  Session
	notifier Notifier
	now      func() time.Time
	policy   DeadlinePolicy

	writeMu sync.Mutex
	state   atomic.Pointer[State]

	subsMu sync.Mutex
	subs   map[chan State]struct{}

	sweepMu    sync.Mutex
	sweepSched *SchedulerService
	sweepEntry cron.EntryID
}

func NewController(log *slog.Logger, store Store, session Session, opts ...Option) *Controller {
	c := &Controller{
		log:      log,
		store:    store,
		session:  session,
		notifier: nopNotifier{},
		now:      time.Now,
		policy:   DefaultDeadlinePolicy,
		subs:     make(map[chan State]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.Store(&State{})
	return c
}

// Snapshot returns the current state. The returned value must be treated as read-only.
func (c *Controller) Snapshot() State {
	return *c.state.Load()
}

// Subscribe returns a channel holding the latest snapshot; older undelivered snapshots are dropped.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	c.subsMu.Lock()
	c.subs[ch] = struct{}{}
	ch <- c.Snapshot()
	c.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs, ch)
			c.subsMu.Unlock()
		})
	}
}

// replace publishes while still holding writeMu so subscribers see snapshots in store order.
func (c *Controller) replace(fn func(State) State) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	next := fn(*c.state.Load())
	c.state.Store(&next)

	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}

// Run follows the session: each new signed-in owner triggers a full load and live queries,
// signing out clears the snapshot. It returns when ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	states, unsubscribe := c.session.Subscribe()
	defer unsubscribe()

	current := ""
	stopLive := func() {}
	defer func() { stopLive() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case st := <-states:
			owner := auth.OwnerID(st)
			if owner == current {
				continue
			}
			stopLive()
			stopLive = func() {}
			current = owner

			if owner == "" {
				c.replace(func(State) State { return State{} })
				continue
			}

			c.log.Info("loading data", "owner", owner)
			c.replace(func(State) State { return State{OwnerID: owner} })
			if err := c.Load(ctx); err != nil {
				c.log.Error("initial load", "owner", owner, "error", err)
			}
			liveCtx, cancel := context.WithCancel(ctx)
			stopLive = cancel
			c.watch(liveCtx, owner)
		}
	}
}

func (c *Controller) watch(ctx context.Context, owner string) {
	go pump(c, owner, c.store.ObserveCollections(ctx, owner), func(s State, v []model.Collection) State {
		s.Collections = v
		return s
	})
	go pump(c, owner, c.store.ObserveTasks(ctx, owner), func(s State, v []model.Task) State {
		s.Tasks = v
		return s
	})
	go pump(c, owner, c.store.ObserveReminders(ctx, owner), func(s State, v []model.Reminder) State {
		s.Reminders = v
		return s
	})
}

// pump applies live-query pushes, which arrive on the storage goroutines, through replace.
func pump[T any](c *Controller, owner string, in <-chan []T, apply func(State, []T) State) {
	for items := range in {
		c.replace(func(s State) State {
			if s.OwnerID != owner {
				return s
			}
			return apply(s, items)
		})
	}
}

// Load re-reads collections, tasks and reminders of the signed-in owner and replaces the snapshot.
func (c *Controller) Load(ctx context.Context) error {
	owner := c.session.OwnerID()
	if owner == "" {
		return nil
	}

	collections, err := c.store.GetAllCollections(ctx, owner)
	if err != nil {
		return c.fail(err)
	}
	tasks, err := c.store.GetAllTasks(ctx, owner)
	if err != nil {
		return c.fail(err)
	}
	reminders, err := c.store.GetAllReminders(ctx, owner)
	if err != nil {
		return c.fail(err)
	}

	c.replace(func(s State) State {
		// The owner may have signed out or switched while the reads were in flight.
		if c.session.OwnerID() != owner || (s.OwnerID != "" && s.OwnerID != owner) {
			c.log.Debug("dropping stale load", "owner", owner)
			return s
		}
		return State{OwnerID: owner, Collections: collections, Tasks: tasks, Reminders: reminders}
	})
	return nil
}

func (c *Controller) fail(err error) error {
	c.replace(func(s State) State {
		s.Err = err
		return s
	})
	return err
}

// mutate runs fn for the signed-in owner and reloads on success.
// Without a signed-in owner the mutation is skipped.
func (c *Controller) mutate(ctx context.Context, op string, fn func(owner string) error) error {
	owner := c.session.OwnerID()
	if owner == "" {
		c.log.Debug("no signed-in owner, skipping", "op", op)
		return nil
	}
	if err := fn(owner); err != nil {
		c.log.Error(op, "owner", owner, "error", err)
		return c.fail(err)
	}
	return c.Load(ctx)
}

// Collections

func (c *Controller) AddCollection(ctx context.Context, name string, description *string, color *int64) (model.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return model.Collection{}, ErrCollectionInvalidArgs
	}
	var created model.Collection
	err := c.mutate(ctx, "add collection", func(owner string) error {
		created = model.NewCollection(owner, name)
		created.Description = description
		created.Color = color
		return c.store.AddCollection(ctx, created)
	})
	return created, err
}

func (c *Controller) UpdateCollection(ctx context.Context, collection model.Collection) error {
	if strings.TrimSpace(collection.Name) == "" {
		return ErrCollectionInvalidArgs
	}
	return c.mutate(ctx, "update collection", func(owner string) error {
		if _, err := c.ownedCollection(ctx, owner, collection.ID); err != nil {
			return err
		}
		collection.OwnerID = owner
		collection.Name = strings.TrimSpace(collection.Name)
		return c.store.UpdateCollection(ctx, collection)
	})
}

// DeleteCollection removes the collection together with its tasks and their reminders.
func (c *Controller) DeleteCollection(ctx context.Context, id string) error {
	return c.mutate(ctx, "delete collection", func(owner string) error {
		if _, err := c.ownedCollection(ctx, owner, id); err != nil {
			if errors.Is(err, ErrCollectionNotFound) {
				return nil
			}
			return err
		}
		return c.store.DeleteCollection(ctx, id)
	})
}

func (c *Controller) ToggleFavoriteCollection(ctx context.Context, id string) error {
	return c.mutate(ctx, "toggle favorite", func(owner string) error {
		collection, err := c.ownedCollection(ctx, owner, id)
		if err != nil {
			return err
		}
		collection.IsFavorite = !collection.IsFavorite
		return c.store.UpdateCollection(ctx, *collection)
	})
}

func (c *Controller) ownedCollection(ctx context.Context, owner, id string) (*model.Collection, error) {
	collection, err := c.store.GetCollectionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if collection == nil || collection.OwnerID != owner {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, id)
	}
	return collection, nil
}

// Tasks

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title        string
	Description  string
	CollectionID *string
	DueDate      *time.Time
	Priority     model.Priority
	Status       model.TaskStatus
}

func (c *Controller) AddTask(ctx context.Context, input TaskInput) (model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return model.Task{}, ErrTaskInvalidArgs
	}
	status := model.StatusUncompleted
	if input.Status != "" {
		status = model.ParseStatus(string(input.Status))
		if !model.CanTransition(model.StatusUncompleted, status) {
			return model.Task{}, fmt.Errorf("%w: new task as %s", ErrInvalidTransition, status)
		}
	}
	var created model.Task
	err := c.mutate(ctx, "add task", func(owner string) error {
		if input.CollectionID != nil {
			if _, err := c.ownedCollection(ctx, owner, *input.CollectionID); err != nil {
				return err
			}
		}
		created = model.NewTask(owner, input.Title, c.now())
		created.Description = input.Description
		created.CollectionID = input.CollectionID
		if input.DueDate != nil {
			due := model.Millis(*input.DueDate)
			created.DueDate = &due
		}
		if input.Priority != "" {
			created.Priority = model.ParsePriority(string(input.Priority))
		}
		created.Status = status
		return c.store.AddTask(ctx, created)
	})
	return created, err
}

// UpdateTask saves user edits. The creation time is kept, and status changes must be
// transitions a user is allowed to make.
func (c *Controller) UpdateTask(ctx context.Context, task model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return ErrTaskInvalidArgs
	}
	return c.mutate(ctx, "update task", func(owner string) error {
		existing, err := c.ownedTask(ctx, owner, task.ID)
		if err != nil {
			return err
		}
		if !model.CanTransition(existing.Status, task.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, task.Status)
		}
		for _, collectionID := range []*string{task.CollectionID, task.OriginalCollectionID} {
			if collectionID == nil {
				continue
			}
			if _, err := c.ownedCollection(ctx, owner, *collectionID); err != nil {
				return err
			}
		}
		task.OwnerID = owner
		task.CreatedAt = existing.CreatedAt
		return c.store.UpdateTask(ctx, task)
	})
}

// SetTaskStatus completes or reopens a task.
func (c *Controller) SetTaskStatus(ctx context.Context, id string, status model.TaskStatus) error {
	return c.mutate(ctx, "set task status", func(owner string) error {
		task, err := c.ownedTask(ctx, owner, id)
		if err != nil {
			return err
		}
		if !model.CanTransition(task.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, task.Status, status)
		}
		task.Status = status
		return c.store.UpdateTask(ctx, *task)
	})
}

// DeleteTask removes the task and its reminders. Unknown or foreign ids are ignored.
func (c *Controller) DeleteTask(ctx context.Context, id string) error {
	return c.mutate(ctx, "delete task", func(owner string) error {
		if _, err := c.ownedTask(ctx, owner, id); err != nil {
			if errors.Is(err, ErrTaskNotFound) {
				return nil
			}
			return err
		}
		return c.store.DeleteTask(ctx, id)
	})
}

func (c *Controller) ArchiveTask(ctx context.Context, id string) error {
	return c.mutate(ctx, "archive task", func(owner string) error {
		task, err := c.ownedTask(ctx, owner, id)
		if err != nil {
			return err
		}
		return c.store.UpdateTask(ctx, task.Archive())
	})
}

func (c *Controller) UnarchiveTask(ctx context.Context, id string) error {
	return c.mutate(ctx, "unarchive task", func(owner string) error {
		task, err := c.ownedTask(ctx, owner, id)
		if err != nil {
			return err
		}
		return c.store.UpdateTask(ctx, task.Unarchive())
	})
}

func (c *Controller) ownedTask(ctx context.Context, owner, id string) (*model.Task, error) {
	task, err := c.store.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil || task.OwnerID != owner {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return task, nil
}

// Reminders

// AddReminder creates a user reminder. An empty taskID makes it standalone.
func (c *Controller) AddReminder(ctx context.Context, title, description, taskID string, date time.Time) (model.Reminder, error) {
	var created model.Reminder
	err := c.mutate(ctx, "add reminder", func(owner string) error {
		if taskID != "" {
			if _, err := c.ownedTask(ctx, owner, taskID); err != nil {
				return err
			}
		}
		created = model.NewReminder(owner, taskID, title, description, date)
		return c.store.AddReminder(ctx, created)
	})
	return created, err
}

// UpdateReminder persists the read flag of reminder. Every other field keeps its stored value,
// and a read reminder never becomes unread again.
func (c *Controller) UpdateReminder(ctx context.Context, reminder model.Reminder) error {
	return c.mutate(ctx, "update reminder", func(owner string) error {
		existing, err := c.ownedReminder(ctx, owner, reminder.ID)
		if err != nil {
			return err
		}
		if existing.IsRead || !reminder.IsRead {
			return nil
		}
		existing.IsRead = true
		return c.store.UpdateReminder(ctx, *existing)
	})
}

func (c *Controller) MarkReminderRead(ctx context.Context, id string) error {
	return c.UpdateReminder(ctx, model.Reminder{ID: id, IsRead: true})
}

func (c *Controller) DeleteReminder(ctx context.Context, id string) error {
	return c.mutate(ctx, "delete reminder", func(owner string) error {
		if _, err := c.ownedReminder(ctx, owner, id); err != nil {
			if errors.Is(err, ErrReminderNotFound) {
				return nil
			}
			return err
		}
		return c.store.DeleteReminder(ctx, id)
	})
}

func (c *Controller) ownedReminder(ctx context.Context, owner, id string) (*model.Reminder, error) {
	reminder, err := c.store.GetReminderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reminder == nil || reminder.OwnerID != owner {
		return nil, fmt.Errorf("%w: %s", ErrReminderNotFound, id)
	}
	return reminder, nil
}

// Agenda renders today's digest from the current snapshot.
func (c *Controller) Agenda() string {
	return calendar.Agenda(c.Snapshot().ActiveTasks(), c.now())
}
