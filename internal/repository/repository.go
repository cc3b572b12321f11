package repository

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// Repository is the single façade the application layer talks to.
// Live queries never fail: a storage error is pushed as an empty snapshot.
type Repository struct {
	log         *slog.Logger
	Users       *UserGateway
	Collections *CollectionGateway
	Tasks       *TaskGateway
	Reminders   *ReminderGateway
}

func New(log *slog.Logger, db *gorm.DB, bus *Bus) *Repository {
	return &Repository{
		log:         log,
		Users:       NewUserGateway(db, bus),
		Collections: NewCollectionGateway(db, bus),
		Tasks:       NewTaskGateway(db, bus),
		Reminders:   NewReminderGateway(db, bus),
	}
}

// Collections

func (r *Repository) GetAllCollections(ctx context.Context, ownerID string) ([]model.Collection, error) {
	return r.Collections.ListByOwner(ctx, ownerID)
}

func (r *Repository) GetCollectionByID(ctx context.Context, id string) (*model.Collection, error) {
	return r.Collections.GetByID(ctx, id)
}

func (r *Repository) AddCollection(ctx context.Context, c model.Collection) error {
	return r.Collections.Upsert(ctx, c)
}

func (r *Repository) UpdateCollection(ctx context.Context, c model.Collection) error {
	return r.Collections.Upsert(ctx, c)
}

func (r *Repository) DeleteCollection(ctx context.Context, id string) error {
	return r.Collections.DeleteCascade(ctx, id)
}

func (r *Repository) ObserveCollections(ctx context.Context, ownerID string) <-chan []model.Collection {
	return degrade(ctx, r.log, "collections", r.Collections.Observe(ctx, ownerID))
}

// Tasks

func (r *Repository) GetAllTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	return r.Tasks.ListByOwner(ctx, ownerID)
}

func (r *Repository) GetTasksByCollection(ctx context.Context, collectionID string) ([]model.Task, error) {
	return r.Tasks.ListByCollection(ctx, collectionID)
}

func (r *Repository) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	return r.Tasks.GetByID(ctx, id)
}

func (r *Repository) AddTask(ctx context.Context, t model.Task) error {
	return r.Tasks.Upsert(ctx, t)
}

func (r *Repository) UpdateTask(ctx context.Context, t model.Task) error {
	return r.Tasks.Upsert(ctx, t)
}

func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	return r.Tasks.DeleteCascade(ctx, id)
}

func (r *Repository) ObserveTasks(ctx context.Context, ownerID string) <-chan []model.Task {
	return degrade(ctx, r.log, "tasks", r.Tasks.Observe(ctx, ownerID))
}

// Reminders

func (r *Repository) GetAllReminders(ctx context.Context, ownerID string) ([]model.Reminder, error) {
	return r.Reminders.ListByOwner(ctx, ownerID)
}

func (r *Repository) GetRemindersByTask(ctx context.Context, taskID string) ([]model.Reminder, error) {
	return r.Reminders.ListByTask(ctx, taskID)
}

func (r *Repository) GetReminderByID(ctx context.Context, id string) (*model.Reminder, error) {
	return r.Reminders.GetByID(ctx, id)
}

func (r *Repository) AddReminder(ctx context.Context, rem model.Reminder) error {
	return r.Reminders.Upsert(ctx, rem)
}

func (r *Repository) UpdateReminder(ctx context.Context, rem model.Reminder) error {
	return r.Reminders.Upsert(ctx, rem)
}

func (r *Repository) DeleteReminder(ctx context.Context, id string) error {
	return r.Reminders.DeleteByID(ctx, id)
}

func (r *Repository) CountUnreadReminders(ctx context.Context, ownerID string) (int64, error) {
	return r.Reminders.CountUnread(ctx, ownerID)
}

func (r *Repository) ObserveReminders(ctx context.Context, ownerID string) <-chan []model.Reminder {
	return degrade(ctx, r.log, "reminders", r.Reminders.Observe(ctx, ownerID))
}

// Users

func (r *Repository) GetUser(ctx context.Context, id string) (*model.User, error) {
	return r.Users.GetByID(ctx, id)
}

func (r *Repository) SaveUser(ctx context.Context, u model.User) error {
	return r.Users.Upsert(ctx, u)
}

func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	return r.Users.DeleteByID(ctx, id)
}

// degrade turns a gateway live query into a stream of plain result sets,
// replacing failed reads with an empty set so the stream survives.
func degrade[T any](ctx context.Context, log *slog.Logger, name string, in <-chan Snapshot[T]) <-chan []T {
	out := make(chan []T)
	go func() {
		defer close(out)
		for snap := range in {
			items := snap.Items
			if snap.Err != nil {
				log.Warn("live query failed, pushing empty snapshot", "query", name, "error", snap.Err)
				items = []T{}
			}
			select {
			case out <- items:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
