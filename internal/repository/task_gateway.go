package repository

import (
	"context"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// TaskGateway handles CRUD for tasks.
type TaskGateway struct {
	*Gateway[model.Task]
}

func NewTaskGateway(db *gorm.DB, bus *Bus) *TaskGateway {
	return &TaskGateway{Gateway: newGateway[model.Task](db, bus, TableTasks, "task", "owner_id", "created_at ASC")}
}

func (g *TaskGateway) ListByCollection(ctx context.Context, collectionID string) ([]model.Task, error) {
	return g.list(ctx, "collection_id = ?", collectionID)
}

// DeleteCascade removes a task together with its reminders.
func (g *TaskGateway) DeleteCascade(ctx context.Context, id string) error {
	existing, err := g.GetByID(ctx, id)
	if err != nil {
		return writeErr("delete", g.entity, err)
	}
	if existing == nil {
		return nil
	}

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Reminder{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Task{}).Error
	})
	if err != nil {
		return writeErr("delete", g.entity, err)
	}

	g.bus.Publish(TableReminders, existing.OwnerID)
	g.bus.Publish(TableTasks, existing.OwnerID)
	return nil
}
