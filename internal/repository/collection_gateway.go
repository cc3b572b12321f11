package repository

import (
	"context"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// CollectionGateway manages task collections.
type CollectionGateway struct {
	*Gateway[model.Collection]
}

func NewCollectionGateway(db *gorm.DB, bus *Bus) *CollectionGateway {
	return &CollectionGateway{Gateway: newGateway[model.Collection](db, bus, TableCollections, "collection", "owner_id", "name ASC")}
}

func (g *CollectionGateway) ListFavorites(ctx context.Context, ownerID string) ([]model.Collection, error) {
	return g.list(ctx, "owner_id = ? AND is_favorite = ?", ownerID, true)
}

// DeleteCascade removes the collection, every task currently in it or archived out of it,
// and the reminders attached to those tasks, in one transaction.
func (g *CollectionGateway) DeleteCascade(ctx context.Context, id string) error {
	existing, err := g.GetByID(ctx, id)
	if err != nil {
		return writeErr("delete", g.entity, err)
	}
	if existing == nil {
		return nil
	}

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []string
		if err := tx.Model(&model.Task{}).
			Where("collection_id = ? OR original_collection_id = ?", id, id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.Reminder{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", taskIDs).Delete(&model.Task{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&model.Collection{}).Error
	})
	if err != nil {
		return writeErr("delete", g.entity, err)
	}

	g.bus.Publish(TableReminders, existing.OwnerID)
	g.bus.Publish(TableTasks, existing.OwnerID)
	g.bus.Publish(TableCollections, existing.OwnerID)
	return nil
}
