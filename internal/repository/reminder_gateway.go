package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// ReminderGateway handles CRUD for reminders.
type ReminderGateway struct {
	*Gateway[model.Reminder]
}

func NewReminderGateway(db *gorm.DB, bus *Bus) *ReminderGateway {
	return &ReminderGateway{Gateway: newGateway[model.Reminder](db, bus, TableReminders, "reminder", "owner_id", "date DESC")}
}

func (g *ReminderGateway) ListByTask(ctx context.Context, taskID string) ([]model.Reminder, error) {
	return g.list(ctx, "task_id = ?", taskID)
}

func (g *ReminderGateway) CountUnread(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	if err := g.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("owner_id = ? AND is_read = ?", ownerID, false).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count unread reminders: %w", err)
	}
	return n, nil
}
