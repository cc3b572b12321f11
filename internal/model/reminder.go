package model

import (
	"fmt"
	"time"
)

type ReminderKind string

const (
	ReminderUser        ReminderKind = "user"
	ReminderOverdue     ReminderKind = "overdue"
	ReminderApproaching ReminderKind = "approaching"
)

// Reminder is a notification for the owner, either standalone or attached to a task.
type Reminder struct {
	ID          string       `gorm:"primaryKey"`
	Title       string       `gorm:"not null"`
	Description string       `gorm:"not null"`
	OwnerID     string       `gorm:"index;not null"`
	TaskID      string       `gorm:"index;not null"`
	Kind        ReminderKind `gorm:"not null"`
	Date        time.Time    `gorm:"serializer:millis;type:integer"`
	IsRead      bool         `gorm:"not null"`
}

func (r Reminder) GetID() string      { return r.ID }
func (r Reminder) GetOwnerID() string { return r.OwnerID }

// IsStandalone reports whether the reminder is not tied to any task.
func (r Reminder) IsStandalone() bool { return r.TaskID == "" }

// IsSystem reports whether the reminder was generated by the deadline sweep.
func (r Reminder) IsSystem() bool { return r.Kind == ReminderOverdue || r.Kind == ReminderApproaching }

// NewReminder builds an unread user reminder. An empty taskID makes it standalone.
func NewReminder(ownerID, taskID, title, description string, date time.Time) Reminder {
	return Reminder{
		ID:          NewID(),
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		TaskID:      taskID,
		Kind:        ReminderUser,
		Date:        Millis(date),
	}
}

// OverdueReminder records that task passed its due date.
func OverdueReminder(task Task, now time.Time) Reminder {
	r := NewReminder(task.OwnerID, task.ID,
		fmt.Sprintf("Task Overdue: %s", task.Title),
		fmt.Sprintf("The task '%s' is now overdue. Please complete it as soon as possible.", task.Title),
		now)
	r.Kind = ReminderOverdue
	return r
}

// ApproachingReminder records that task is due within the next day.
func ApproachingReminder(task Task, now time.Time) Reminder {
	r := NewReminder(task.OwnerID, task.ID,
		fmt.Sprintf("Deadline Approaching: %s", task.Title),
		fmt.Sprintf("The task '%s' is due in less than 24 hours. Don't forget to complete it!", task.Title),
		now)
	r.Kind = ReminderApproaching
	return r
}
