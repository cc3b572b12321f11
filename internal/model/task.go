package model

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority maps stored values back to a Priority; unknown values fall back to NORMAL.
func ParsePriority(raw string) Priority {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(raw))); p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return p
	default:
		return PriorityNormal
	}
}

type TaskStatus string

const (
	StatusUncompleted TaskStatus = "UNCOMPLETED"
	StatusCompleted   TaskStatus = "COMPLETED"
	StatusOutdated    TaskStatus = "OUTDATED"
)

// ParseStatus maps stored values back to a TaskStatus.
// The legacy IN_PROGRESS value and anything unknown become UNCOMPLETED.
func ParseStatus(raw string) TaskStatus {
	switch s := TaskStatus(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StatusUncompleted, StatusCompleted, StatusOutdated:
		return s
	default:
		return StatusUncompleted
	}
}

// CanTransition reports whether a user action may move a task from one status to another.
// Moving to OUTDATED is reserved for the deadline sweep.
func CanTransition(from, to TaskStatus) bool {
	if from == to {
		return true
	}
	switch to {
	case StatusCompleted:
		return from == StatusUncompleted || from == StatusOutdated
	case StatusUncompleted:
		return from == StatusCompleted || from == StatusOutdated
	default:
		return false
	}
}

// Task represents a single item in the planner.
type Task struct {
	ID                   string     `gorm:"primaryKey"`
	Title                string     `gorm:"not null"`
	Description          string     `gorm:"not null"`
	DueDate              *time.Time `gorm:"serializer:millis;type:integer"`
	OwnerID              string     `gorm:"index;not null"`
	CollectionID         *string    `gorm:"index"`
	OriginalCollectionID *string
	Priority             Priority   `gorm:"not null"`
	Status               TaskStatus `gorm:"not null"`
	IsArchived           bool       `gorm:"not null"`
	CreatedAt            time.Time  `gorm:"serializer:millis;type:integer;autoCreateTime:false"`
}

func (t Task) GetID() string      { return t.ID }
func (t Task) GetOwnerID() string { return t.OwnerID }

// NewTask builds an uncompleted, normal priority task created now.
func NewTask(ownerID, title string, now time.Time) Task {
	return Task{
		ID:        NewID(),
		Title:     strings.TrimSpace(title),
		OwnerID:   ownerID,
		Priority:  PriorityNormal,
		Status:    StatusUncompleted,
		CreatedAt: Millis(now),
	}
}

// IsOverdue reports whether the task should be moved to OUTDATED at now.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Status == StatusUncompleted && t.DueDate != nil && t.DueDate.Before(now)
}

// Archive moves the task out of its collection, remembering where it came from.
func (t Task) Archive() Task {
	if t.IsArchived {
		return t
	}
	t.IsArchived = true
	t.OriginalCollectionID = t.CollectionID
	t.CollectionID = nil
	return t
}

// Unarchive puts the task back into the collection it was archived from.
func (t Task) Unarchive() Task {
	if !t.IsArchived {
		return t
	}
	t.IsArchived = false
	t.CollectionID = t.OriginalCollectionID
	t.OriginalCollectionID = nil
	return t
}

func (t Task) String() string {
	return fmt.Sprintf("task %s %q (%s)", t.ID, t.Title, t.Status)
}

// Millis truncates t to the precision timestamps are stored with.
func Millis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli())
}
