package model

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := map[[2]TaskStatus]bool{
		{StatusUncompleted, StatusCompleted}:   true,
		{StatusCompleted, StatusUncompleted}:   true,
		{StatusOutdated, StatusCompleted}:      true,
		{StatusOutdated, StatusUncompleted}:    true,
		{StatusUncompleted, StatusOutdated}:    false,
		{StatusCompleted, StatusOutdated}:      false,
		{StatusCompleted, StatusCompleted}:     true,
		{StatusOutdated, StatusOutdated}:       true,
		{StatusUncompleted, StatusUncompleted}: true,
	}
	for pair, want := range allowed {
		if got := CanTransition(pair[0], pair[1]); got != want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", pair[0], pair[1], got, want)
		}
	}
}

func TestParseStatus_Legacy(t *testing.T) {
	t.Parallel()

	if got := ParseStatus("IN_PROGRESS"); got != StatusUncompleted {
		t.Fatalf("expected UNCOMPLETED for legacy value, got %s", got)
	}
	if got := ParseStatus("outdated"); got != StatusOutdated {
		t.Fatalf("expected OUTDATED, got %s", got)
	}
	if got := ParsePriority("bogus"); got != PriorityNormal {
		t.Fatalf("expected NORMAL priority fallback, got %s", got)
	}
}

func TestTaskArchiveRoundTrip(t *testing.T) {
	t.Parallel()

	collectionID := "c1"
	task := NewTask("u1", "Report", time.Now())
	task.CollectionID = &collectionID

	archived := task.Archive()
	if !archived.IsArchived || archived.CollectionID != nil {
		t.Fatalf("expected archived task without collection, got %+v", archived)
	}
	if archived.OriginalCollectionID == nil || *archived.OriginalCollectionID != collectionID {
		t.Fatalf("expected original collection %q to be kept", collectionID)
	}

	restored := archived.Unarchive()
	if restored.IsArchived {
		t.Fatalf("expected archived flag to be cleared")
	}
	if restored.CollectionID == nil || *restored.CollectionID != collectionID {
		t.Fatalf("expected collection %q to be restored", collectionID)
	}
}

func TestTaskIsOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	task := NewTask("u1", "Report", now)
	if task.IsOverdue(now) {
		t.Fatalf("task without due date must not be overdue")
	}
	task.DueDate = &past
	if !task.IsOverdue(now) {
		t.Fatalf("expected task due in the past to be overdue")
	}
	task.Status = StatusCompleted
	if task.IsOverdue(now) {
		t.Fatalf("completed task must never be overdue")
	}
	task.Status = StatusUncompleted
	task.DueDate = &future
	if task.IsOverdue(now) {
		t.Fatalf("task due in the future must not be overdue")
	}
}
