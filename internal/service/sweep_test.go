package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"task-manager/internal/model"
	"task-manager/internal/repository"
)

func remindersForTask(t *testing.T, f *fixture, taskID string, kind model.ReminderKind) []model.Reminder {
	t.Helper()

	all, err := f.repo.GetRemindersByTask(context.Background(), taskID)
	if err != nil {
		t.Fatalf("GetRemindersByTask returned error: %v", err)
	}
	var out []model.Reminder
	for _, r := range all {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func TestSweepMarksOverdueTask(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	work := mustAddCollection(t, f, "Work")
	yesterday := f.clock.Now().Add(-24 * time.Hour)
	t1 := mustAddTask(t, f, TaskInput{Title: "Report", CollectionID: &work.ID, DueDate: &yesterday})

	if err := f.ctrl.Sweep(ctx); err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}

	got, err := f.repo.GetTaskByID(ctx, t1.ID)
	if err != nil || got == nil {
		t.Fatalf("GetTaskByID returned %v, %v", got, err)
	}
	if got.Status != model.StatusOutdated {
		t.Fatalf("expected OUTDATED, got %s", got.Status)
	}

	overdue := remindersForTask(t, f, t1.ID, model.ReminderOverdue)
	if len(overdue) != 1 {
		t.Fatalf("expected exactly one overdue reminder, got %d", len(overdue))
	}
	if !strings.Contains(overdue[0].Description, "overdue") {
		t.Fatalf("expected description to mention overdue, got %q", overdue[0].Description)
	}
	if overdue[0].OwnerID != "u1" || overdue[0].IsRead {
		t.Fatalf("unexpected reminder: %+v", overdue[0])
	}

	if findTask(t, f.ctrl.Snapshot(), t1.ID).Status != model.StatusOutdated {
		t.Fatalf("expected snapshot to be reloaded after sweep")
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].TaskID != t1.ID {
		t.Fatalf("expected overdue reminder to be delivered, got %+v", f.notifier.sent)
	}

	// The transition is one-way and happens once.
	f.clock.Set(f.clock.Now().Add(time.Minute))
	if err := f.ctrl.Sweep(ctx); err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if n := len(remindersForTask(t, f, t1.ID, model.ReminderOverdue)); n != 1 {
		t.Fatalf("expected no additional overdue reminder, got %d", n)
	}
}

func TestSweepLeavesCompletedTasks(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	lastWeek := f.clock.Now().Add(-7 * 24 * time.Hour)
	task := mustAddTask(t, f, TaskInput{Title: "Done", DueDate: &lastWeek, Status: model.StatusCompleted})

	for i := 0; i < 3; i++ {
		if err := f.ctrl.Sweep(ctx); err != nil {
			t.Fatalf("Sweep returned error: %v", err)
		}
		f.clock.Set(f.clock.Now().Add(time.Minute))
	}

	got, _ := f.repo.GetTaskByID(ctx, task.ID)
	if got.Status != model.StatusCompleted {
		t.Fatalf("expected COMPLETED to be kept, got %s", got.Status)
	}
	reminders, _ := f.repo.GetRemindersByTask(ctx, task.ID)
	if len(reminders) != 0 {
		t.Fatalf("expected no reminders for completed task, got %d", len(reminders))
	}
}

func TestSweepApproachingDeadlineOncePerDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	base := time.Date(2026, time.October, 19, 23, 0, 0, 0, time.Local)
	f.clock.Set(base)
	due := base.Add(20 * time.Hour)
	task := mustAddTask(t, f, TaskInput{Title: "Slides", DueDate: &due})

	if err := f.ctrl.Sweep(ctx); err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	f.clock.Set(base.Add(30 * time.Minute))
	if err := f.ctrl.Sweep(ctx); err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	approaching := remindersForTask(t, f, task.ID, model.ReminderApproaching)
	if len(approaching) != 1 {
		t.Fatalf("expected one approaching reminder on the same day, got %d", len(approaching))
	}
	if !strings.Contains(approaching[0].Title, "Deadline Approaching") {
		t.Fatalf("unexpected reminder title %q", approaching[0].Title)
	}

	f.clock.Set(base.Add(90 * time.Minute))
	if err := f.ctrl.Sweep(ctx); err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if n := len(remindersForTask(t, f, task.ID, model.ReminderApproaching)); n != 2 {
		t.Fatalf("expected a new approaching reminder on the next day, got %d", n)
	}

	got, _ := f.repo.GetTaskByID(ctx, task.ID)
	if got.Status != model.StatusUncompleted {
		t.Fatalf("approaching deadline must not change status, got %s", got.Status)
	}
}

func TestSweepSkipsArchivedTasks(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	yesterday := f.clock.Now().Add(-24 * time.Hour)
	task := mustAddTask(t, f, TaskInput{Title: "Old", DueDate: &yesterday})
	if err := f.ctrl.ArchiveTask(ctx, task.ID); err != nil {
		t.Fatalf("ArchiveTask returned error: %v", err)
	}

	if err := f.ctrl.Sweep(ctx); err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	got, _ := f.repo.GetTaskByID(ctx, task.ID)
	if got.Status != model.StatusUncompleted {
		t.Fatalf("archived task must not be swept, got %s", got.Status)
	}
}

func TestPlanSweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	overdue := model.NewTask("u1", "overdue", now)
	overdue.DueDate = at(-time.Second)
	soon := model.NewTask("u1", "too soon", now)
	soon.DueDate = at(30 * time.Minute)
	inWindow := model.NewTask("u1", "in window", now)
	inWindow.DueDate = at(time.Hour)
	edge := model.NewTask("u1", "edge", now)
	edge.DueDate = at(24 * time.Hour)
	far := model.NewTask("u1", "far", now)
	far.DueDate = at(25 * time.Hour)
	outdated := model.NewTask("u1", "outdated", now)
	outdated.DueDate = at(-time.Hour)
	outdated.Status = model.StatusOutdated
	noDate := model.NewTask("u1", "no date", now)
	notified := model.NewTask("u1", "notified", now)
	notified.DueDate = at(2 * time.Hour)

	existing := []model.Reminder{model.ApproachingReminder(notified, now.Add(-time.Hour))}
	plan := PlanSweep([]model.Task{overdue, soon, inWindow, edge, far, outdated, noDate, notified}, existing, now, DefaultDeadlinePolicy)

	if len(plan.Outdated) != 1 || plan.Outdated[0].ID != overdue.ID || plan.Outdated[0].Status != model.StatusOutdated {
		t.Fatalf("expected only the overdue task to be outdated, got %+v", plan.Outdated)
	}

	kinds := make(map[string]model.ReminderKind)
	for _, r := range plan.Reminders {
		kinds[r.TaskID] = r.Kind
	}
	want := map[string]model.ReminderKind{
		overdue.ID:  model.ReminderOverdue,
		inWindow.ID: model.ReminderApproaching,
		edge.ID:     model.ReminderApproaching,
	}
	if len(kinds) != len(want) || len(plan.Reminders) != len(want) {
		t.Fatalf("expected reminders %v, got %v", want, kinds)
	}
	for id, kind := range want {
		if kinds[id] != kind {
			t.Fatalf("expected %s reminder for %s, got %q", kind, id, kinds[id])
		}
	}
}

func TestStartStopSweeping(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	sched := NewSchedulerService(slog.New(slog.NewTextHandler(io.Discard, nil)), time.UTC)

	if err := f.ctrl.StartSweeping(sched, time.Minute); err != nil {
		t.Fatalf("StartSweeping returned error: %v", err)
	}
	if err := f.ctrl.StartSweeping(sched, time.Minute); err == nil {
		t.Fatalf("expected error when sweep is already scheduled")
	}
	entry := f.ctrl.sweepEntry
	if _, ok := sched.Next(entry); !ok {
		t.Fatalf("expected sweep entry to be scheduled")
	}

	f.ctrl.StopSweeping()
	f.ctrl.StopSweeping()
	if _, ok := sched.Next(entry); ok {
		t.Fatalf("expected sweep entry to be removed")
	}
}

type unreadableTasksStore struct {
	*repository.Repository
}

func (unreadableTasksStore) GetAllTasks(context.Context, string) ([]model.Task, error) {
	return nil, errors.New("disk I/O error")
}

func TestSweepRecordsReadFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, unreadableTasksStore{Repository: newTestRepository(t)})

	err := f.ctrl.Sweep(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk I/O error") {
		t.Fatalf("expected read failure, got %v", err)
	}
	if got := f.ctrl.Snapshot().Err; got == nil || !errors.Is(got, err) {
		t.Fatalf("expected read failure recorded in snapshot, got %v", got)
	}
}
