package service

import (
	"context"
	"fmt"
	"time"

	"task-manager/internal/calendar"
	"task-manager/internal/model"
)

// DeadlinePolicy decides when an uncompleted task counts as approaching its deadline:
// its due date is between MinLead and Window from now, inclusive.
type DeadlinePolicy struct {
	MinLead time.Duration
	Window  time.Duration
}

var DefaultDeadlinePolicy = DeadlinePolicy{MinLead: time.Hour, Window: 24 * time.Hour}

// SweepPlan is what one sweep has to write.
type SweepPlan struct {
	// Outdated holds the tasks with their status already set to OUTDATED.
	Outdated  []model.Task
	Reminders []model.Reminder
}

// PlanSweep derives status changes and system reminders for tasks at now.
// Archived, completed and already outdated tasks are skipped. An approaching-deadline
// reminder is emitted at most once per task per calendar day.
func PlanSweep(tasks []model.Task, existing []model.Reminder, now time.Time, policy DeadlinePolicy) SweepPlan {
	notifiedToday := make(map[string]bool)
	for _, r := range existing {
		if r.Kind == model.ReminderApproaching && calendar.SameDay(r.Date, now) {
			notifiedToday[r.TaskID] = true
		}
	}

	var plan SweepPlan
	for _, task := range tasks {
		if task.IsArchived || task.DueDate == nil || task.Status != model.StatusUncompleted {
			continue
		}

		if task.IsOverdue(now) {
			task.Status = model.StatusOutdated
			plan.Outdated = append(plan.Outdated, task)
			plan.Reminders = append(plan.Reminders, model.OverdueReminder(task, now))
			continue
		}

		until := task.DueDate.Sub(now)
		if until >= policy.MinLead && until <= policy.Window && !notifiedToday[task.ID] {
			plan.Reminders = append(plan.Reminders, model.ApproachingReminder(task, now))
			notifiedToday[task.ID] = true
		}
	}
	return plan
}

// Sweep marks overdue tasks OUTDATED and records deadline reminders for the signed-in owner.
// Concurrent calls are serialized.
func (c *Controller) Sweep(ctx context.Context) error {
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()

	owner := c.session.OwnerID()
	if owner == "" {
		return nil
	}
	now := c.now()

	tasks, err := c.store.GetAllTasks(ctx, owner)
	if err != nil {
		return c.fail(fmt.Errorf("sweep: %w", err))
	}
	reminders, err := c.store.GetAllReminders(ctx, owner)
	if err != nil {
		return c.fail(fmt.Errorf("sweep: %w", err))
	}

	plan := PlanSweep(tasks, reminders, now, c.policy)
	if len(plan.Outdated) == 0 && len(plan.Reminders) == 0 {
		return nil
	}

	for _, task := range plan.Outdated {
		if err := c.store.UpdateTask(ctx, task); err != nil {
			return c.fail(fmt.Errorf("sweep: %w", err))
		}
		c.log.Info("task outdated", "owner", owner, "task", task.ID)
	}
	for _, reminder := range plan.Reminders {
		if err := c.store.AddReminder(ctx, reminder); err != nil {
			return c.fail(fmt.Errorf("sweep: %w", err))
		}
		if err := c.notifier.Notify(ctx, reminder); err != nil {
			c.log.Warn("notify reminder", "owner", owner, "reminder", reminder.ID, "error", err)
		}
	}

	return c.Load(ctx)
}

// StartSweeping runs Sweep on sched every interval until StopSweeping.
func (c *Controller) StartSweeping(sched *SchedulerService, interval time.Duration) error {
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()
	if c.sweepSched != nil {
		return fmt.Errorf("sweep already scheduled")
	}

	id, err := sched.ScheduleInterval(interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		if err := c.Sweep(ctx); err != nil {
			c.log.Error("deadline sweep", "error", err)
		}
	})
	if err != nil {
		return err
	}
	c.sweepSched = sched
	c.sweepEntry = id
	return nil
}

// StopSweeping removes the sweep job; it is safe to call when no sweep is scheduled.
func (c *Controller) StopSweeping() {
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()
	if c.sweepSched == nil {
		return
	}
	c.sweepSched.Remove(c.sweepEntry)
	c.sweepSched = nil
}
