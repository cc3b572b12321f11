package calendar

import (
	"strings"
	"testing"
	"time"

	"task-manager/internal/model"
)

func TestMonthGrid_StartsOnSunday(t *testing.T) {
	t.Parallel()

	// March 2026 starts on a Sunday.
	selected := time.Date(2026, time.March, 18, 15, 30, 0, 0, time.UTC)
	grid := MonthGrid(selected)

	if len(grid) != GridCells {
		t.Fatalf("expected %d cells, got %d", GridCells, len(grid))
	}
	if grid[0].Date.Weekday() != time.Sunday || grid[0].Day != 1 || !grid[0].IsCurrentMonth {
		t.Fatalf("expected grid to start on Sunday March 1, got %+v", grid[0])
	}

	selectedCount := 0
	inMonth := 0
	for _, d := range grid {
		if d.IsSelected {
			selectedCount++
			if d.Day != 18 {
				t.Fatalf("expected day 18 to be selected, got %d", d.Day)
			}
		}
		if d.IsCurrentMonth {
			inMonth++
		}
	}
	if selectedCount != 1 {
		t.Fatalf("expected exactly one selected cell, got %d", selectedCount)
	}
	if inMonth != 31 {
		t.Fatalf("expected 31 in-month cells, got %d", inMonth)
	}
}

func TestMonthGrid_LeadingDaysFromPreviousMonth(t *testing.T) {
	t.Parallel()

	// October 2026 starts on a Thursday.
	grid := MonthGrid(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC))

	if grid[0].Day != 27 || grid[0].IsCurrentMonth {
		t.Fatalf("expected grid to start on September 27, got %+v", grid[0])
	}
	if !grid[4].IsCurrentMonth || grid[4].Day != 1 {
		t.Fatalf("expected fifth cell to be October 1, got %+v", grid[4])
	}
	last := grid[len(grid)-1]
	if last.IsCurrentMonth || last.Date.Month() != time.November {
		t.Fatalf("expected trailing cells from November, got %+v", last)
	}
}

func TestTasksOn(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC)
	late := day.Add(18 * time.Hour)
	early := day.Add(9 * time.Hour)
	nextDay := day.Add(30 * time.Hour)

	a := model.NewTask("u1", "late", day)
	a.DueDate = &late
	b := model.NewTask("u1", "early", day)
	b.DueDate = &early
	c := model.NewTask("u1", "tomorrow", day)
	c.DueDate = &nextDay
	d := model.NewTask("u1", "archived", day)
	d.DueDate = &early
	d.IsArchived = true
	e := model.NewTask("u1", "no date", day)

	got := TasksOn([]model.Task{a, b, c, d, e}, day)
	if len(got) != 2 || got[0].Title != "early" || got[1].Title != "late" {
		t.Fatalf("unexpected tasks for day: %+v", got)
	}

	marked := DaysWithTasks(MonthGrid(day), []model.Task{a, c})
	if len(marked) != 2 {
		t.Fatalf("expected two marked days, got %v", marked)
	}
}

func TestAgenda(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.May, 4, 8, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tonight := now.Add(10 * time.Hour)
	nextWeek := now.Add(72 * time.Hour)

	overdue := model.NewTask("u1", "Report", now)
	overdue.DueDate = &yesterday
	overdue.Status = model.StatusOutdated
	today := model.NewTask("u1", "Gym <3", now)
	today.DueDate = &tonight
	soon := model.NewTask("u1", "Taxes", now)
	soon.DueDate = &nextWeek
	done := model.NewTask("u1", "Done already", now)
	done.DueDate = &tonight
	done.Status = model.StatusCompleted

	text := Agenda([]model.Task{overdue, today, soon, done}, now)

	for _, want := range []string{"Report", "<b>overdue</b>", "Gym &lt;3", "Taxes", "2026-05-04"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected agenda to contain %q, got:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Done already") {
		t.Fatalf("completed task must not be listed:\n%s", text)
	}
}
