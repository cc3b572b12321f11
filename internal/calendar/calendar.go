// Package calendar lays out month grids and per-day task lists for the deadline calendar.
package calendar

import (
	"sort"
	"time"

	"task-manager/internal/model"
)

// GridCells is six weeks, enough to show any month.
const GridCells = 42

// Day is one cell of a month grid.
type Day struct {
	Date           time.Time
	Day            int
	IsCurrentMonth bool
	IsSelected     bool
}

// MonthGrid returns the 42 days shown for the month of selected, starting on the Sunday
// on or before the first of the month.
func MonthGrid(selected time.Time) []Day {
	year, month, day := selected.Date()
	loc := selected.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	days := make([]Day, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		d := start.AddDate(0, 0, i)
		inMonth := d.Month() == month && d.Year() == year
		days = append(days, Day{
			Date:           d,
			Day:            d.Day(),
			IsCurrentMonth: inMonth,
			IsSelected:     inMonth && d.Day() == day,
		})
	}
	return days
}

// SameDay reports whether a and b fall on the same calendar day in b's location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// TasksOn returns the non-archived tasks due on day, earliest first.
func TasksOn(tasks []model.Task, day time.Time) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if t.IsArchived || t.DueDate == nil {
			continue
		}
		if SameDay(*t.DueDate, day) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return out
}

// DaysWithTasks marks which days of the grid have at least one non-archived task due.
func DaysWithTasks(grid []Day, tasks []model.Task) map[int]bool {
	marked := make(map[int]bool)
	for i, d := range grid {
		if len(TasksOn(tasks, d.Date)) > 0 {
			marked[i] = true
		}
	}
	return marked
}
