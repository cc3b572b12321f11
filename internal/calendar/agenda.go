package calendar

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"task-manager/internal/model"
)

// Agenda builds the HTML daily digest: overdue tasks, tasks due today and the next week.
func Agenda(tasks []model.Task, now time.Time) string {
	var overdue, today, upcoming []model.Task
	weekAhead := now.AddDate(0, 0, 7)

	for _, task := range tasks {
		if task.IsArchived || task.Status == model.StatusCompleted || task.DueDate == nil {
			continue
		}
		due := *task.DueDate
		switch {
		case task.Status == model.StatusOutdated || due.Before(now):
			overdue = append(overdue, task)
		case SameDay(due, now):
			today = append(today, task)
		case due.Before(weekAhead):
			upcoming = append(upcoming, task)
		}
	}

	for _, group := range [][]model.Task{overdue, today, upcoming} {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].DueDate.Before(*group[j].DueDate)
		})
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily agenda</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("2006-01-02")))

	writeSection(&builder, "⚠️ <b>Overdue</b>", "no overdue tasks", overdue, now)
	writeSection(&builder, "⏳ <b>Due today</b>", "nothing due today", today, now)
	writeSection(&builder, "🟢 <b>Next 7 days</b>", "nothing scheduled", upcoming, now)

	return strings.TrimSpace(builder.String())
}

func writeSection(b *strings.Builder, header, empty string, tasks []model.Task, now time.Time) {
	b.WriteString("\n" + header + "\n")
	if len(tasks) == 0 {
		b.WriteString("— " + empty + "\n")
		return
	}
	for _, task := range tasks {
		b.WriteString(formatTask(task, now))
	}
}

func formatTask(task model.Task, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s", priorityIcon(task.Priority), html.EscapeString(strings.TrimSpace(task.Title))))

	d := task.DueDate.In(now.Location())
	if now.After(d) {
		sb.WriteString(fmt.Sprintf("\n   ⏰ %s — <b>overdue</b>", d.Format("2006-01-02 15:04")))
	} else {
		sb.WriteString(fmt.Sprintf("\n   ⏰ %s", d.Format("2006-01-02 15:04")))
	}

	if desc := strings.TrimSpace(task.Description); desc != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(desc)))
	}

	sb.WriteByte('\n')
	return sb.String()
}

func priorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityLow:
		return "⚪"
	default:
		return "🔵"
	}
}
