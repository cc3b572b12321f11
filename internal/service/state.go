package service

import "task-manager/internal/model"

// State is an immutable snapshot of the signed-in owner's data.
// Writers replace the whole snapshot; nothing mutates a published State.
type State struct {
	OwnerID     string
	Collections []model.Collection
	Tasks       []model.Task
	Reminders   []model.Reminder
	// Err holds the last failed write, cleared by the next successful one.
	Err error
}

// ActiveTasks returns tasks that are not archived.
func (s State) ActiveTasks() []model.Task {
	return filterTasks(s.Tasks, func(t model.Task) bool { return !t.IsArchived })
}

func (s State) ArchivedTasks() []model.Task {
	return filterTasks(s.Tasks, func(t model.Task) bool { return t.IsArchived })
}

func (s State) TasksInCollection(collectionID string) []model.Task {
	return filterTasks(s.Tasks, func(t model.Task) bool {
		return t.CollectionID != nil && *t.CollectionID == collectionID
	})
}

func (s State) FavoriteCollections() []model.Collection {
	out := make([]model.Collection, 0, len(s.Collections))
	for _, c := range s.Collections {
		if c.IsFavorite {
			out = append(out, c)
		}
	}
	return out
}

func (s State) UnreadCount() int {
	n := 0
	for _, r := range s.Reminders {
		if !r.IsRead {
			n++
		}
	}
	return n
}

func filterTasks(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
