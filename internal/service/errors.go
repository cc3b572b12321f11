package service

import "errors"

// Collections errors
var (
	ErrCollectionNotFound    = errors.New("collection not found")
	ErrCollectionInvalidArgs = errors.New("collection invalid args")
)

// Tasks errors
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskInvalidArgs   = errors.New("task invalid args")
	ErrInvalidTransition = errors.New("task status transition not allowed")
)

// Reminders errors
var (
	ErrReminderNotFound = errors.New("reminder not found")
)
