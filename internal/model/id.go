package model

import "github.com/google/uuid"

// NewID returns a client-generated identifier for a new record.
func NewID() string {
	return uuid.NewString()
}

// Entity is implemented by every persisted record type.
type Entity interface {
	GetID() string
	GetOwnerID() string
}
