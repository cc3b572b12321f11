package model

import "strings"

// Collection groups tasks (work, health, study, etc.).
type Collection struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	OwnerID     string `gorm:"index;not null"`
	Description *string
	Color       *int64
	BannerImage *string
	IsFavorite  bool `gorm:"not null"`
}

func (c Collection) GetID() string      { return c.ID }
func (c Collection) GetOwnerID() string { return c.OwnerID }

// NewCollection builds a collection with a fresh client-side id.
func NewCollection(ownerID, name string) Collection {
	return Collection{
		ID:      NewID(),
		Name:    strings.TrimSpace(name),
		OwnerID: ownerID,
	}
}
