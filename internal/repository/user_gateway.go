package repository

import (
	"gorm.io/gorm"

	"task-manager/internal/model"
)

// UserGateway caches signed-in identities locally.
type UserGateway struct {
	*Gateway[model.User]
}

func NewUserGateway(db *gorm.DB, bus *Bus) *UserGateway {
	return &UserGateway{Gateway: newGateway[model.User](db, bus, TableUsers, "user", "id", "")}
}
