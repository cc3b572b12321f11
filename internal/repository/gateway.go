package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-manager/internal/model"
)

// Snapshot is one push of a live query: the full result set, or the error that prevented reading it.
type Snapshot[T any] struct {
	Items []T
	Err   error
}

// Gateway is the CRUD and live-query contract shared by every entity table.
type Gateway[T model.Entity] struct {
	db          *gorm.DB
	bus         *Bus
	table       string
	entity      string
	ownerColumn string
	order       string
}

func newGateway[T model.Entity](db *gorm.DB, bus *Bus, table, entity, ownerColumn, order string) *Gateway[T] {
	return &Gateway[T]{db: db, bus: bus, table: table, entity: entity, ownerColumn: ownerColumn, order: order}
}

// GetByID returns nil without error when no row has the id.
func (g *Gateway[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var row T
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	switch {
	case err == nil:
		return &row, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find %s: %w", g.entity, err)
	}
}

func (g *Gateway[T]) ListByOwner(ctx context.Context, ownerID string) ([]T, error) {
	return g.list(ctx, g.ownerColumn+" = ?", ownerID)
}

func (g *Gateway[T]) list(ctx context.Context, query string, args ...interface{}) ([]T, error) {
	rows := []T{}
	db := g.db.WithContext(ctx).Where(query, args...)
	if g.order != "" {
		db = db.Order(g.order)
	}
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", g.entity, err)
	}
	return rows, nil
}

// Observe pushes the owner's full row set now and again after every change, until ctx is done.
// The returned channel is closed when the subscription ends.
func (g *Gateway[T]) Observe(ctx context.Context, ownerID string) <-chan Snapshot[T] {
	out := make(chan Snapshot[T])
	changes, cancel := g.bus.Subscribe(g.table, ownerID)

	go func() {
		defer close(out)
		defer cancel()
		for {
			items, err := g.ListByOwner(ctx, ownerID)
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- Snapshot[T]{Items: items, Err: err}:
			case <-ctx.Done():
				return
			}
			select {
			case <-changes:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// Upsert inserts the row or replaces every column of the row with the same id.
func (g *Gateway[T]) Upsert(ctx context.Context, entity T) error {
	if entity.GetOwnerID() == "" {
		return writeErr("upsert", g.entity, ErrUnknownOwner)
	}
	if err := g.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entity).Error; err != nil {
		return writeErr("upsert", g.entity, err)
	}
	g.bus.Publish(g.table, entity.GetOwnerID())
	return nil
}

// DeleteByID removes the row if present; a missing id is not an error.
func (g *Gateway[T]) DeleteByID(ctx context.Context, id string) error {
	existing, err := g.GetByID(ctx, id)
	if err != nil {
		return writeErr("delete", g.entity, err)
	}
	if existing == nil {
		return nil
	}
	if err := g.db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error; err != nil {
		return writeErr("delete", g.entity, err)
	}
	g.bus.Publish(g.table, (*existing).GetOwnerID())
	return nil
}
