package store

import (
	"context"

	"github.com/groblegark/entityd/internal/model"
	"github.com/groblegark/entityd/internal/query"
)

// Store defines the persistence interface for entities.
type Store interface {
	// Entity CRUD
	CreateEntity(ctx context.Context, e *model.Entity) error
	GetEntity(ctx context.Context, id int64) (*model.Entity, error)
	ListEntities(ctx context.Context, filter query.Filter) ([]*model.Entity, error)
	UpdateEntity(ctx context.Context, e *model.Entity) error
	DeleteEntity(ctx context.Context, id int64) error

	// Ping verifies the backing database is reachable (used by /health).
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}
