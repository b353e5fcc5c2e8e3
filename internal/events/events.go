package events

import (
	"context"

	"github.com/groblegark/entityd/internal/model"
)

// Event topic constants
const (
	TopicEntityCreated = "entities.entity.created"
	TopicEntityUpdated = "entities.entity.updated"
	TopicEntityDeleted = "entities.entity.deleted"
)

// Publisher publishes entity lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// EntityCreated is published after a new entity is persisted.
type EntityCreated struct {
	Entity *model.Entity `json:"entity"`
}

// EntityUpdated is published after an entity's created_by or data changes.
type EntityUpdated struct {
	Entity *model.Entity `json:"entity"`
}

// EntityDeleted is published after an entity is removed.
type EntityDeleted struct {
	ID int64 `json:"id"`
}
