// Package server exposes the entity store over an HTTP/JSON API.
package server

import (
	"context"
	"log/slog"

	"github.com/groblegark/entityd/internal/events"
	"github.com/groblegark/entityd/internal/store"
)

// EntityServer handles entity CRUD requests against a store and publishes
// lifecycle events for each successful write.
type EntityServer struct {
	store     store.Store
	publisher events.Publisher
}

// NewEntityServer returns a new EntityServer backed by the given store and publisher.
func NewEntityServer(s store.Store, p events.Publisher) *EntityServer {
	return &EntityServer{
		store:     s,
		publisher: p,
	}
}

// publish sends a lifecycle event. Best-effort; failures are logged but do
// not fail the request that triggered them.
func (s *EntityServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}
