// Package client provides a transport-agnostic interface for the entityd
// service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"

	"github.com/groblegark/entityd/internal/model"
)

// EntityClient is the interface that all entityd CLI commands use to
// communicate with the server. It is implemented by HTTPClient.
type EntityClient interface {
	CreateEntity(ctx context.Context, in *model.EntityInput) (*model.Entity, error)
	GetEntity(ctx context.Context, id int64) (*model.Entity, error)
	ListEntities(ctx context.Context, params *ListParams) ([]*model.Entity, error)
	UpdateEntity(ctx context.Context, id int64, in *model.EntityInput) (*model.Entity, error)
	DeleteEntity(ctx context.Context, id int64) error

	// Health reports the server's health status string.
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// ListParams mirror the query parameters of GET /entities.
type ListParams struct {
	Skip          int
	Limit         int
	JSONPath      string
	JSONValue     string
	JSONContains  string
	JSONKeyExists string
}
