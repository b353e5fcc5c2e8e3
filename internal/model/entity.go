// Package model defines the persisted types shared by the server, store,
// client, and CLI.
package model

import (
	"encoding/json"
	"time"
)

// Entity is a stored record pairing metadata (id, timestamp, creator) with an
// arbitrary JSON document.
type Entity struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by"`
	Data      json.RawMessage `json:"data"`
}

// EntityInput is the request body accepted by create and update. The id and
// creation timestamp are owned by the server and never read from input.
type EntityInput struct {
	CreatedBy string          `json:"created_by"`
	Data      json.RawMessage `json:"data"`
}
