package postgres

import (
	"encoding/json"

	"github.com/groblegark/entityd/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanEntity scans a single row into a model.Entity.
// The row must contain columns in the order defined by entityColumns.
func scanEntity(row scannable) (*model.Entity, error) {
	var (
		e    model.Entity
		data []byte
	)

	if err := row.Scan(&e.ID, &e.CreatedAt, &e.CreatedBy, &data); err != nil {
		return nil, err
	}

	e.CreatedAt = e.CreatedAt.UTC()
	if len(data) > 0 {
		e.Data = json.RawMessage(data)
	}

	return &e, nil
}
