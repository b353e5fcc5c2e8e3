// Package export writes and reads JSONL snapshots of the entity table. It is
// invoked on demand from the CLI; the server never runs it in the background.
package export

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/groblegark/entityd/internal/model"
	"github.com/groblegark/entityd/internal/query"
	"github.com/groblegark/entityd/internal/store"
)

// batchSize is the page size used when scanning the entity table.
const batchSize = 500

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	EntityCount int       `json:"entity_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ExportJSONL writes all entities from the store as JSONL to w, ordered by id.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	var all []*model.Entity
	skip := 0
	for {
		page, err := s.ListEntities(ctx, query.Filter{Skip: skip, Limit: batchSize})
		if err != nil {
			return fmt.Errorf("list entities: %w", err)
		}
		all = append(all, page...)
		if len(page) < batchSize {
			break
		}
		skip += batchSize
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(header{
		Version:     "1",
		Type:        "header",
		Timestamp:   time.Now().UTC(),
		EntityCount: len(all),
	}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range all {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entity %d: %w", e.ID, err)
		}
		if err := enc.Encode(record{Type: "entity", Data: data}); err != nil {
			return fmt.Errorf("write entity %d: %w", e.ID, err)
		}
	}

	return nil
}

// ImportJSONL reads a snapshot produced by ExportJSONL and creates each
// entity in the store. Ids are reassigned by the database; creator and
// timestamp are preserved from the snapshot. It returns the number of
// entities created.
func ImportJSONL(ctx context.Context, s store.Store, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	count := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return count, fmt.Errorf("parse line %d: %w", count+1, err)
		}
		if rec.Type != "entity" {
			continue
		}

		var e model.Entity
		if err := json.Unmarshal(rec.Data, &e); err != nil {
			return count, fmt.Errorf("parse entity record: %w", err)
		}

		created := &model.Entity{
			CreatedAt: e.CreatedAt,
			CreatedBy: e.CreatedBy,
			Data:      e.Data,
		}
		if created.CreatedAt.IsZero() {
			created.CreatedAt = time.Now().UTC()
		}
		if err := s.CreateEntity(ctx, created); err != nil {
			return count, fmt.Errorf("create entity: %w", err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("read snapshot: %w", err)
	}

	return count, nil
}
