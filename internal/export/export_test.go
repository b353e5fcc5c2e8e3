package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/groblegark/entityd/internal/model"
	"github.com/groblegark/entityd/internal/query"
)

// memStore is a minimal in-memory store.Store for export tests.
type memStore struct {
	entities map[int64]*model.Entity
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{entities: make(map[int64]*model.Entity)}
}

func (m *memStore) CreateEntity(_ context.Context, e *model.Entity) error {
	m.nextID++
	e.ID = m.nextID
	clone := *e
	m.entities[e.ID] = &clone
	return nil
}

func (m *memStore) GetEntity(_ context.Context, id int64) (*model.Entity, error) {
	e, ok := m.entities[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return e, nil
}

func (m *memStore) ListEntities(_ context.Context, filter query.Filter) ([]*model.Entity, error) {
	var all []*model.Entity
	for _, e := range m.entities {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if filter.Skip >= len(all) {
		return nil, nil
	}
	all = all[filter.Skip:]
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, nil
}

func (m *memStore) UpdateEntity(_ context.Context, e *model.Entity) error {
	if _, ok := m.entities[e.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *e
	m.entities[e.ID] = &clone
	return nil
}

func (m *memStore) DeleteEntity(_ context.Context, id int64) error {
	if _, ok := m.entities[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.entities, id)
	return nil
}

func (m *memStore) Ping(_ context.Context) error { return nil }
func (m *memStore) Close() error                 { return nil }

func seedEntity(t *testing.T, s *memStore, createdBy, data string) *model.Entity {
	t.Helper()
	e := &model.Entity{
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		CreatedBy: createdBy,
		Data:      json.RawMessage(data),
	}
	if err := s.CreateEntity(context.Background(), e); err != nil {
		t.Fatalf("seeding entity: %v", err)
	}
	return e
}

func TestExportJSONL(t *testing.T) {
	s := newMemStore()
	seedEntity(t, s, "alice", `{"a":1}`)
	seedEntity(t, s, "bob", `{"b":2}`)

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), s, &buf); err != nil {
		t.Fatalf("ExportJSONL: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 entities)", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("parsing header: %v", err)
	}
	if h.Type != "header" || h.EntityCount != 2 || h.Version != "1" {
		t.Errorf("header = %+v", h)
	}

	var rec record
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("parsing record: %v", err)
	}
	if rec.Type != "entity" {
		t.Errorf("record type = %q", rec.Type)
	}
	var e model.Entity
	if err := json.Unmarshal(rec.Data, &e); err != nil {
		t.Fatalf("parsing entity: %v", err)
	}
	if e.CreatedBy != "alice" || string(e.Data) != `{"a":1}` {
		t.Errorf("first entity = %+v", e)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := newMemStore()
	seedEntity(t, src, "alice", `{"a":1,"b":{"c":2}}`)
	seedEntity(t, src, "bob", `{"z":true}`)

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), src, &buf); err != nil {
		t.Fatalf("ExportJSONL: %v", err)
	}

	dst := newMemStore()
	n, err := ImportJSONL(context.Background(), dst, &buf)
	if err != nil {
		t.Fatalf("ImportJSONL: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d entities, want 2", n)
	}

	restored, err := dst.ListEntities(context.Background(), query.Filter{Limit: 10})
	if err != nil {
		t.Fatalf("listing restored entities: %v", err)
	}
	if len(restored) != 2 {
		t.Fatalf("restored %d entities, want 2", len(restored))
	}
	if restored[0].CreatedBy != "alice" || string(restored[0].Data) != `{"a":1,"b":{"c":2}}` {
		t.Errorf("restored entity = %+v", restored[0])
	}
	original, _ := src.GetEntity(context.Background(), 1)
	if !restored[0].CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("CreatedAt not preserved: %v != %v", restored[0].CreatedAt, original.CreatedAt)
	}
}

func TestImportJSONL_BadLine(t *testing.T) {
	s := newMemStore()
	_, err := ImportJSONL(context.Background(), s, strings.NewReader("{not json\n"))
	if err == nil {
		t.Fatal("expected error for malformed snapshot line")
	}
}

func TestFileDestination_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.jsonl")
	d := &FileDestination{Path: path}

	if err := d.Write(context.Background(), []byte("hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("file contents = %q", data)
	}
}
