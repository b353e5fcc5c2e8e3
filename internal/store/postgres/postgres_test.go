package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/groblegark/entityd/internal/model"
	"github.com/groblegark/entityd/internal/query"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// entityRowColumns is the column list for scanEntity results.
var entityRowColumns = []string{"id", "created_at", "created_by", "data"}

func TestRenderPredicate(t *testing.T) {
	for _, tc := range []struct {
		name     string
		pred     query.Predicate
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "path equals single key",
			pred:     query.PathEquals{Path: []string{"name"}, Value: "x"},
			wantSQL:  "data->>$1 = $2",
			wantArgs: []any{"name", "x"},
		},
		{
			name:     "path equals nested",
			pred:     query.PathEquals{Path: []string{"a", "b", "c"}, Value: "2"},
			wantSQL:  "data->$1->$2->>$3 = $4",
			wantArgs: []any{"a", "b", "c", "2"},
		},
		{
			name:     "contains",
			pred:     query.Contains{Object: []byte(`{"a":1}`)},
			wantSQL:  "data @> $1::jsonb",
			wantArgs: []any{`{"a":1}`},
		},
		{
			name:     "key exists top level",
			pred:     query.KeyExists{Path: []string{"settings"}},
			wantSQL:  "data ? $1",
			wantArgs: []any{"settings"},
		},
		{
			name:     "key exists nested",
			pred:     query.KeyExists{Path: []string{"settings", "theme"}},
			wantSQL:  "data->$1 ? $2",
			wantArgs: []any{"settings", "theme"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			argIdx := 0
			nextArg := func() string {
				argIdx++
				return fmt.Sprintf("$%d", argIdx)
			}
			gotSQL, gotArgs := renderPredicate(tc.pred, nextArg)
			if gotSQL != tc.wantSQL {
				t.Errorf("sql = %q, want %q", gotSQL, tc.wantSQL)
			}
			if len(gotArgs) != len(tc.wantArgs) {
				t.Fatalf("got %d args, want %d", len(gotArgs), len(tc.wantArgs))
			}
			for i := range gotArgs {
				if gotArgs[i] != tc.wantArgs[i] {
					t.Errorf("arg %d = %v, want %v", i, gotArgs[i], tc.wantArgs[i])
				}
			}
		})
	}
}

func TestCreateEntity(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO entities \(created_at, created_by, data\)`).
		WithArgs(now, "alice", []byte(`{"a":1}`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	e := &model.Entity{CreatedAt: now, CreatedBy: "alice", Data: []byte(`{"a":1}`)}
	if err := queryCreateEntity(context.Background(), db, e); err != nil {
		t.Fatalf("queryCreateEntity: %v", err)
	}
	if e.ID != 7 {
		t.Errorf("ID = %d, want 7", e.ID)
	}
}

func TestGetEntity(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, created_at, created_by, data FROM entities WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(entityRowColumns).
			AddRow(int64(3), now, "bob", []byte(`{"b":{"c":2}}`)))

	e, err := queryGetEntity(context.Background(), db, 3)
	if err != nil {
		t.Fatalf("queryGetEntity: %v", err)
	}
	if e.ID != 3 || e.CreatedBy != "bob" {
		t.Errorf("got entity %+v", e)
	}
	if string(e.Data) != `{"b":{"c":2}}` {
		t.Errorf("Data = %s", e.Data)
	}
}

func TestGetEntity_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT id, created_at, created_by, data FROM entities WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(entityRowColumns))

	_, err := queryGetEntity(context.Background(), db, 99)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestListEntities_NoFilter(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, created_at, created_by, data FROM entities ORDER BY id LIMIT \$1`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows(entityRowColumns).
			AddRow(int64(1), now, "a", []byte(`{}`)).
			AddRow(int64(2), now, "b", []byte(`{}`)))

	entities, err := queryListEntities(context.Background(), db, query.Filter{Limit: 100})
	if err != nil {
		t.Fatalf("queryListEntities: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("got %d entities, want 2", len(entities))
	}
	if entities[0].ID != 1 || entities[1].ID != 2 {
		t.Errorf("ids = %d, %d", entities[0].ID, entities[1].ID)
	}
}

func TestListEntities_Pagination(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, created_at, created_by, data FROM entities ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(entityRowColumns).
			AddRow(int64(2), now, "b", []byte(`{}`)))

	entities, err := queryListEntities(context.Background(), db, query.Filter{Skip: 1, Limit: 1})
	if err != nil {
		t.Fatalf("queryListEntities: %v", err)
	}
	if len(entities) != 1 || entities[0].ID != 2 {
		t.Errorf("got %+v, want single entity with id 2", entities)
	}
}

func TestListEntities_PathEquals(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, created_at, created_by, data FROM entities WHERE data->\$1->>\$2 = \$3 ORDER BY id LIMIT \$4`).
		WithArgs("b", "c", "2", 100).
		WillReturnRows(sqlmock.NewRows(entityRowColumns).
			AddRow(int64(1), now, "a", []byte(`{"b":{"c":2}}`)))

	filter := query.Filter{
		Predicates: []query.Predicate{query.PathEquals{Path: []string{"b", "c"}, Value: "2"}},
		Limit:      100,
	}
	entities, err := queryListEntities(context.Background(), db, filter)
	if err != nil {
		t.Fatalf("queryListEntities: %v", err)
	}
	if len(entities) != 1 {
		t.Errorf("got %d entities, want 1", len(entities))
	}
}

func TestListEntities_CombinedPredicates(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT id, created_at, created_by, data FROM entities WHERE data @> \$1::jsonb AND data->\$2 \? \$3 ORDER BY id LIMIT \$4`).
		WithArgs(`{"a":1}`, "b", "c", 50).
		WillReturnRows(sqlmock.NewRows(entityRowColumns))

	filter := query.Filter{
		Predicates: []query.Predicate{
			query.Contains{Object: []byte(`{"a":1}`)},
			query.KeyExists{Path: []string{"b", "c"}},
		},
		Limit: 50,
	}
	entities, err := queryListEntities(context.Background(), db, filter)
	if err != nil {
		t.Fatalf("queryListEntities: %v", err)
	}
	if len(entities) != 0 {
		t.Errorf("got %d entities, want 0", len(entities))
	}
}

func TestUpdateEntity(t *testing.T) {
	db, mock := newMockDB(t)

	created := time.Now().UTC().Add(-time.Hour)
	mock.ExpectQuery(`UPDATE entities SET`).
		WithArgs(int64(5), "carol", []byte(`{"x":true}`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	e := &model.Entity{ID: 5, CreatedBy: "carol", Data: []byte(`{"x":true}`)}
	if err := queryUpdateEntity(context.Background(), db, e); err != nil {
		t.Fatalf("queryUpdateEntity: %v", err)
	}
	if !e.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", e.CreatedAt, created)
	}
}

func TestUpdateEntity_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`UPDATE entities SET`).
		WithArgs(int64(99), "carol", []byte(`{}`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

	e := &model.Entity{ID: 99, CreatedBy: "carol", Data: []byte(`{}`)}
	err := queryUpdateEntity(context.Background(), db, e)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestDeleteEntity(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`DELETE FROM entities WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryDeleteEntity(context.Background(), db, 4); err != nil {
		t.Fatalf("queryDeleteEntity: %v", err)
	}
}

func TestDeleteEntity_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`DELETE FROM entities WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := queryDeleteEntity(context.Background(), db, 99)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}
