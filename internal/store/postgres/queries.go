package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/groblegark/entityd/internal/model"
	"github.com/groblegark/entityd/internal/query"
)

// entityColumns is the column list used for SELECT statements on the entities table.
const entityColumns = `id, created_at, created_by, data`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateEntity(ctx context.Context, db executor, e *model.Entity) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO entities (created_at, created_by, data)
		VALUES ($1, $2, $3)
		RETURNING id`,
		e.CreatedAt,
		e.CreatedBy,
		[]byte(e.Data),
	).Scan(&e.ID)
}

func queryGetEntity(ctx context.Context, db executor, id int64) (*model.Entity, error) {
	row := db.QueryRowContext(ctx, `SELECT `+entityColumns+` FROM entities WHERE id = $1`, id)
	return scanEntity(row)
}

func queryListEntities(ctx context.Context, db executor, filter query.Filter) ([]*model.Entity, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	for _, pred := range filter.Predicates {
		clause, predArgs := renderPredicate(pred, nextArg)
		whereClauses = append(whereClauses, clause)
		args = append(args, predArgs...)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// ORDER BY id keeps pages stable; ids are assigned in insertion order.
	dataQuery := "SELECT " + entityColumns + " FROM entities" + whereSQL + " ORDER BY id"

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Skip > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Skip)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var entities []*model.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entities: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan entities: %w", err)
	}

	return entities, nil
}

// renderPredicate translates one query predicate into a SQL fragment over the
// JSONB data column. Every path segment and value is passed as a bound
// parameter; only operators appear in the SQL text.
func renderPredicate(pred query.Predicate, nextArg func() string) (string, []any) {
	switch p := pred.(type) {
	case query.PathEquals:
		var (
			expr strings.Builder
			args []any
		)
		expr.WriteString("data")
		for _, seg := range p.Path[:len(p.Path)-1] {
			expr.WriteString("->" + nextArg())
			args = append(args, seg)
		}
		expr.WriteString("->>" + nextArg())
		args = append(args, p.Path[len(p.Path)-1])
		expr.WriteString(" = " + nextArg())
		args = append(args, p.Value)
		return expr.String(), args

	case query.Contains:
		return "data @> " + nextArg() + "::jsonb", []any{string(p.Object)}

	case query.KeyExists:
		if len(p.Path) == 2 {
			outer, inner := nextArg(), nextArg()
			return "data->" + outer + " ? " + inner, []any{p.Path[0], p.Path[1]}
		}
		return "data ? " + nextArg(), []any{p.Path[0]}

	default:
		// Unreachable: query.Build only emits the variants above.
		panic(fmt.Sprintf("unknown predicate type %T", pred))
	}
}

func queryUpdateEntity(ctx context.Context, db executor, e *model.Entity) error {
	row := db.QueryRowContext(ctx, `
		UPDATE entities SET
			created_by = $2,
			data = $3
		WHERE id = $1
		RETURNING created_at`,
		e.ID,
		e.CreatedBy,
		[]byte(e.Data),
	)
	// created_at is immutable; read it back so the response carries it.
	return row.Scan(&e.CreatedAt)
}

func queryDeleteEntity(ctx context.Context, db executor, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
