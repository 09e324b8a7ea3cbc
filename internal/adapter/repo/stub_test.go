package repo

import (
	"context"
	"errors"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"cineze/internal/infra"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// rowOf scans vals into dest positionally; a nil value leaves the
// destination untouched.
func rowOf(vals ...any) simpleRow {
	return simpleRow{scan: func(dest ...any) error {
		if len(dest) != len(vals) {
			return errors.New("scan arity mismatch")
		}
		for i, v := range vals {
			if v == nil {
				continue
			}
			reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
		}
		return nil
	}}
}

type execCall struct {
	query string
	args  []any
}

type stubExecutor struct {
	row     pgx.Row
	tag     pgconn.CommandTag
	execErr error
	execs   []execCall
	queries []execCall
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.execs = append(s.execs, execCall{query, args})
	return s.tag, s.execErr
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.queries = append(s.queries, execCall{query, args})
	if s.row == nil {
		return simpleRow{}
	}
	return s.row
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

var _ infra.SQLExecutor = (*stubExecutor)(nil)
