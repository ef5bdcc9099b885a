package client

import (
	"context"
	"errors"

	"github.com/satishbabariya/sqlshim/backend"
)

type fakeResult struct {
	id, n int64
}

func (r fakeResult) LastInsertId() (int64, error) { return r.id, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.n, nil }

type fakeTable struct {
	cols []backend.Column
	data [][]any
}

// fakeConn records every statement it receives.
type fakeConn struct {
	executed []string
	results  map[string]fakeResult
	tables   map[string]fakeTable
	errs     map[string]error
	closed   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		results: map[string]fakeResult{},
		tables:  map[string]fakeTable{},
		errs:    map[string]error{},
	}
}

func (c *fakeConn) Exec(_ context.Context, query string, _ ...any) (backend.Result, error) {
	c.executed = append(c.executed, query)
	if err := c.errs[query]; err != nil {
		return nil, err
	}
	if res, ok := c.results[query]; ok {
		return res, nil
	}
	return fakeResult{n: 1}, nil
}

func (c *fakeConn) Query(_ context.Context, query string, _ ...any) (backend.Rows, error) {
	c.executed = append(c.executed, query)
	if err := c.errs[query]; err != nil {
		return nil, err
	}
	t, ok := c.tables[query]
	if !ok {
		return nil, errors.New("unexpected query: " + query)
	}
	return &fakeRows{table: t}, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeRows struct {
	table fakeTable
	pos   int
}

func (r *fakeRows) Columns() ([]backend.Column, error) { return r.table.cols, nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.table.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	for i, v := range r.table.data[r.pos-1] {
		*dest[i].(*any) = v
	}
	return nil
}

func (r *fakeRows) Err() error   { return nil }
func (r *fakeRows) Close() error { return nil }

// numbers is a one-column table holding 1..n.
func numbers(n int) fakeTable {
	t := fakeTable{cols: []backend.Column{{Name: "n", DatabaseType: "INT"}}}
	for i := 1; i <= n; i++ {
		t.data = append(t.data, []any{int64(i)})
	}
	return t
}
