package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLConn adapts database/sql to Conn. It pins a single *sql.Conn for its
// whole lifetime so session state (SET statements, identity values) is seen
// by every statement.
type SQLConn struct {
	db   *sql.DB
	conn *sql.Conn
}

// FromSQL pins a session on db. The returned SQLConn owns db and closes it.
func FromSQL(ctx context.Context, db *sql.DB) (*SQLConn, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &SQLConn{db: db, conn: conn}, nil
}

// Exec runs a statement that returns no rows.
func (c *SQLConn) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	return c.conn.ExecContext(ctx, query, args...)
}

// Query runs a row-returning statement.
func (c *SQLConn) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

// Close releases the session and the pool behind it.
func (c *SQLConn) Close() error {
	return errors.Join(c.conn.Close(), c.db.Close())
}

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Columns() ([]Column, error) {
	types, err := r.rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	cols := make([]Column, len(types))
	for i, ct := range types {
		col := Column{
			Name:         ct.Name(),
			DatabaseType: ct.DatabaseTypeName(),
		}
		if length, ok := ct.Length(); ok {
			col.Length = length
			col.HasLength = true
		}
		if precision, _, ok := ct.DecimalSize(); ok {
			col.Precision = precision
		}
		if nullable, ok := ct.Nullable(); ok {
			col.Nullable = nullable
		}
		cols[i] = col
	}
	return cols, nil
}

func (r *sqlRows) Next() bool             { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *sqlRows) Err() error             { return r.rows.Err() }
func (r *sqlRows) Close() error           { return r.rows.Close() }
