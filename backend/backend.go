// Package backend is the narrow client interface the pipeline drives.
//
// It must remain satisfiable by database/sql, by test doubles and by any
// engine that can run a statement and hand back rows. Statements arrive with
// their literals already substituted, so args are normally empty.
package backend

import "context"

// Conn runs statements against one backend session.
type Conn interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Close() error
}

// Result summarizes an executed statement. sql.Result satisfies it.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

// Rows iterates over a row-returning statement.
type Rows interface {
	Columns() ([]Column, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Column is the metadata a backend reports for a result column.
type Column struct {
	Name         string
	DatabaseType string
	// Length is the declared length; HasLength is false when unknown.
	Length    int64
	HasLength bool
	// Precision is the decimal precision; zero when unknown.
	Precision int64
	Nullable  bool
}
