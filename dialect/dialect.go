// Package dialect describes the backend engines sqlshim can talk to.
//
// A Dialect bundles every backend-specific decision the pipeline makes:
// literal escaping, the wide-string prefix, whether LIMIT/OFFSET is emulated
// client-side, how driver errors are decoded and which of them count as a
// missing relation. A client picks its Dialect once at construction.
package dialect

import (
	"fmt"
	"strings"
)

// Name identifies a backend dialect.
type Name string

const (
	// MySQLName is the primary dialect; statements are already written for it.
	MySQLName Name = "mysql"
	// SQLServerName is Microsoft SQL Server / Azure SQL.
	SQLServerName Name = "sqlsrv"
	// PostgresName is PostgreSQL.
	PostgresName Name = "pgsql"
	// SQLiteName is SQLite 3.
	SQLiteName Name = "sqlite"
)

// Predicate reports whether a backend error should be tolerated.
type Predicate func(err error) bool

// Dialect is the capability set selected once per client.
type Dialect interface {
	Name() Name
	// Primary reports whether statements are already in this dialect.
	Primary() bool
	DriverName() string

	// Escape maps a raw string to a literal body without surrounding quotes.
	Escape(s string) string
	// QuotePrefix is written in front of string literals ("N" for wide strings).
	QuotePrefix() string
	// PrepareFlag is the suffix appended to prepared statements.
	PrepareFlag(serialized bool) string
	// ClientPagination reports whether LIMIT/OFFSET is applied to fetched rows.
	ClientPagination() bool

	// UndefinedRelation is the default "table not found" tolerance predicate.
	// A nil predicate means no error is tolerated.
	UndefinedRelation() Predicate
	// ErrorInfo decodes a driver error into a code and message.
	ErrorInfo(err error) (code, message string)

	QuoteIdentifier(name string) string
	LastInsertIDQuery() string
	CurrentDatabaseQuery() string
	VersionQuery() string
}

// ByName returns the dialect registered under name.
func ByName(name string) (Dialect, error) {
	switch Name(strings.ToLower(strings.TrimSpace(name))) {
	case MySQLName, "":
		return NewMySQL(), nil
	case SQLServerName, "sqlserver", "mssql":
		return SQLServer{}, nil
	case PostgresName, "postgres", "postgresql":
		return Postgres{}, nil
	case SQLiteName, "sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", name)
	}
}

// Passthrough is used for backends sqlshim knows nothing about. It does not
// escape anything: callers must not feed it untrusted input.
type Passthrough struct {
	Driver string
}

func (p Passthrough) Name() Name                         { return Name(p.Driver) }
func (p Passthrough) Primary() bool                      { return false }
func (p Passthrough) DriverName() string                 { return p.Driver }
func (p Passthrough) Escape(s string) string             { return s }
func (p Passthrough) QuotePrefix() string                { return "" }
func (p Passthrough) PrepareFlag(serialized bool) string { return prepareFlag(serialized) }
func (p Passthrough) ClientPagination() bool             { return true }
func (p Passthrough) UndefinedRelation() Predicate       { return nil }
func (p Passthrough) ErrorInfo(err error) (string, string) {
	return genericErrorInfo(err)
}
func (p Passthrough) QuoteIdentifier(name string) string { return name }
func (p Passthrough) LastInsertIDQuery() string          { return "" }
func (p Passthrough) CurrentDatabaseQuery() string       { return "" }
func (p Passthrough) VersionQuery() string               { return "" }

// Suffixes PrepareFlag appends for non-primary dialects.
const (
	FlagPrepare    = "--PREPARE"
	FlagSerialized = "--SERIALIZED"
)

func prepareFlag(serialized bool) string {
	if serialized {
		return FlagSerialized
	}
	return FlagPrepare
}

func genericErrorInfo(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	return "HY000", err.Error()
}
