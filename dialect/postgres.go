package dialect

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

const pqUndefinedTable pq.ErrorCode = "42P01"

// Postgres doubles quotes and pushes LIMIT/OFFSET to the server.
type Postgres struct{}

func (Postgres) Name() Name                         { return PostgresName }
func (Postgres) Primary() bool                      { return false }
func (Postgres) DriverName() string                 { return "postgres" }
func (Postgres) Escape(s string) string             { return DoubleQuotes(s) }
func (Postgres) QuotePrefix() string                { return "" }
func (Postgres) PrepareFlag(serialized bool) string { return prepareFlag(serialized) }
func (Postgres) ClientPagination() bool             { return false }

func (Postgres) UndefinedRelation() Predicate {
	return func(err error) bool {
		var pqErr *pq.Error
		return errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable
	}
}

func (Postgres) ErrorInfo(err error) (string, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Message
	}
	return genericErrorInfo(err)
}

func (Postgres) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// LastInsertIDQuery fails when no sequence was touched in the session; the
// client treats that as id 0.
func (Postgres) LastInsertIDQuery() string    { return "SELECT lastval()" }
func (Postgres) CurrentDatabaseQuery() string { return "SELECT current_database()" }
func (Postgres) VersionQuery() string         { return "" }
