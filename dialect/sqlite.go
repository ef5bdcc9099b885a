package dialect

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// SQLite doubles quotes; the driver reports insert ids itself.
type SQLite struct{}

func (SQLite) Name() Name                         { return SQLiteName }
func (SQLite) Primary() bool                      { return false }
func (SQLite) DriverName() string                 { return "sqlite3" }
func (SQLite) Escape(s string) string             { return DoubleQuotes(s) }
func (SQLite) QuotePrefix() string                { return "" }
func (SQLite) PrepareFlag(serialized bool) string { return prepareFlag(serialized) }
func (SQLite) ClientPagination() bool             { return false }

func (SQLite) UndefinedRelation() Predicate {
	return func(err error) bool {
		var liteErr sqlite3.Error
		return errors.As(err, &liteErr) &&
			liteErr.Code == sqlite3.ErrError &&
			strings.Contains(liteErr.Error(), "no such table")
	}
}

func (SQLite) ErrorInfo(err error) (string, string) {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return strconv.Itoa(int(liteErr.Code)), liteErr.Error()
	}
	return genericErrorInfo(err)
}

func (SQLite) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (SQLite) LastInsertIDQuery() string    { return "" }
func (SQLite) CurrentDatabaseQuery() string { return "" }
func (SQLite) VersionQuery() string         { return "" }
