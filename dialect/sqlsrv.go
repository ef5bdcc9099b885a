package dialect

import (
	"errors"
	"strconv"
	"strings"

	mssql "github.com/denisenkom/go-mssqldb"
)

// errInvalidObjectName is SQL Server error 208, "Invalid object name".
const errInvalidObjectName = 208

// SQLServer doubles quotes, writes N'' literals and emulates LIMIT client-side.
type SQLServer struct{}

func (SQLServer) Name() Name                         { return SQLServerName }
func (SQLServer) Primary() bool                      { return false }
func (SQLServer) DriverName() string                 { return "sqlserver" }
func (SQLServer) Escape(s string) string             { return DoubleQuotes(s) }
func (SQLServer) QuotePrefix() string                { return "N" }
func (SQLServer) PrepareFlag(serialized bool) string { return prepareFlag(serialized) }
func (SQLServer) ClientPagination() bool             { return true }

func (SQLServer) UndefinedRelation() Predicate {
	return func(err error) bool {
		var msErr mssql.Error
		return errors.As(err, &msErr) && msErr.SQLErrorNumber() == errInvalidObjectName
	}
}

func (SQLServer) ErrorInfo(err error) (string, string) {
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		if msErr.SQLErrorNumber() == errInvalidObjectName {
			return "42S02", msErr.Message
		}
		return strconv.Itoa(int(msErr.SQLErrorNumber())), msErr.Message
	}
	return genericErrorInfo(err)
}

func (SQLServer) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// LastInsertIDQuery reads the session-wide identity; SCOPE_IDENTITY() would be
// out of scope in a separate batch.
func (SQLServer) LastInsertIDQuery() string    { return "SELECT @@IDENTITY" }
func (SQLServer) CurrentDatabaseQuery() string { return "SELECT DB_NAME()" }
func (SQLServer) VersionQuery() string         { return "" }
