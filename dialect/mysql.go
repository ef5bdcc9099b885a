package dialect

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// erNoSuchTable is ER_NO_SUCH_TABLE.
const erNoSuchTable = 1146

// MySQL is the primary dialect. Escaping is connection-aware once the client
// binds the session sql_mode; before that it falls back to AddSlashes.
type MySQL struct {
	// RealEscape enables connection-aware escaping after BindSQLMode.
	RealEscape bool

	bound       bool
	noBackslash bool
}

// NewMySQL returns a MySQL dialect with real escaping enabled.
func NewMySQL() *MySQL {
	return &MySQL{RealEscape: true}
}

// BindSQLMode records the live session's sql_mode.
func (d *MySQL) BindSQLMode(mode string) {
	d.bound = true
	d.noBackslash = false
	for _, m := range strings.Split(mode, ",") {
		if strings.EqualFold(strings.TrimSpace(m), "NO_BACKSLASH_ESCAPES") {
			d.noBackslash = true
		}
	}
}

// Unbind drops the session binding, e.g. after the connection is closed.
func (d *MySQL) Unbind() {
	d.bound = false
	d.noBackslash = false
}

func (d *MySQL) Name() Name         { return MySQLName }
func (d *MySQL) Primary() bool      { return true }
func (d *MySQL) DriverName() string { return "mysql" }

func (d *MySQL) Escape(s string) string {
	if d.RealEscape && d.bound {
		if d.noBackslash {
			return DoubleQuotes(s)
		}
		return RealEscape(s)
	}
	return AddSlashes(s)
}

func (d *MySQL) QuotePrefix() string { return "" }

// PrepareFlag is empty: MySQL statements are never translated, so nothing
// downstream would consume the flag.
func (d *MySQL) PrepareFlag(bool) string { return "" }

func (d *MySQL) ClientPagination() bool { return false }

// UndefinedRelation is nil on the primary dialect: missing tables surface as
// reported errors. Use MySQLUndefinedTable to opt in.
func (d *MySQL) UndefinedRelation() Predicate { return nil }

func (d *MySQL) ErrorInfo(err error) (string, string) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		code := string(myErr.SQLState[:])
		if strings.Trim(code, "\x00") == "" {
			code = strconv.Itoa(int(myErr.Number))
		}
		return code, myErr.Message
	}
	return genericErrorInfo(err)
}

func (d *MySQL) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *MySQL) LastInsertIDQuery() string    { return "" }
func (d *MySQL) CurrentDatabaseQuery() string { return "SELECT DATABASE()" }
func (d *MySQL) VersionQuery() string         { return "SELECT VERSION()" }

// MySQLUndefinedTable matches ER_NO_SUCH_TABLE.
func MySQLUndefinedTable(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == erNoSuchTable
}
