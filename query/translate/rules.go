package translate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/satishbabariya/sqlshim/dialect"
	"github.com/satishbabariya/sqlshim/query/normalize"
)

// MySQLDateTime is the layout MySQL renders DATETIME values in.
const MySQLDateTime = "2006-01-02 15:04:05"

var (
	selectPattern     = regexp.MustCompile(`(?is)^\s*SELECT\s`)
	limitPattern      = regexp.MustCompile(`(?is)\s+LIMIT\s+([0-9]+)(?:\s*,\s*([0-9]+)|\s+OFFSET\s+([0-9]+))?\s*;?\s*$`)
	nowPattern        = regexp.MustCompile(`(?i)\bNOW\(\s*\)`)
	calcRowsPattern   = regexp.MustCompile(`(?i)\bSQL_CALC_FOUND_ROWS\s+`)
	showTablesPattern = regexp.MustCompile("(?is)^\\s*SHOW\\s+TABLES(?:\\s+LIKE\\s+(N?\x00[0-9]+\x00))?\\s*;?\\s*$")
	insertColsPattern = regexp.MustCompile(`(?is)^\s*INSERT\s+(?:IGNORE\s+)?INTO\s+([^\s(]+)\s*\(([^)]*)\)`)
)

// Rules is the built-in rule-based Translator. It handles the rewrites every
// WordPress-style workload hits first: placeholder flags, multi-row inserts,
// identifier quoting, LIMIT, NOW(), SHOW TABLES and identity inserts.
type Rules struct {
	dialect  dialect.Dialect
	identity map[string]string
	split    bool
}

// Option configures Rules.
type Option func(*Rules)

// WithIdentity registers table's identity column. Inserts naming it are
// wrapped in SET IDENTITY_INSERT on SQL Server.
func WithIdentity(table, column string) Option {
	return func(r *Rules) {
		r.identity[strings.ToLower(table)] = strings.ToLower(column)
	}
}

// WithoutInsertSplit keeps multi-row inserts as one statement.
func WithoutInsertSplit() Option {
	return func(r *Rules) { r.split = false }
}

// New creates a rule-based translator for d.
func New(d dialect.Dialect, opts ...Option) *Rules {
	r := &Rules{
		dialect:  d,
		identity: make(map[string]string),
		split:    true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Translate implements Translator.
func (r *Rules) Translate(sql string) (Plan, error) {
	var plan Plan
	sql, plan.Serialized = stripFlag(sql)
	if strings.TrimSpace(sql) == "" {
		return Plan{}, ErrEmptyTranslation
	}

	backslash := r.backslashEscapes()
	members := []string{sql}
	if r.split {
		if rows, ok := splitInsert(sql, backslash); ok {
			members = rows
		}
	}

	for _, member := range members {
		m := mask(member, r.dialect.QuoteIdentifier, backslash)
		text := m.text

		text = r.rewriteShowTables(text)
		text = r.rewriteNow(text)
		if selectPattern.MatchString(text) {
			text = calcRowsPattern.ReplaceAllString(text, "")
			var window *normalize.Window
			text, window = r.rewriteLimit(text)
			if window != nil {
				plan.Window = window
			}
		}

		pre, post := r.identityInsert(text)
		if pre != "" {
			plan.Statements = append(plan.Statements, Statement{SQL: pre, Role: Preceding})
		}
		plan.Statements = append(plan.Statements, Statement{SQL: m.unmask(text), Role: Primary})
		if post != "" {
			plan.Statements = append(plan.Statements, Statement{SQL: post, Role: Following})
		}
	}

	plan.Statements = hoist(plan.Statements)
	if plan.Empty() {
		return Plan{}, ErrEmptyTranslation
	}
	return plan, nil
}

// backslashEscapes reports whether the target reads backslashes inside
// literals as escapes. Every other dialect only doubles quotes.
func (r *Rules) backslashEscapes() bool {
	return r.dialect.Name() == dialect.MySQLName
}

// FixResults renders time values the way MySQL returns DATETIME columns.
func (r *Rules) FixResults(rows []normalize.Row) []normalize.Row {
	for _, row := range rows {
		for k, v := range row {
			if t, ok := v.(time.Time); ok {
				row[k] = t.Format(MySQLDateTime)
			}
		}
	}
	return rows
}

func stripFlag(sql string) (string, bool) {
	trimmed := strings.TrimRight(sql, " \t\r\n")
	for _, flag := range []string{dialect.FlagSerialized, dialect.FlagPrepare} {
		if strings.HasSuffix(trimmed, flag) {
			return strings.TrimSuffix(trimmed, flag), flag == dialect.FlagSerialized
		}
	}
	return sql, false
}

func (r *Rules) rewriteLimit(text string) (string, *normalize.Window) {
	match := limitPattern.FindStringSubmatchIndex(text)
	if match == nil {
		return text, nil
	}
	group := func(n int) string {
		if match[2*n] < 0 {
			return ""
		}
		return text[match[2*n]:match[2*n+1]]
	}

	count, _ := strconv.Atoi(group(1))
	offset := 0
	if g := group(2); g != "" {
		// LIMIT offset, count
		offset = count
		count, _ = strconv.Atoi(g)
	} else if g := group(3); g != "" {
		offset, _ = strconv.Atoi(g)
	}

	head := text[:match[0]]
	if r.dialect.ClientPagination() {
		return head, &normalize.Window{Offset: offset, Count: count}
	}
	if offset == 0 {
		return head + " LIMIT " + strconv.Itoa(count), nil
	}
	return head + " LIMIT " + strconv.Itoa(count) + " OFFSET " + strconv.Itoa(offset), nil
}

func (r *Rules) rewriteNow(text string) string {
	switch r.dialect.Name() {
	case dialect.SQLServerName:
		return nowPattern.ReplaceAllString(text, "GETDATE()")
	case dialect.PostgresName, dialect.SQLiteName:
		return nowPattern.ReplaceAllString(text, "CURRENT_TIMESTAMP")
	default:
		return text
	}
}

func (r *Rules) rewriteShowTables(text string) string {
	match := showTablesPattern.FindStringSubmatch(text)
	if match == nil {
		return text
	}

	var query, column string
	switch r.dialect.Name() {
	case dialect.SQLServerName:
		query, column = "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE'", "TABLE_NAME"
	case dialect.PostgresName:
		query, column = "SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = current_schema()", "tablename"
	case dialect.SQLiteName:
		query, column = "SELECT name FROM sqlite_master WHERE type = 'table'", "name"
	default:
		return text
	}
	if match[1] != "" {
		query += " AND " + column + " LIKE " + match[1]
	}
	return query
}

func (r *Rules) identityInsert(text string) (pre, post string) {
	if r.dialect.Name() != dialect.SQLServerName || len(r.identity) == 0 {
		return "", ""
	}
	match := insertColsPattern.FindStringSubmatch(text)
	if match == nil {
		return "", ""
	}
	table := unquoteIdent(match[1])
	column, ok := r.identity[strings.ToLower(table)]
	if !ok {
		return "", ""
	}
	for _, col := range strings.Split(match[2], ",") {
		if strings.ToLower(unquoteIdent(col)) == column {
			quoted := r.dialect.QuoteIdentifier(table)
			return "SET IDENTITY_INSERT " + quoted + " ON", "SET IDENTITY_INSERT " + quoted + " OFF"
		}
	}
	return "", ""
}

func unquoteIdent(s string) string {
	return strings.Trim(strings.TrimSpace(s), "[]`\"")
}

// hoist orders statements preceding, primary, following while keeping the
// relative order inside each role and dropping duplicate setup/teardown.
func hoist(stmts []Statement) []Statement {
	out := make([]Statement, 0, len(stmts))
	seen := make(map[Statement]bool)
	for _, role := range []Role{Preceding, Primary, Following} {
		for _, s := range stmts {
			if s.Role != role {
				continue
			}
			if role != Primary {
				if seen[s] {
					continue
				}
				seen[s] = true
			}
			out = append(out, s)
		}
	}
	return out
}
