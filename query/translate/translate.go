// Package translate rewrites MySQL-flavoured statements for other dialects.
//
// A translation produces a Plan: an ordered list of statements, each marked
// as preceding, primary or following, plus an optional client-side
// pagination window. Plans are plain values so nothing carries over from one
// query to the next.
package translate

import (
	"errors"

	"github.com/satishbabariya/sqlshim/query/normalize"
)

// ErrEmptyTranslation is returned when a statement translates to nothing.
var ErrEmptyTranslation = errors.New("translate: statement translated to an empty query")

// Role marks where a statement runs relative to the primary statements.
type Role int

const (
	Preceding Role = iota
	Primary
	Following
)

func (r Role) String() string {
	switch r {
	case Preceding:
		return "preceding"
	case Primary:
		return "primary"
	case Following:
		return "following"
	default:
		return "unknown"
	}
}

// Statement is one member of a Plan.
type Statement struct {
	SQL  string
	Role Role
}

// Plan is the result of translating one statement.
type Plan struct {
	Statements []Statement
	// Window is set when LIMIT/OFFSET must be applied to fetched rows.
	Window *normalize.Window
	// Serialized is true when the statement carried serialized payloads.
	Serialized bool
}

// Single returns a plan running sql as its only primary statement.
func Single(sql string) Plan {
	return Plan{Statements: []Statement{{SQL: sql, Role: Primary}}}
}

// Preceding returns the setup statements in order.
func (p Plan) Preceding() []string { return p.byRole(Preceding) }

// Main returns the primary statements in order.
func (p Plan) Main() []string { return p.byRole(Primary) }

// Following returns the teardown statements in order.
func (p Plan) Following() []string { return p.byRole(Following) }

// Empty reports whether the plan has no primary statement.
func (p Plan) Empty() bool {
	for _, s := range p.Statements {
		if s.Role == Primary && s.SQL != "" {
			return false
		}
	}
	return true
}

func (p Plan) byRole(role Role) []string {
	var out []string
	for _, s := range p.Statements {
		if s.Role == role && s.SQL != "" {
			out = append(out, s.SQL)
		}
	}
	return out
}

// Translator rewrites a primary-dialect statement into a Plan.
type Translator interface {
	Translate(sql string) (Plan, error)
}

// ResultFixer is implemented by translators that adjust fetched rows.
type ResultFixer interface {
	FixResults(rows []normalize.Row) []normalize.Row
}

// Func adapts a function to Translator.
type Func func(sql string) (Plan, error)

func (f Func) Translate(sql string) (Plan, error) { return f(sql) }
