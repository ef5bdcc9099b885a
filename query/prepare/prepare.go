// Package prepare turns sprintf-style statement templates into literal,
// safely quoted statements.
//
// Supported directives are %s (string), %d (integer) and %% (literal
// percent). Both placeholders are written unquoted; a template that already
// wraps %s in single or double quotes is unwrapped first so the literal is
// never quoted twice. Any other % is copied as is.
//
// When the template has more placeholders than arguments Prepare fails with
// ErrArgumentCount and returns no statement. Surplus arguments are ignored.
package prepare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlshim/dialect"
)

// ErrArgumentCount is returned when a template has more placeholders than
// arguments.
var ErrArgumentCount = errors.New("prepare: fewer arguments than placeholders")

// Preparer substitutes arguments using one dialect's escaping and quoting.
type Preparer struct {
	dialect dialect.Dialect
}

// New creates a Preparer for d.
func New(d dialect.Dialect) *Preparer {
	return &Preparer{dialect: d}
}

// Prepare renders template with args. An empty template yields "" and no error.
func (p *Preparer) Prepare(template string, args ...any) (string, error) {
	if template == "" {
		return "", nil
	}
	args = NormalizeArgs(args)

	tokens, err := tokenize(template)
	if err != nil {
		return "", fmt.Errorf("prepare: tokenize template: %w", err)
	}

	var (
		sb         strings.Builder
		next       int
		serialized bool
	)
	for _, arg := range args {
		if IsSerialized(arg) {
			serialized = true
		}
	}
	sb.Grow(len(template) + 16*len(args))

	for _, tok := range tokens {
		switch tok.kind {
		case tokText, tokPercent:
			sb.WriteString(tok.value)
			continue
		}

		if next >= len(args) {
			return "", fmt.Errorf("%w: template %q has more than %d", ErrArgumentCount, template, len(args))
		}
		arg := args[next]
		next++

		switch tok.kind {
		case tokString:
			sb.WriteString(p.dialect.QuotePrefix())
			sb.WriteByte('\'')
			sb.WriteString(p.dialect.Escape(toString(arg)))
			sb.WriteByte('\'')
		case tokInt:
			sb.WriteString(toInt(arg))
		}
	}

	sb.WriteString(p.dialect.PrepareFlag(serialized))
	return sb.String(), nil
}
