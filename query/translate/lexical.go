package translate

import (
	"regexp"
	"strconv"
	"strings"
)

// masked is a statement whose string literals were swapped for \x00N\x00
// markers so rewrite rules cannot match inside them.
type masked struct {
	text     string
	literals []string
}

var markerPattern = regexp.MustCompile("\x00([0-9]+)\x00")

// mask replaces string literals with markers and converts backtick
// identifiers with quoteIdent. Literals keep their quotes. Backslashes only
// escape inside literals when backslashEscapes is set; otherwise quotes are
// doubled and a backslash is an ordinary character.
func mask(sql string, quoteIdent func(string) string, backslashEscapes bool) masked {
	var (
		out      strings.Builder
		literals []string
	)
	for i := 0; i < len(sql); {
		c := sql[i]
		switch c {
		case '\'', '"':
			end := literalEnd(sql, i, backslashEscapes)
			lit := sql[i:end]
			if c == '"' && len(lit) >= 2 {
				// Double-quoted strings become standard literals.
				inner := lit[1 : len(lit)-1]
				if backslashEscapes {
					inner = strings.ReplaceAll(inner, `\"`, `"`)
				} else {
					inner = strings.ReplaceAll(inner, `""`, `"`)
				}
				lit = "'" + strings.ReplaceAll(inner, "'", "''") + "'"
			}
			out.WriteString("\x00" + strconv.Itoa(len(literals)) + "\x00")
			literals = append(literals, lit)
			i = end
		case '`':
			end := strings.IndexByte(sql[i+1:], '`')
			if end < 0 {
				out.WriteString(sql[i:])
				i = len(sql)
				continue
			}
			out.WriteString(quoteIdent(sql[i+1 : i+1+end]))
			i += end + 2
		default:
			out.WriteByte(c)
			i++
		}
	}
	return masked{text: out.String(), literals: literals}
}

// literalEnd returns the index just past the literal opening at start.
// Doubled quotes, and backslash escapes when enabled, stay inside the literal.
func literalEnd(sql string, start int, backslashEscapes bool) int {
	q := sql[start]
	for i := start + 1; i < len(sql); i++ {
		switch sql[i] {
		case '\\':
			if backslashEscapes {
				i++
			}
		case q:
			if i+1 < len(sql) && sql[i+1] == q {
				i++
				continue
			}
			return i + 1
		}
	}
	return len(sql)
}

func (m masked) unmask(text string) string {
	return markerPattern.ReplaceAllStringFunc(text, func(marker string) string {
		n, err := strconv.Atoi(marker[1 : len(marker)-1])
		if err != nil || n >= len(m.literals) {
			return marker
		}
		return m.literals[n]
	})
}
