package translate

import (
	"regexp"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver" // value expressions for the parser
)

var (
	multiRowInsert = regexp.MustCompile(`(?is)^\s*(INSERT|REPLACE)\s.*\bVALUES?\s*\(.*\)\s*,\s*\(`)
	valuesKeyword  = regexp.MustCompile(`(?i)\bVALUES?\s*\(`)
)

func keepBackticks(name string) string { return "`" + name + "`" }

// splitInsert breaks a multi-row INSERT/REPLACE into one statement per row.
// The parser only confirms the statement shape and row count; each member is
// cut from the original text so literals come back byte for byte.
func splitInsert(sql string, backslashEscapes bool) ([]string, bool) {
	if !multiRowInsert.MatchString(sql) {
		return nil, false
	}

	m := mask(sql, keepBackticks, backslashEscapes)
	rows, ok := insertRows(markerPattern.ReplaceAllString(m.text, "''"))
	if !ok || rows < 2 {
		return nil, false
	}

	head, groups, tail, ok := valueGroups(m.text)
	if !ok || len(groups) != rows {
		return nil, false
	}

	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, m.unmask(head+g+tail))
	}
	return out, true
}

// insertRows parses a literal-free rendition of the statement and returns
// the number of VALUES rows.
func insertRows(shape string) (int, bool) {
	stmt, err := parser.New().ParseOneStmt(shape, "", "")
	if err != nil {
		return 0, false
	}
	ins, ok := stmt.(*ast.InsertStmt)
	if !ok || ins.Select != nil {
		return 0, false
	}
	return len(ins.Lists), true
}

// valueGroups cuts masked text into the part before the first row, each
// parenthesized row, and whatever follows the last row.
func valueGroups(text string) (head string, groups []string, tail string, ok bool) {
	loc := valuesKeyword.FindStringIndex(text)
	if loc == nil {
		return "", nil, "", false
	}
	i := loc[1] - 1
	head = text[:i]
	for {
		end := closingParen(text, i)
		if end < 0 {
			return "", nil, "", false
		}
		groups = append(groups, text[i:end+1])
		next := skipSpace(text, end+1)
		if next >= len(text) || text[next] != ',' {
			return head, groups, text[end+1:], true
		}
		i = skipSpace(text, next+1)
		if i >= len(text) || text[i] != '(' {
			return "", nil, "", false
		}
	}
}

// closingParen returns the index of the parenthesis matching the one at
// open, or -1. Literals are already masked.
func closingParen(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}
