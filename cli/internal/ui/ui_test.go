package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satishbabariya/sqlshim/query/normalize"
	"github.com/satishbabariya/sqlshim/query/translate"
)

func TestFormatCell(t *testing.T) {
	assert.Equal(t, NullText, FormatCell(nil))
	assert.Equal(t, "42", FormatCell(int64(42)))
	assert.Equal(t, "raw", FormatCell([]byte("raw")))
	assert.Equal(t, "[1 2]", FormatCell([]int{1, 2}))
}

func TestResultTable(t *testing.T) {
	cols := []normalize.Column{{Name: "id"}, {Name: "title"}}
	rows := []normalize.Row{
		{"title": "Hello", "id": int64(1)},
		{"id": int64(2), "title": nil},
	}

	headers, data := ResultTable(cols, rows)
	assert.Equal(t, []string{"id", "title"}, headers)
	assert.Equal(t, [][]string{{"1", "Hello"}, {"2", NullText}}, data)
}

func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	t.Cleanup(func() { Out = prev })
	return &buf
}

func TestPrintResults(t *testing.T) {
	buf := captureOut(t)
	PrintResults([]normalize.Column{{Name: "option_name"}}, []normalize.Row{{"option_name": "siteurl"}})

	assert.Contains(t, buf.String(), "option_name")
	assert.Contains(t, buf.String(), "siteurl")
	assert.Contains(t, buf.String(), "1 row(s)")
}

func TestPrintPlan(t *testing.T) {
	buf := captureOut(t)
	PrintPlan(translate.Plan{
		Statements: []translate.Statement{
			{SQL: "SET IDENTITY_INSERT [t] ON", Role: translate.Preceding},
			{SQL: "INSERT INTO [t] ([id]) VALUES (1)", Role: translate.Primary},
		},
		Window: &normalize.Window{Offset: 1, Count: 2},
	})

	out := buf.String()
	assert.Contains(t, out, "preceding")
	assert.Contains(t, out, "INSERT INTO [t] ([id]) VALUES (1)")
	assert.Contains(t, out, "window: offset 1, count 2")
}
