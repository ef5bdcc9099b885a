package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlshim/backend"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		stmt string
		want Kind
	}{
		{"INSERT INTO t VALUES (1)", KindInsert},
		{"  replace into t values (1)", KindInsert},
		{"\n\tUPDATE t SET a = 1", KindMutation},
		{"delete from t", KindMutation},
		{"SET NAMES utf8", KindStructure},
		{"CREATE TABLE t (id int)", KindStructure},
		{"alter table t add c int", KindStructure},
		{"SELECT * FROM t", KindRows},
		{"SHOW TABLES", KindRows},
		{"INSERTED", KindRows},
		{"settings", KindRows},
	}
	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.stmt))
		})
	}
	assert.True(t, KindInsert.AffectsRows())
	assert.False(t, KindStructure.AffectsRows())
}

func TestTypeBucket(t *testing.T) {
	tests := map[string]string{
		"LONGTEXT":         TypeText,
		"ntext":            TypeText,
		"BLOB":             TypeText,
		"bytea":            TypeText,
		"VARCHAR":          TypeChar,
		"NVARCHAR":         TypeChar,
		"DATETIME":         TypeChar,
		"UNIQUEIDENTIFIER": TypeChar,
		"BIGINT":           TypeNumeric,
		"UNSIGNED INT":     TypeNumeric,
		"DECIMAL(10,2)":    TypeNumeric,
		"INT4":             TypeNumeric,
		"BIT":              "bit",
		"BOOL":             "bool",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, TypeBucket(in), in)
	}
}

func TestColumns(t *testing.T) {
	cols := Columns([]backend.Column{
		{Name: "option_name", DatabaseType: "NVARCHAR", Length: 191, HasLength: true},
		{Name: "option_id", DatabaseType: "BIGINT", Precision: 19},
	})
	require.Len(t, cols, 2)

	assert.Equal(t, "option_name", cols[0].Name)
	assert.Equal(t, "option_name", cols[0].Table)
	assert.Equal(t, TypeChar, cols[0].Type)
	assert.Equal(t, int64(191), cols[0].MaxLength)
	assert.True(t, cols[0].NotNull)
	assert.Nil(t, cols[0].Def)
	assert.Nil(t, cols[0].PrimaryKey)
	assert.Nil(t, cols[0].Unsigned)

	assert.Equal(t, TypeNumeric, cols[1].Type)
	assert.Equal(t, int64(0), cols[1].MaxLength)
	assert.Equal(t, int64(19), cols[1].Numeric)
}

type stubRows struct {
	cols    []backend.Column
	data    [][]any
	pos     int
	scanErr error
	closed  bool
}

func (r *stubRows) Columns() ([]backend.Column, error) { return r.cols, nil }
func (r *stubRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}
func (r *stubRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	for i, v := range r.data[r.pos-1] {
		*dest[i].(*any) = v
	}
	return nil
}
func (r *stubRows) Err() error   { return nil }
func (r *stubRows) Close() error { r.closed = true; return nil }

func TestFetch(t *testing.T) {
	rows := &stubRows{
		cols: []backend.Column{{Name: "id", DatabaseType: "INT"}, {Name: "name", DatabaseType: "VARCHAR"}},
		data: [][]any{{int64(1), []byte("alpha")}, {int64(2), nil}},
	}

	cols, out, err := Fetch(rows)
	require.NoError(t, err)
	assert.True(t, rows.closed)
	require.Len(t, cols, 2)
	require.Len(t, out, 2)
	assert.Equal(t, Row{"id": int64(1), "name": "alpha"}, out[0])
	assert.Equal(t, Row{"id": int64(2), "name": nil}, out[1])
}

func TestFetch_Empty(t *testing.T) {
	_, out, err := Fetch(&stubRows{cols: []backend.Column{{Name: "id"}}})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestFetch_ScanError(t *testing.T) {
	rows := &stubRows{
		cols:    []backend.Column{{Name: "id"}},
		data:    [][]any{{1}},
		scanErr: errors.New("bad value"),
	}
	_, _, err := Fetch(rows)
	assert.ErrorContains(t, err, "bad value")
	assert.True(t, rows.closed)
}

func TestWindowApply(t *testing.T) {
	rows := make([]Row, 10)
	for i := range rows {
		rows[i] = Row{"n": i + 1}
	}

	page := Window{Offset: 1, Count: 3}.Apply(rows)
	require.Len(t, page, 3)
	assert.Equal(t, 2, page[0]["n"])
	assert.Equal(t, 4, page[2]["n"])

	assert.Len(t, Window{Offset: 8, Count: 5}.Apply(rows), 2)
	assert.Empty(t, Window{Offset: 20, Count: 5}.Apply(rows))
	assert.Empty(t, Window{Offset: 0, Count: 0}.Apply(rows))
	assert.Len(t, Window{Offset: 7, Count: -1}.Apply(rows), 3)
}
