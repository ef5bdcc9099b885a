package prepare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlshim/dialect"
)

func TestPrepare_SQLServer(t *testing.T) {
	p := New(dialect.SQLServer{})

	tests := []struct {
		name     string
		template string
		args     []any
		want     string
	}{
		{
			name:     "string and integer",
			template: "SELECT * FROM t WHERE a = %s AND b = %d",
			args:     []any{"a'b", 5},
			want:     "SELECT * FROM t WHERE a = N'a''b' AND b = 5--PREPARE",
		},
		{
			name:     "escaped percent keeps literal %s",
			template: "SELECT '100%%s' FROM t",
			want:     "SELECT '100%s' FROM t--PREPARE",
		},
		{
			name:     "percent then placeholder",
			template: "LIKE %%%s",
			args:     []any{"x"},
			want:     "LIKE %N'x'--PREPARE",
		},
		{
			name:     "stray percent is literal",
			template: "SELECT DATE_FORMAT(d, '%c') FROM t WHERE id = %d",
			args:     []any{"12abc"},
			want:     "SELECT DATE_FORMAT(d, '%c') FROM t WHERE id = 12--PREPARE",
		},
		{
			name:     "serialized argument flags statement",
			template: "UPDATE wp_options SET option_value = %s WHERE option_name = %s",
			args:     []any{`a:1:{s:3:"foo";s:3:"bar";}`, "widgets"},
			want:     `UPDATE wp_options SET option_value = N'a:1:{s:3:"foo";s:3:"bar";}' WHERE option_name = N'widgets'--SERIALIZED`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Prepare(tt.template, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrepare_MySQL(t *testing.T) {
	p := New(dialect.NewMySQL())

	got, err := p.Prepare("SELECT * FROM `t` WHERE a = %s AND b = %d", "a'b", "7")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `t` WHERE a = 'a\\'b' AND b = 7", got)
}

func TestPrepare_RequotingIsIdempotent(t *testing.T) {
	for _, d := range []dialect.Dialect{dialect.NewMySQL(), dialect.SQLServer{}, dialect.Postgres{}} {
		t.Run(string(d.Name()), func(t *testing.T) {
			p := New(d)
			bare, err := p.Prepare("WHERE a = %s", "O'Brien")
			require.NoError(t, err)
			single, err := p.Prepare("WHERE a = '%s'", "O'Brien")
			require.NoError(t, err)
			double, err := p.Prepare(`WHERE a = "%s"`, "O'Brien")
			require.NoError(t, err)

			assert.Equal(t, bare, single)
			assert.Equal(t, bare, double)
		})
	}
}

func TestPrepare_CallingConventions(t *testing.T) {
	p := New(dialect.Postgres{})

	variadic, err := p.Prepare("a = %s AND b = %d", "x", 2)
	require.NoError(t, err)
	list, err := p.Prepare("a = %s AND b = %d", []any{"x", 2})
	require.NoError(t, err)
	typed, err := p.Prepare("a = %s AND b = %s", []string{"x", "2"})
	require.NoError(t, err)

	assert.Equal(t, "a = 'x' AND b = 2--PREPARE", variadic)
	assert.Equal(t, variadic, list)
	assert.Equal(t, "a = 'x' AND b = '2'--PREPARE", typed)
}

func TestPrepare_ArgumentCount(t *testing.T) {
	p := New(dialect.SQLServer{})

	t.Run("too few arguments fails without a statement", func(t *testing.T) {
		got, err := p.Prepare("a = %s AND b = %d", "x")
		assert.ErrorIs(t, err, ErrArgumentCount)
		assert.Empty(t, got)
	})

	t.Run("no arguments at all", func(t *testing.T) {
		_, err := p.Prepare("a = %s")
		assert.ErrorIs(t, err, ErrArgumentCount)
	})

	t.Run("extra arguments are ignored", func(t *testing.T) {
		got, err := p.Prepare("a = %d", 1, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, "a = 1--PREPARE", got)
	})
}

func TestPrepare_EmptyTemplate(t *testing.T) {
	got, err := New(dialect.SQLServer{}).Prepare("", "unused")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{5, "5"},
		{int64(-12), "-12"},
		{3.9, "3"},
		{true, "1"},
		{nil, "0"},
		{"42", "42"},
		{"  -7 apples", "-7"},
		{"abc", "0"},
		{"010", "10"},
		{[]byte("99"), "99"},
		{struct{}{}, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toInt(tt.in), "input %#v", tt.in)
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", toString(nil))
	assert.Equal(t, "1", toString(true))
	assert.Equal(t, "", toString(false))
	assert.Equal(t, "12", toString(12))
	assert.Equal(t, "1.5", toString(1.5))
	assert.Equal(t, "raw", toString([]byte("raw")))
}

func TestIsSerialized(t *testing.T) {
	yes := []string{
		"N;",
		"b:1;",
		"i:42;",
		"d:1.5;",
		`s:5:"hello";`,
		`a:1:{i:0;s:1:"x";}`,
		`O:8:"stdClass":0:{}`,
		" i:1; ",
	}
	no := []string{
		"",
		"hello",
		"i:42",
		`s:5:"hello"`,
		"a:b:{}",
		"x:1;",
	}
	for _, s := range yes {
		assert.True(t, IsSerialized(s), s)
	}
	for _, s := range no {
		assert.False(t, IsSerialized(s), s)
	}
	assert.False(t, IsSerialized(12))
}

func TestNormalizeArgs(t *testing.T) {
	assert.Equal(t, []any{1, 2}, NormalizeArgs([]any{[]int{1, 2}}))
	assert.Equal(t, []any{"a"}, NormalizeArgs([]any{"a"}))
	assert.Equal(t, []any{[]byte("x")}, NormalizeArgs([]any{[]byte("x")}))
	assert.Equal(t, []any{1, 2}, NormalizeArgs([]any{1, 2}))
	assert.Equal(t, []any{nil}, NormalizeArgs([]any{nil}))
}
