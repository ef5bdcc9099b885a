package prepare

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// NormalizeArgs folds both calling conventions into one ordered list.
// Prepare(t, a, b) and Prepare(t, []any{a, b}) yield the same arguments.
// A single []byte argument is a value, not a list.
func NormalizeArgs(args []any) []any {
	if len(args) != 1 || args[0] == nil {
		return args
	}
	if _, ok := args[0].([]byte); ok {
		return args
	}

	v := reflect.ValueOf(args[0])
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return args
	}

	flat := make([]any, v.Len())
	for i := range flat {
		flat[i] = v.Index(i).Interface()
	}
	return flat
}

// toString renders a %s argument before escaping.
func toString(arg any) string {
	switch v := arg.(type) {
	case nil:
		return ""
	case bool:
		// PHP casts false to "" and true to "1".
		if v {
			return "1"
		}
		return ""
	case []byte:
		return string(v)
	}
	return cast.ToString(arg)
}

// toInt renders a %d argument. Strings follow intval: the leading integer
// prefix is used and anything non-numeric becomes 0.
func toInt(arg any) string {
	switch v := arg.(type) {
	case string:
		return strconv.FormatInt(leadingInt(v), 10)
	case []byte:
		return strconv.FormatInt(leadingInt(string(v)), 10)
	}
	n, err := cast.ToInt64E(arg)
	if err != nil {
		return "0"
	}
	return strconv.FormatInt(n, 10)
}

func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// Out of range: saturate like intval.
		if s[0] == '-' {
			return -1 << 63
		}
		return 1<<63 - 1
	}
	return n
}
