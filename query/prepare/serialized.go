package prepare

import (
	"regexp"
	"strings"
)

var (
	serializedComposite = regexp.MustCompile(`^[aOs]:[0-9]+:`)
	serializedScalar    = regexp.MustCompile(`^[bid]:[0-9.E-]+;$`)
)

// IsSerialized reports whether v is a PHP-serialized payload, the format
// WordPress stores composite option and meta values in.
func IsSerialized(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	if s == "N;" {
		return true
	}
	if len(s) < 4 || s[1] != ':' {
		return false
	}
	last := s[len(s)-1]
	if last != ';' && last != '}' {
		return false
	}

	switch s[0] {
	case 's':
		if s[len(s)-2] != '"' {
			return false
		}
		return serializedComposite.MatchString(s)
	case 'a', 'O':
		return serializedComposite.MatchString(s)
	case 'b', 'i', 'd':
		return serializedScalar.MatchString(s)
	}
	return false
}
