package dialect

import "strings"

var (
	addSlashesReplacer = strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`"`, `\"`,
		"\x00", `\0`,
	)

	// Same set mysql_real_escape_string escapes.
	realEscapeReplacer = strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`"`, `\"`,
		"\x00", `\0`,
		"\n", `\n`,
		"\r", `\r`,
		"\x1a", `\Z`,
	)
)

// AddSlashes backslash-escapes quotes, backslashes and NUL.
func AddSlashes(s string) string {
	return addSlashesReplacer.Replace(s)
}

// RealEscape escapes s the way the MySQL client library does for a
// connection running with backslash escapes enabled.
func RealEscape(s string) string {
	return realEscapeReplacer.Replace(s)
}

// DoubleQuotes doubles every single quote. No backslash escaping.
func DoubleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
