package normalize

import (
	"slices"
	"strings"

	"github.com/satishbabariya/sqlshim/backend"
)

// Semantic type buckets.
const (
	TypeText    = "text"
	TypeChar    = "char"
	TypeNumeric = "numeric"
)

// Column describes one result column. Database/sql exposes no table binding
// or key flags, so Table mirrors Name and the key, blob, unsigned and zerofill
// flags are always nil.
type Column struct {
	Name      string `json:"name"`
	Table     string `json:"table"`
	Def       any    `json:"def"`
	MaxLength int64  `json:"max_length"`
	NotNull   bool   `json:"not_null"`
	Numeric   int64  `json:"numeric"`
	Type      string `json:"type"`

	PrimaryKey  *bool `json:"primary_key"`
	UniqueKey   *bool `json:"unique_key"`
	MultipleKey *bool `json:"multiple_key"`
	Blob        *bool `json:"blob"`
	Unsigned    *bool `json:"unsigned"`
	Zerofill    *bool `json:"zerofill"`
}

var (
	largeTextTypes = []string{"TEXT", "BLOB", "CLOB", "IMAGE", "BYTEA", "JSON", "XML"}
	charTypes      = []string{"CHAR", "VARCHAR", "NCHAR", "NVARCHAR", "BPCHAR", "STRING",
		"UNIQUEIDENTIFIER", "ENUM", "SET", "DATE", "TIME", "DATETIME", "DATETIME2", "SMALLDATETIME",
		"DATETIMEOFFSET", "TIMESTAMP", "TIMESTAMPTZ", "YEAR", "UUID"}
	numericTypes = []string{"INT", "INTEGER", "TINYINT", "SMALLINT", "MEDIUMINT", "BIGINT",
		"INT2", "INT4", "INT8", "DECIMAL", "NUMERIC", "FLOAT", "FLOAT4", "FLOAT8", "REAL",
		"DOUBLE", "MONEY", "SMALLMONEY", "SERIAL", "BIGSERIAL"}
)

// TypeBucket maps a backend type name onto text, char or numeric. Unknown
// types come back as the lowercased backend name.
func TypeBucket(databaseType string) string {
	t := strings.ToUpper(strings.TrimSpace(databaseType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	t = strings.TrimPrefix(t, "UNSIGNED ")

	switch {
	case t == "":
		return ""
	case hasSuffix(t, largeTextTypes), t == "VARBINARY", t == "BINARY":
		return TypeText
	case slices.Contains(charTypes, t):
		return TypeChar
	case slices.Contains(numericTypes, t):
		return TypeNumeric
	default:
		return strings.ToLower(t)
	}
}

// Columns builds descriptors for backend column metadata.
func Columns(meta []backend.Column) []Column {
	cols := make([]Column, len(meta))
	for i, m := range meta {
		col := Column{
			Name:    m.Name,
			Table:   m.Name,
			NotNull: true,
			Numeric: m.Precision,
			Type:    TypeBucket(m.DatabaseType),
		}
		if m.HasLength {
			col.MaxLength = m.Length
		}
		cols[i] = col
	}
	return cols
}

// hasSuffix matches TEXT, LONGTEXT, MEDIUMBLOB and friends.
func hasSuffix(t string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(t, s) {
			return true
		}
	}
	return false
}
