// Package normalize maps backend results onto the uniform column and row
// shape callers see regardless of the engine behind the client.
package normalize

import "regexp"

// Kind is the result shape a statement produces.
type Kind int

const (
	// KindRows statements return rows (SELECT, SHOW, DESCRIBE, ...).
	KindRows Kind = iota
	// KindMutation statements report affected rows (DELETE, UPDATE).
	KindMutation
	// KindInsert statements report affected rows and a generated id.
	KindInsert
	// KindStructure statements always report zero rows (SET, CREATE, ALTER).
	KindStructure
)

func (k Kind) String() string {
	switch k {
	case KindRows:
		return "rows"
	case KindMutation:
		return "mutation"
	case KindInsert:
		return "insert"
	case KindStructure:
		return "structure"
	default:
		return "unknown"
	}
}

var (
	insertPattern    = regexp.MustCompile(`(?i)^\s*(insert|replace)\s`)
	mutationPattern  = regexp.MustCompile(`(?i)^\s*(delete|update)\s`)
	structurePattern = regexp.MustCompile(`(?i)^\s*(set|create|alter)\s`)
)

// Classify returns the Kind of stmt from its leading keyword.
func Classify(stmt string) Kind {
	switch {
	case insertPattern.MatchString(stmt):
		return KindInsert
	case mutationPattern.MatchString(stmt):
		return KindMutation
	case structurePattern.MatchString(stmt):
		return KindStructure
	default:
		return KindRows
	}
}

// AffectsRows reports whether the kind carries an affected-row count.
func (k Kind) AffectsRows() bool {
	return k == KindMutation || k == KindInsert
}
