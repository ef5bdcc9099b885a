// Package querylog writes executed statements to an append-only diagnostic log.
//
// Each line has three fields separated by "|~|": the statement with newlines
// flattened to spaces, the JSON outcome (affected-row count for mutations,
// the row payload otherwise) and the JSON error record, empty on success.
package querylog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// DefaultPath is used when no log path is configured.
const DefaultPath = "queries.log"

// Separator delimits the fields of a log line.
const Separator = "|~|"

// Entry is one executed statement.
type Entry struct {
	SQL     string
	Elapsed time.Duration
	Caller  string
	// Outcome is serialized as JSON.
	Outcome any
	// Error is serialized as JSON when non-nil.
	Error any
}

// Sink receives query log entries.
type Sink interface {
	Append(e Entry) error
}

// Nop discards every entry.
type Nop struct{}

// Append implements Sink.
func (Nop) Append(Entry) error { return nil }

// FileSink appends entries to a file.
type FileSink struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewFileSink creates a sink writing to path on fs. An empty path means DefaultPath.
func NewFileSink(fs afero.Fs, path string) *FileSink {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		path = DefaultPath
	}
	return &FileSink{fs: fs, path: path}
}

// Path returns the file the sink writes to.
func (s *FileSink) Path() string { return s.path }

// Append implements Sink.
func (s *FileSink) Append(e Entry) error {
	line, err := Format(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.fs.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open query log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to write query log: %w", err)
	}
	return nil
}

// Format renders e as one log line including the trailing newline.
func Format(e Entry) (string, error) {
	outcome, err := json.Marshal(e.Outcome)
	if err != nil {
		return "", fmt.Errorf("failed to encode outcome: %w", err)
	}

	var errField string
	if e.Error != nil {
		b, err := json.Marshal(e.Error)
		if err != nil {
			return "", fmt.Errorf("failed to encode error: %w", err)
		}
		errField = string(b)
	}

	sql := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(e.SQL)
	return sql + Separator + string(outcome) + Separator + errField + "\n", nil
}
