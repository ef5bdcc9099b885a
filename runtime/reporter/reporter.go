// Package reporter records backend errors and decides how loudly to surface them.
package reporter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrAborted is returned by Report when a multi-tenant error escalates.
var ErrAborted = errors.New("aborted on database error")

// Record is one backend error.
type Record struct {
	Query   string    `json:"query"`
	Code    string    `json:"code,omitempty"`
	Message string    `json:"error_str"`
	Caller  string    `json:"caller,omitempty"`
	Time    time.Time `json:"time"`
}

// String composes the human-readable error line.
func (r Record) String() string {
	if r.Caller != "" {
		return fmt.Sprintf("database error %s for query %s made by %s", r.Message, r.Query, r.Caller)
	}
	return fmt.Sprintf("database error %s for query %s", r.Message, r.Query)
}

// Sink receives every error record.
type Sink interface {
	Append(rec Record)
}

// Log is an append-only in-memory Sink safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	records []Record
}

var global = &Log{}

// Global returns the process-wide error log.
func Global() *Log { return global }

// Append implements Sink.
func (l *Log) Append(rec Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// Records returns a copy of the recorded errors in order.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of recorded errors.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Reporter applies the reporting toggles to backend errors.
type Reporter struct {
	// Sink defaults to Global().
	Sink   Sink
	Logger *zap.Logger

	// Suppress stops everything after the record is appended.
	Suppress bool
	// Show enables visible output.
	Show bool
	// Output receives the display block. Defaults to os.Stderr.
	Output io.Writer

	MultiTenant bool
	// TenantSink receives display blocks in multi-tenant mode. Close closes
	// it when it is an io.Closer.
	TenantSink   io.Writer
	AbortOnError bool
}

// Report records rec and surfaces it according to the toggles. The only
// error it returns is ErrAborted.
func (r *Reporter) Report(rec Record) error {
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}
	sink := r.Sink
	if sink == nil {
		sink = Global()
	}
	sink.Append(rec)

	if r.Suppress {
		return nil
	}

	msg := rec.String()
	if r.Logger != nil {
		r.Logger.Error(msg, zap.String("code", rec.Code), zap.String("caller", rec.Caller))
	}

	if !r.Show {
		return nil
	}

	block := fmt.Sprintf("database error: [%s]\n%s\n", rec.Message, rec.Query)
	if r.MultiTenant {
		if r.TenantSink != nil {
			_, _ = io.WriteString(r.TenantSink, block)
		}
		if r.AbortOnError {
			return fmt.Errorf("%w: %s", ErrAborted, msg)
		}
		return nil
	}

	out := r.Output
	if out == nil {
		out = os.Stderr
	}
	_, _ = io.WriteString(out, block)
	return nil
}

// Close releases the tenant sink. Later reports skip the tenant block.
func (r *Reporter) Close() error {
	c, ok := r.TenantSink.(io.Closer)
	r.TenantSink = nil
	if !ok {
		return nil
	}
	return c.Close()
}
