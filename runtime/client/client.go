// Package client runs MySQL-flavoured statements against any supported backend.
//
// A Client owns one backend session. Each Query call translates the
// statement for the client's dialect, runs the resulting plan and leaves the
// outcome in the client's post-call state (LastResult, InsertID,
// RowsAffected and friends). A Client is not safe for concurrent use.
package client

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/satishbabariya/sqlshim/backend"
	"github.com/satishbabariya/sqlshim/dialect"
	"github.com/satishbabariya/sqlshim/query/normalize"
	"github.com/satishbabariya/sqlshim/query/prepare"
	"github.com/satishbabariya/sqlshim/query/translate"
	"github.com/satishbabariya/sqlshim/runtime/querylog"
	"github.com/satishbabariya/sqlshim/runtime/reporter"
)

// Options configures a Client.
type Options struct {
	// Dialect defaults to MySQL.
	Dialect dialect.Dialect
	// Translator defaults to the rule-based translator for Dialect.
	// It is never consulted for the primary dialect.
	Translator translate.Translator
	// Filter rewrites every statement before it is run.
	Filter func(stmt string) string
	// Caller names the code that issued a statement.
	Caller func() string
	// Reporter defaults to a reporter on the global error log.
	Reporter *reporter.Reporter
	// QueryLog receives executed statements when SaveQueries is set.
	QueryLog    querylog.Sink
	SaveQueries bool
	// Tolerate overrides the dialect's missing-relation predicate.
	Tolerate dialect.Predicate
	Logger   *zap.Logger
}

// SavedQuery is a statement recorded while SaveQueries is enabled.
type SavedQuery struct {
	SQL     string
	Elapsed time.Duration
	Caller  string
}

// Client is the statement pipeline bound to one backend session.
type Client struct {
	conn       backend.Conn
	dialect    dialect.Dialect
	translator translate.Translator
	preparer   *prepare.Preparer
	reporter   *reporter.Reporter
	querylog   querylog.Sink
	tolerate   dialect.Predicate
	logger     *zap.Logger
	opts       Options

	middlewares []Middleware
	ready       bool
	phase       Phase
	version     string

	lastQuery         string
	lastError         string
	lastResult        []normalize.Row
	colInfo           []normalize.Column
	insertID          int64
	rowsAffected      int64
	totalRowsAffected int64
	numRows           int
	numQueries        int
	queries           []SavedQuery
}

// New creates a client on an established backend session. The client owns
// conn and closes it in Close.
func New(conn backend.Conn, opts Options) *Client {
	if opts.Dialect == nil {
		opts.Dialect = dialect.NewMySQL()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Translator == nil && !opts.Dialect.Primary() {
		opts.Translator = translate.New(opts.Dialect)
	}
	if opts.Caller == nil {
		opts.Caller = func() string { return reporter.CallerOf(reporter.Internal...) }
	}
	if opts.Reporter == nil {
		opts.Reporter = &reporter.Reporter{Logger: opts.Logger}
	}
	if opts.QueryLog == nil {
		opts.QueryLog = querylog.Nop{}
	}
	tolerate := opts.Tolerate
	if tolerate == nil {
		tolerate = opts.Dialect.UndefinedRelation()
	}

	return &Client{
		conn:       conn,
		dialect:    opts.Dialect,
		translator: opts.Translator,
		preparer:   prepare.New(opts.Dialect),
		reporter:   opts.Reporter,
		querylog:   opts.QueryLog,
		tolerate:   tolerate,
		logger:     opts.Logger,
		opts:       opts,
		ready:      conn != nil,
	}
}

// Close releases the backend session and the reporter's tenant sink.
func (c *Client) Close() error {
	sinkErr := c.reporter.Close()
	if !c.ready {
		return sinkErr
	}
	c.ready = false
	if m, ok := c.dialect.(*dialect.MySQL); ok {
		m.Unbind()
	}
	return errors.Join(c.conn.Close(), sinkErr)
}

// Dialect returns the client's dialect.
func (c *Client) Dialect() dialect.Dialect { return c.dialect }

// Ready reports whether the client can run statements.
func (c *Client) Ready() bool { return c.ready }

// Prepare substitutes args into template with the client's escaping rules.
// An empty template yields an empty statement and no error.
func (c *Client) Prepare(template string, args ...any) (string, error) {
	return c.preparer.Prepare(template, args...)
}

// Escape returns s escaped for use inside a string literal.
func (c *Client) Escape(s string) string {
	return c.dialect.Escape(s)
}

// LastQuery returns the statement passed to the last Query call.
func (c *Client) LastQuery() string { return c.lastQuery }

// LastError returns "code : message" for the last failed statement, or "".
func (c *Client) LastError() string { return c.lastError }

// LastResult returns the rows of the last row-returning statement.
func (c *Client) LastResult() []normalize.Row { return c.lastResult }

// ColInfo returns the column descriptors of the last row-returning statement.
func (c *Client) ColInfo() []normalize.Column { return c.colInfo }

// InsertID returns the identifier generated by the last INSERT or REPLACE.
func (c *Client) InsertID() int64 { return c.insertID }

// RowsAffected returns the count of the final executed statement.
func (c *Client) RowsAffected() int64 { return c.rowsAffected }

// TotalRowsAffected returns the sum over every statement of the last call.
func (c *Client) TotalRowsAffected() int64 { return c.totalRowsAffected }

// NumRows returns the number of rows in LastResult.
func (c *Client) NumRows() int { return c.numRows }

// NumQueries returns the number of statements run over the client's life.
func (c *Client) NumQueries() int { return c.numQueries }

// Queries returns the statements saved while SaveQueries is enabled.
func (c *Client) Queries() []SavedQuery { return c.queries }

// Phase returns the pipeline phase reached by the last Query call.
func (c *Client) Phase() Phase { return c.phase }

func (c *Client) flush() {
	c.lastResult = nil
	c.colInfo = nil
	c.lastQuery = ""
	c.lastError = ""
	c.rowsAffected = 0
	c.totalRowsAffected = 0
	c.numRows = 0
}
