package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/satishbabariya/sqlshim/backend"
	"github.com/satishbabariya/sqlshim/query/normalize"
	"github.com/satishbabariya/sqlshim/query/translate"
	"github.com/satishbabariya/sqlshim/runtime/querylog"
	"github.com/satishbabariya/sqlshim/runtime/reporter"
)

// Phase is a step of the statement pipeline.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTranslating
	PhaseRunningPreceding
	PhaseRunningMain
	PhaseRunningFollowing
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTranslating:
		return "translating"
	case PhaseRunningPreceding:
		return "running_preceding"
	case PhaseRunningMain:
		return "running_main"
	case PhaseRunningFollowing:
		return "running_following"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type queryOptions struct {
	translate bool
}

// QueryOption configures a single Query call.
type QueryOption func(*queryOptions)

// WithoutTranslation runs the statement exactly as given.
func WithoutTranslation() QueryOption {
	return func(o *queryOptions) { o.translate = false }
}

// Query runs stmt and returns the number of affected rows for mutations or
// selected rows otherwise.
//
// Non-primary dialects translate stmt into a plan first. Preceding
// statements run before the primary ones and following statements after
// them, even when a primary statement failed. Primary statements run in
// order and the first failure stops the rest; the result is the outcome of
// the last primary statement that ran. Backend failures are reported and
// returned as *QueryError.
func (c *Client) Query(ctx context.Context, stmt string, opts ...QueryOption) (int64, error) {
	if !c.ready {
		return 0, ErrNotReady
	}

	qo := queryOptions{translate: true}
	for _, opt := range opts {
		opt(&qo)
	}

	if c.opts.Filter != nil {
		stmt = c.opts.Filter(stmt)
	}

	c.phase = PhaseIdle
	c.flush()
	c.lastQuery = stmt

	plan := translate.Single(stmt)
	if qo.translate && !c.dialect.Primary() {
		c.phase = PhaseTranslating
		translated, err := c.translator.Translate(stmt)
		if err == nil && translated.Empty() {
			err = translate.ErrEmptyTranslation
		}
		if err != nil {
			c.phase = PhaseFailed
			c.logger.Debug("translation failed", zap.String("sql", stmt), zap.Error(err))
			return 0, fmt.Errorf("%w: %w", ErrNoQuery, err)
		}
		plan = translated
	} else if plan.Empty() {
		c.phase = PhaseFailed
		return 0, ErrNoQuery
	}

	c.phase = PhaseRunningPreceding
	c.runAux(ctx, plan.Preceding(), translate.Preceding)

	c.phase = PhaseRunningMain
	var (
		ret    int64
		runErr error
	)
	for _, member := range plan.Main() {
		ret, runErr = c.run(ctx, member, plan.Window)
		if runErr != nil {
			break
		}
	}

	c.phase = PhaseRunningFollowing
	c.runAux(ctx, plan.Following(), translate.Following)

	if runErr != nil {
		c.phase = PhaseFailed
		return 0, runErr
	}
	c.phase = PhaseDone
	return ret, nil
}

// runAux executes setup or teardown statements. Their results are discarded
// and failures are only logged.
func (c *Client) runAux(ctx context.Context, stmts []string, role translate.Role) {
	for _, stmt := range stmts {
		event := &QueryEvent{Query: stmt, Role: role}
		err := c.execute(ctx, event, func() error {
			_, err := c.conn.Exec(ctx, stmt)
			return err
		})
		if err != nil {
			c.logger.Warn("auxiliary statement failed",
				zap.String("sql", stmt),
				zap.Stringer("role", role),
				zap.Error(err))
		}
	}
}

// run executes one primary statement and records its outcome.
func (c *Client) run(ctx context.Context, stmt string, window *normalize.Window) (int64, error) {
	kind := normalize.Classify(stmt)
	event := &QueryEvent{Query: stmt, Role: translate.Primary}

	var (
		ret      int64
		tolerant bool
	)
	err := c.execute(ctx, event, func() error {
		var err error
		if kind == normalize.KindRows {
			ret, tolerant, err = c.runRows(ctx, stmt, window)
		} else {
			ret, err = c.runExec(ctx, stmt, kind)
		}
		return err
	})

	c.numQueries++
	caller := ""
	if c.opts.SaveQueries {
		caller = c.opts.Caller()
		c.queries = append(c.queries, SavedQuery{SQL: stmt, Elapsed: event.Duration, Caller: caller})
	}

	if err != nil {
		return 0, c.fail(stmt, kind, event.Duration, caller, err)
	}
	if tolerant {
		c.logger.Debug("missing relation tolerated", zap.String("sql", stmt))
	}
	c.logQuery(stmt, kind, event.Duration, caller, nil)
	return ret, nil
}

func (c *Client) runExec(ctx context.Context, stmt string, kind normalize.Kind) (int64, error) {
	res, err := c.conn.Exec(ctx, stmt)
	if err != nil {
		return 0, err
	}
	if !kind.AffectsRows() {
		c.rowsAffected = 0
		return 0, nil
	}

	n, err := res.RowsAffected()
	if err != nil {
		c.logger.Warn("rows affected unavailable", zap.String("sql", stmt), zap.Error(err))
		n = 0
	}
	c.rowsAffected = n
	c.totalRowsAffected += n

	if kind == normalize.KindInsert {
		c.insertID = c.lastInsertID(ctx, res)
	}
	return n, nil
}

func (c *Client) runRows(ctx context.Context, stmt string, window *normalize.Window) (int64, bool, error) {
	rows, err := c.conn.Query(ctx, stmt)
	var (
		cols []normalize.Column
		out  []normalize.Row
	)
	if err == nil {
		cols, out, err = normalize.Fetch(rows)
	}
	if err != nil {
		if c.tolerate != nil && c.tolerate(err) {
			c.rowsAffected = 0
			return 0, true, nil
		}
		return 0, false, err
	}

	numRows := len(out)
	if !c.dialect.Primary() {
		if fixer, ok := c.translator.(translate.ResultFixer); ok {
			out = fixer.FixResults(out)
		}
		if window != nil {
			out = window.Apply(out)
			numRows = len(out)
		}
	}

	c.colInfo = cols
	c.lastResult = out
	c.numRows = numRows
	return int64(numRows), false, nil
}

// lastInsertID prefers the dialect's session query and falls back to the
// driver. Dialects without a generated value report 0.
func (c *Client) lastInsertID(ctx context.Context, res backend.Result) int64 {
	if q := c.dialect.LastInsertIDQuery(); q != "" {
		v, err := c.scalar(ctx, q)
		if err != nil {
			c.logger.Debug("insert id unavailable", zap.String("sql", q), zap.Error(err))
			return 0
		}
		id, err := cast.ToInt64E(v)
		if err != nil {
			return 0
		}
		return id
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0
	}
	return id
}

// scalar reads the first column of the first row without touching the
// client's post-call state.
func (c *Client) scalar(ctx context.Context, q string) (any, error) {
	rows, err := c.conn.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	cols, out, err := normalize.Fetch(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 || len(cols) == 0 {
		return nil, errors.New("no rows returned")
	}
	return out[0][cols[0].Name], nil
}

func (c *Client) fail(stmt string, kind normalize.Kind, elapsed time.Duration, caller string, err error) error {
	code, message := c.dialect.ErrorInfo(err)
	c.lastError = code + " : " + message

	if caller == "" {
		caller = c.opts.Caller()
	}
	rec := reporter.Record{
		Query:   stmt,
		Code:    code,
		Message: c.lastError,
		Caller:  caller,
		Time:    time.Now(),
	}
	c.logQuery(stmt, kind, elapsed, caller, &rec)

	qerr := &QueryError{Query: stmt, Code: code, Message: message, Cause: err}
	if abort := c.reporter.Report(rec); abort != nil {
		return errors.Join(qerr, abort)
	}
	return qerr
}

func (c *Client) logQuery(stmt string, kind normalize.Kind, elapsed time.Duration, caller string, rec *reporter.Record) {
	if !c.opts.SaveQueries {
		return
	}
	entry := querylog.Entry{SQL: stmt, Elapsed: elapsed, Caller: caller}
	if kind == normalize.KindRows {
		entry.Outcome = c.lastResult
	} else {
		entry.Outcome = c.rowsAffected
	}
	if rec != nil {
		entry.Error = rec
	}
	if err := c.querylog.Append(entry); err != nil {
		c.logger.Warn("query log write failed", zap.Error(err))
	}
}
