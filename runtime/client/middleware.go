package client

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/satishbabariya/sqlshim/query/translate"
)

// QueryEvent describes one backend call.
type QueryEvent struct {
	Query    string
	Role     translate.Role
	Duration time.Duration
	Error    error
	Start    time.Time
	End      time.Time
}

// Middleware intercepts backend calls
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// Use adds middlewares to the chain. They run for every statement of a plan,
// preceding and following statements included.
func (c *Client) Use(middlewares ...Middleware) {
	c.middlewares = append(c.middlewares, middlewares...)
}

// execute runs exec through the middleware chain. The timer is engaged only
// when something observes it.
func (c *Client) execute(ctx context.Context, event *QueryEvent, exec func() error) error {
	if len(c.middlewares) == 0 && !c.opts.SaveQueries {
		event.Error = exec()
		return event.Error
	}

	event.Start = time.Now()

	var next func() error
	index := 0

	next = func() error {
		if index >= len(c.middlewares) {
			// Last middleware, execute the actual statement
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Error = err
			return err
		}

		middleware := c.middlewares[index]
		index++
		return middleware(ctx, event, next)
	}

	return next()
}

// LoggingMiddleware logs every statement at debug level and failures at warn.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		fields := []zap.Field{
			zap.String("sql", event.Query),
			zap.Stringer("role", event.Role),
			zap.Duration("elapsed", event.Duration),
		}
		if err != nil {
			logger.Warn("statement failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("statement", fields...)
		}
		return err
	}
}

// TimingMiddleware reports the duration of every statement.
func TimingMiddleware(onTiming func(query string, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Query, event.Duration)
		}
		return err
	}
}
