package client

import (
	"context"
	"regexp"

	"github.com/hashicorp/go-version"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/satishbabariya/sqlshim/dialect"
	"github.com/satishbabariya/sqlshim/query/normalize"
)

// The readers below run query when it is non-empty and otherwise read the
// result of the previous Query call.

// GetVar returns the value at column x of row y, or nil.
func (c *Client) GetVar(ctx context.Context, query string, x, y int) (any, error) {
	if err := c.maybeQuery(ctx, query); err != nil {
		return nil, err
	}
	if y < 0 || y >= len(c.lastResult) || x < 0 || x >= len(c.colInfo) {
		return nil, nil
	}
	return c.lastResult[y][c.colInfo[x].Name], nil
}

// GetRow returns row y, or nil.
func (c *Client) GetRow(ctx context.Context, query string, y int) (normalize.Row, error) {
	if err := c.maybeQuery(ctx, query); err != nil {
		return nil, err
	}
	if y < 0 || y >= len(c.lastResult) {
		return nil, nil
	}
	return c.lastResult[y], nil
}

// GetCol returns column x of every row.
func (c *Client) GetCol(ctx context.Context, query string, x int) ([]any, error) {
	if err := c.maybeQuery(ctx, query); err != nil {
		return nil, err
	}
	if x < 0 || x >= len(c.colInfo) {
		return nil, nil
	}
	name := c.colInfo[x].Name
	out := make([]any, len(c.lastResult))
	for i, row := range c.lastResult {
		out[i] = row[name]
	}
	return out, nil
}

// GetResults returns every row.
func (c *Client) GetResults(ctx context.Context, query string) ([]normalize.Row, error) {
	if err := c.maybeQuery(ctx, query); err != nil {
		return nil, err
	}
	return c.lastResult, nil
}

func (c *Client) maybeQuery(ctx context.Context, query string) error {
	if query == "" {
		return nil
	}
	_, err := c.Query(ctx, query)
	return err
}

// DefaultVersion is reported by backends that are not MySQL, and by MySQL
// servers whose version cannot be read.
const DefaultVersion = "5.1"

// Capabilities understood by HasCap.
const (
	CapCollation   = "collation"
	CapGroupConcat = "group_concat"
	CapSubqueries  = "subqueries"
	CapSetCharset  = "set_charset"
)

var leadingVersion = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*`)

// Version returns the server version in MySQL terms.
func (c *Client) Version(ctx context.Context) string {
	if c.version != "" {
		return c.version
	}
	c.version = DefaultVersion

	q := c.dialect.VersionQuery()
	if c.dialect.Name() != dialect.MySQLName || q == "" || !c.ready {
		return c.version
	}
	v, err := c.scalar(ctx, q)
	if err != nil {
		c.logger.Debug("server version unavailable", zap.Error(err))
		return c.version
	}
	if s := leadingVersion.FindString(cast.ToString(v)); s != "" {
		c.version = s
	}
	return c.version
}

// HasCap reports whether the server version supports capability.
func (c *Client) HasCap(ctx context.Context, capability string) bool {
	var required string
	switch capability {
	case CapCollation, CapGroupConcat, CapSubqueries:
		required = "4.1"
	case CapSetCharset:
		required = "5.0.7"
	default:
		return false
	}

	current, err := version.NewVersion(c.Version(ctx))
	if err != nil {
		return false
	}
	return current.GreaterThanOrEqual(version.Must(version.NewVersion(required)))
}
