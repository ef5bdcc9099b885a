package client

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server driver
	_ "github.com/lib/pq"                // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"      // SQLite driver

	"github.com/satishbabariya/sqlshim/backend"
	"github.com/satishbabariya/sqlshim/dialect"
)

// ConnectConfig describes the database to open.
type ConnectConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Charset  string
	Collate  string
	// DSN, when set, is passed to the driver unchanged.
	DSN string
	// Params are appended to assembled DSNs.
	Params map[string]string
	// MultiTenant forces the utf8 charset.
	MultiTenant bool
}

// Open connects to the configured database and returns a ready client.
//
// Setup failures are *BailError values: an unregistered driver is an
// environment error, an unreachable server a connection error and a session
// bound to another database a selection error. Every failure path releases
// the connection.
func Open(ctx context.Context, cfg ConnectConfig, opts Options) (*Client, error) {
	if opts.Dialect == nil {
		opts.Dialect = dialect.NewMySQL()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	d := opts.Dialect

	driverName := d.DriverName()
	if !slices.Contains(sql.Drivers(), driverName) {
		return nil, &BailError{
			Kind:     BailEnvironment,
			Markdown: fmt.Sprintf(environmentPage, driverName, strings.Join(sql.Drivers(), ", ")),
			Cause:    fmt.Errorf("driver %q is not registered", driverName),
		}
	}

	dsn, err := cfg.dataSourceName(d)
	if err != nil {
		return nil, connectionBail(cfg, err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, connectionBail(cfg, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, connectionBail(cfg, err)
	}

	conn, err := backend.FromSQL(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, connectionBail(cfg, err)
	}

	c := New(conn, opts)
	if err := c.selectDatabase(ctx, cfg); err != nil {
		_ = c.Close()
		return nil, err
	}

	if m, ok := d.(*dialect.MySQL); ok {
		if mode, err := c.scalar(ctx, "SELECT @@SESSION.sql_mode"); err == nil {
			m.BindSQLMode(cast.ToString(mode))
		} else {
			c.logger.Warn("sql_mode unavailable, escaping without connection", zap.Error(err))
		}
	}

	if err := c.setCharset(ctx, cfg.charset(), cfg.Collate); err != nil {
		c.logger.Warn("failed to set charset", zap.Error(err))
	}

	c.logger.Info("connected",
		zap.String("dialect", string(d.Name())),
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name))
	return c, nil
}

func connectionBail(cfg ConnectConfig, err error) *BailError {
	return &BailError{
		Kind:     BailConnection,
		Markdown: fmt.Sprintf(connectionPage, cfg.Host),
		Cause:    err,
	}
}

// selectDatabase verifies the session is bound to cfg.Name.
func (c *Client) selectDatabase(ctx context.Context, cfg ConnectConfig) error {
	q := c.dialect.CurrentDatabaseQuery()
	if q == "" || cfg.Name == "" {
		return nil
	}

	v, err := c.scalar(ctx, q)
	if err == nil && cast.ToString(v) == cfg.Name {
		return nil
	}
	if err == nil {
		err = fmt.Errorf("session is bound to %q", cast.ToString(v))
	}
	return &BailError{
		Kind:     BailSelection,
		Markdown: fmt.Sprintf(selectionPage, cfg.Name, cfg.User),
		Cause:    err,
	}
}

// setCharset issues SET NAMES on MySQL servers that support collations.
func (c *Client) setCharset(ctx context.Context, charset, collate string) error {
	if c.dialect.Name() != dialect.MySQLName || charset == "" {
		return nil
	}
	if !c.HasCap(ctx, CapCollation) {
		return nil
	}

	q, err := c.Prepare("SET NAMES %s", charset)
	if err != nil {
		return err
	}
	if collate != "" {
		suffix, err := c.Prepare(" COLLATE %s", collate)
		if err != nil {
			return err
		}
		q += suffix
	}
	_, err = c.conn.Exec(ctx, q)
	return err
}

func (cfg ConnectConfig) charset() string {
	if cfg.MultiTenant {
		return "utf8"
	}
	return cfg.Charset
}

// dataSourceName assembles the driver DSN for d.
func (cfg ConnectConfig) dataSourceName(d dialect.Dialect) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	switch d.Name() {
	case dialect.MySQLName:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = cfg.Host
		if strings.HasPrefix(cfg.Host, "/") {
			mc.Net = "unix"
		}
		mc.DBName = cfg.Name
		mc.Params = map[string]string{}
		if cs := cfg.charset(); cs != "" {
			mc.Params["charset"] = cs
		}
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
		return mc.FormatDSN(), nil

	case dialect.SQLServerName:
		query := url.Values{}
		if cfg.Name != "" {
			query.Set("database", cfg.Name)
		}
		for k, v := range cfg.Params {
			query.Set(k, v)
		}
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     cfg.Host,
			RawQuery: query.Encode(),
		}
		return u.String(), nil

	case dialect.PostgresName:
		query := url.Values{}
		for k, v := range cfg.Params {
			query.Set(k, v)
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     cfg.Host,
			Path:     "/" + cfg.Name,
			RawQuery: query.Encode(),
		}
		return u.String(), nil

	case dialect.SQLiteName:
		if cfg.Name == "" {
			return ":memory:", nil
		}
		return cfg.Name, nil

	default:
		return "", fmt.Errorf("no DSN format for dialect %s; set DSN explicitly", d.Name())
	}
}
