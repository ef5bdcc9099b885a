package config

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlshim/dialect"
	"github.com/satishbabariya/sqlshim/query/translate"
	"github.com/satishbabariya/sqlshim/runtime/querylog"
)

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := AppFs
	AppFs = afero.NewMemMapFs()
	t.Cleanup(func() { AppFs = prev })
	return AppFs
}

const sample = `dialect: sqlsrv
db:
  host: db.example.com
  user: wp
  name: wordpress
save_queries: true
query_log: /var/log/q.log
tolerate_missing_tables: false
identity:
  wp_posts: ID
log:
  level: debug
`

func TestLoadConfig_File(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/sqlshim.yaml", []byte(sample), 0o644))

	cfg, err := LoadConfig("/etc/sqlshim.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sqlsrv", cfg.Dialect)
	assert.Equal(t, "db.example.com", cfg.DB.Host)
	assert.Equal(t, "wp", cfg.DB.User)
	assert.Equal(t, "utf8mb4", cfg.DB.Charset)
	assert.True(t, cfg.SaveQueries)
	assert.True(t, cfg.ShowErrors)
	assert.Equal(t, "/var/log/q.log", cfg.QueryLog)
	assert.Equal(t, map[string]string{"wp_posts": "ID"}, cfg.Identity)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.NotNil(t, cfg.TolerateMissingTables)
	assert.False(t, *cfg.TolerateMissingTables)
	assert.Equal(t, "/etc/sqlshim.yaml", cfg.File)
}

func TestLoadConfig_Defaults(t *testing.T) {
	useMemFs(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Dialect)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, querylog.DefaultPath, cfg.QueryLog)
	assert.True(t, cfg.RealEscape)
	assert.Equal(t, translate.DefaultCacheSize, cfg.TranslationCache)
	assert.Nil(t, cfg.TolerateMissingTables)
	assert.Empty(t, cfg.File)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	useMemFs(t)

	_, err := LoadConfig("/nowhere.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_Env(t *testing.T) {
	fs := useMemFs(t)
	t.Setenv("SQLSHIM_DB_USER", "envuser")
	t.Setenv("DATABASE_URL", "wp:pw@tcp(db)/wordpress")
	t.Setenv("SQLSHIM_DB_NAME", "fromenv")
	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte("SQLSHIM_DB_NAME=local\n"), 0o644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "envuser", cfg.DB.User)
	assert.Equal(t, "wp:pw@tcp(db)/wordpress", cfg.DB.DSN)
	assert.Equal(t, "local", cfg.DB.Name)
}

func TestClientOptions(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/sqlshim.yaml", []byte(sample), 0o644))
	cfg, err := LoadConfig("/etc/sqlshim.yaml")
	require.NoError(t, err)

	opts, err := cfg.ClientOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, dialect.SQLServerName, opts.Dialect.Name())
	require.NotNil(t, opts.Translator)
	require.NotNil(t, opts.QueryLog)
	assert.True(t, opts.SaveQueries)
	require.NotNil(t, opts.Tolerate)
	assert.False(t, opts.Tolerate(errors.New("Invalid object name 'wp_x'")))

	_, cached := opts.Translator.(*translate.CachedTranslator)
	assert.True(t, cached)

	plan, err := opts.Translator.Translate("INSERT INTO `wp_posts` (`ID`, `post_title`) VALUES (5, 'x')")
	require.NoError(t, err)
	assert.Len(t, plan.Preceding(), 1)
}

func TestClientOptions_MySQL(t *testing.T) {
	on := true
	cfg := &Config{Dialect: "mysql", RealEscape: false, TolerateMissingTables: &on}

	opts, err := cfg.ClientOptions(nil)
	require.NoError(t, err)
	m, ok := opts.Dialect.(*dialect.MySQL)
	require.True(t, ok)
	assert.False(t, m.RealEscape)
	assert.Nil(t, opts.Translator)
	assert.NotNil(t, opts.Tolerate)
}

func TestClientOptions_TenantLog(t *testing.T) {
	cfg := &Config{Dialect: "sqlite", MultiTenant: true, ErrorLogFile: filepath.Join(t.TempDir(), "db-errors.log")}

	opts, err := cfg.ClientOptions(nil)
	require.NoError(t, err)
	_, closable := opts.Reporter.TenantSink.(io.Closer)
	assert.True(t, closable)

	require.NoError(t, opts.Reporter.Close())
	assert.Nil(t, opts.Reporter.TenantSink)
}

func TestClientOptions_UnknownDialect(t *testing.T) {
	_, err := (&Config{Dialect: "oracle"}).ClientOptions(nil)
	assert.Error(t, err)
}

func TestSaveConfig(t *testing.T) {
	fs := useMemFs(t)
	cfg := &Config{Dialect: "pgsql", DB: DBConfig{Host: "pg", Name: "wp"}}

	path, err := SaveConfig(cfg, "/tmp/.sqlshim.yaml")
	require.NoError(t, err)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "pgsql", loaded.Dialect)
	assert.Equal(t, "pg", loaded.DB.Host)

	ok, err := afero.Exists(fs, "/tmp/.sqlshim.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
}
