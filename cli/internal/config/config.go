package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/satishbabariya/sqlshim/dialect"
	"github.com/satishbabariya/sqlshim/internal/logging"
	"github.com/satishbabariya/sqlshim/query/translate"
	"github.com/satishbabariya/sqlshim/runtime/client"
	"github.com/satishbabariya/sqlshim/runtime/querylog"
	"github.com/satishbabariya/sqlshim/runtime/reporter"
)

var AppFs = afero.NewOsFs()

const (
	configName = ".sqlshim"
	envPrefix  = "SQLSHIM"
)

// envKeys are bound explicitly so Unmarshal sees them without a config file.
var envKeys = []string{
	"dialect",
	"db.host", "db.user", "db.password", "db.name", "db.charset", "db.collate",
	"save_queries", "query_log", "suppress_errors", "show_errors",
	"multi_tenant", "error_log_file", "die_on_db_error", "real_escape",
	"tolerate_missing_tables", "translation_cache",
	"log.level", "log.format", "log.development", "log.file",
}

// DBConfig holds the connection settings
type DBConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Charset  string `mapstructure:"charset"`
	Collate  string `mapstructure:"collate"`
	DSN      string `mapstructure:"dsn"`
}

// LogConfig holds the logger settings
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

// Config holds the application configuration
type Config struct {
	Dialect string   `mapstructure:"dialect"`
	DB      DBConfig `mapstructure:"db"`

	SaveQueries    bool   `mapstructure:"save_queries"`
	QueryLog       string `mapstructure:"query_log"`
	SuppressErrors bool   `mapstructure:"suppress_errors"`
	ShowErrors     bool   `mapstructure:"show_errors"`
	MultiTenant    bool   `mapstructure:"multi_tenant"`
	ErrorLogFile   string `mapstructure:"error_log_file"`
	DieOnDBError   bool   `mapstructure:"die_on_db_error"`
	RealEscape     bool   `mapstructure:"real_escape"`
	// TolerateMissingTables is nil when unset: each dialect keeps its default.
	TolerateMissingTables *bool `mapstructure:"-"`
	// Identity maps SQL Server tables to their identity column.
	Identity map[string]string `mapstructure:"identity"`
	// TranslationCache is the number of translated plans kept; 0 disables.
	TranslationCache int `mapstructure:"translation_cache"`

	Log LogConfig `mapstructure:"log"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// LoadConfig loads configuration from the config file, .env files and the
// environment. An explicit path must exist; otherwise a missing config
// file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "sqlshim"))
	}

	// Load .env, then .env.local with higher priority
	if err := loadEnvFile(".env", false); err != nil {
		return nil, err
	}
	if err := loadEnvFile(".env.local", true); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	_ = v.BindEnv("db.dsn", envPrefix+"_DB_DSN", "DATABASE_URL")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if v.IsSet("tolerate_missing_tables") {
		tolerate := v.GetBool("tolerate_missing_tables")
		cfg.TolerateMissingTables = &tolerate
	}
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dialect", string(dialect.MySQLName))
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.charset", "utf8mb4")
	v.SetDefault("query_log", querylog.DefaultPath)
	v.SetDefault("show_errors", true)
	v.SetDefault("real_escape", true)
	v.SetDefault("translation_cache", translate.DefaultCacheSize)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// loadEnvFile applies a dotenv file from AppFs. Without override, variables
// already present in the environment win.
func loadEnvFile(name string, override bool) error {
	f, err := AppFs.Open(name)
	if err != nil {
		return nil
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for k, val := range env {
		if _, exists := os.LookupEnv(k); exists && !override {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return err
		}
	}
	return nil
}

// SaveConfig writes cfg to path, or to ~/.config/sqlshim/.sqlshim.yaml.
func SaveConfig(cfg *Config, path string) (string, error) {
	v := viper.New()
	v.SetFs(AppFs)
	v.Set("dialect", cfg.Dialect)
	v.Set("db.host", cfg.DB.Host)
	v.Set("db.user", cfg.DB.User)
	v.Set("db.name", cfg.DB.Name)
	v.Set("db.charset", cfg.DB.Charset)
	v.Set("db.collate", cfg.DB.Collate)
	v.Set("save_queries", cfg.SaveQueries)
	v.Set("query_log", cfg.QueryLog)
	v.Set("show_errors", cfg.ShowErrors)
	v.Set("log.level", cfg.Log.Level)

	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", err
		}
		dir := filepath.Join(home, ".config", "sqlshim")
		if err := AppFs.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		path = filepath.Join(dir, configName+".yaml")
	}
	return path, v.WriteConfigAs(path)
}

// Logging returns the log section as a logger configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:       c.Log.Level,
		Format:      c.Log.Format,
		Development: c.Log.Development,
		File:        c.Log.File,
	}
}

// ClientOptions maps the configuration onto client options.
func (c *Config) ClientOptions(logger *zap.Logger) (client.Options, error) {
	d, err := dialect.ByName(c.Dialect)
	if err != nil {
		return client.Options{}, err
	}
	if m, ok := d.(*dialect.MySQL); ok {
		m.RealEscape = c.RealEscape
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rep := &reporter.Reporter{
		Logger:       logger,
		Suppress:     c.SuppressErrors,
		Show:         c.ShowErrors,
		MultiTenant:  c.MultiTenant,
		AbortOnError: c.DieOnDBError,
	}
	if c.MultiTenant && c.ErrorLogFile != "" {
		rep.TenantSink = logging.RotatingFile(c.ErrorLogFile)
	}

	opts := client.Options{
		Dialect:     d,
		Reporter:    rep,
		SaveQueries: c.SaveQueries,
		Logger:      logger,
	}
	if c.SaveQueries {
		opts.QueryLog = querylog.NewFileSink(AppFs, c.QueryLog)
	}
	if !d.Primary() {
		var topts []translate.Option
		for table, column := range c.Identity {
			topts = append(topts, translate.WithIdentity(table, column))
		}
		var t translate.Translator = translate.New(d, topts...)
		if c.TranslationCache > 0 {
			t = translate.Cached(t, c.TranslationCache)
		}
		opts.Translator = t
	}

	if c.TolerateMissingTables != nil {
		switch {
		case !*c.TolerateMissingTables:
			opts.Tolerate = func(error) bool { return false }
		case d.Name() == dialect.MySQLName:
			opts.Tolerate = dialect.MySQLUndefinedTable
		}
	}
	return opts, nil
}

// Connect maps the configuration onto connection settings.
func (c *Config) Connect() client.ConnectConfig {
	return client.ConnectConfig{
		Host:        c.DB.Host,
		User:        c.DB.User,
		Password:    c.DB.Password,
		Name:        c.DB.Name,
		Charset:     c.DB.Charset,
		Collate:     c.DB.Collate,
		DSN:         c.DB.DSN,
		MultiTenant: c.MultiTenant,
	}
}
