package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satishbabariya/sqlshim/cli/internal/config"
	"github.com/satishbabariya/sqlshim/cli/internal/ui"
	"github.com/satishbabariya/sqlshim/cli/internal/version"
	"github.com/satishbabariya/sqlshim/internal/logging"
	"github.com/satishbabariya/sqlshim/runtime/client"
)

var (
	configPath  string
	dialectFlag string
	logLevel    string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sqlshim",
	Short: "Run WordPress-style SQL against MySQL, SQL Server, PostgreSQL or SQLite",
	Long: `sqlshim runs MySQL-flavored statements through the sqlshim pipeline:
placeholder substitution, dialect translation, execution and result
normalization. Connection settings come from .sqlshim.yaml, .env files
and SQLSHIM_* environment variables.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("dialect") {
			loaded.Dialect = dialectFlag
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Log.Level = logLevel
		}
		cfg = loaded

		logging.Init(cfg.Logging())
		logger = logging.L()
		if cfg.File != "" {
			logger.Debug("config loaded", zap.String("file", cfg.File))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default .sqlshim.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dialectFlag, "dialect", "d", "", "dialect: mysql, sqlsrv, pgsql or sqlite")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// Execute is the main entry point for the CLI
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return nil
	}

	var bail *client.BailError
	if errors.As(err, &bail) {
		if rerr := ui.PrintMarkdown(bail.Markdown); rerr != nil {
			ui.PrintError("%v", bail)
		}
		return err
	}
	ui.PrintError("%v", err)
	return err
}
