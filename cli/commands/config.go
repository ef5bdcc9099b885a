package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlshim/cli/internal/config"
	"github.com/satishbabariya/sqlshim/cli/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write the sqlshim configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		source := cfg.File
		if source == "" {
			source = "defaults and environment"
		}
		ui.PrintSection("Configuration (" + source + ")")
		ui.PrintTable([]string{"Key", "Value"}, configRows(cfg))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		written, err := config.SaveConfig(cfg, path)
		if err != nil {
			return err
		}
		ui.PrintSuccess("Wrote %s", written)
		ui.PrintInfo("Passwords are not written; set SQLSHIM_DB_PASSWORD instead")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// configRows lists the settings worth showing, password masked.
func configRows(c *config.Config) [][]string {
	password := ""
	if c.DB.Password != "" {
		password = strings.Repeat("*", 8)
	}
	rows := [][]string{
		{"dialect", c.Dialect},
		{"db.host", c.DB.Host},
		{"db.user", c.DB.User},
		{"db.password", password},
		{"db.name", c.DB.Name},
		{"db.charset", c.DB.Charset},
		{"db.collate", c.DB.Collate},
		{"db.dsn", maskDSN(c.DB.DSN)},
		{"save_queries", ui.FormatCell(c.SaveQueries)},
		{"query_log", c.QueryLog},
		{"show_errors", ui.FormatCell(c.ShowErrors)},
		{"suppress_errors", ui.FormatCell(c.SuppressErrors)},
		{"multi_tenant", ui.FormatCell(c.MultiTenant)},
		{"log.level", c.Log.Level},
	}
	if c.TolerateMissingTables != nil {
		rows = append(rows, []string{"tolerate_missing_tables", ui.FormatCell(*c.TolerateMissingTables)})
	}
	return rows
}

// maskDSN hides the password part of user:password@ in a DSN.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	userinfo := dsn[:at]
	start := strings.Index(userinfo, "://") + 3
	if start < 3 {
		start = 0
	}
	colon := strings.Index(userinfo[start:], ":")
	if colon < 0 {
		return dsn
	}
	return dsn[:start+colon+1] + "****" + dsn[at:]
}
