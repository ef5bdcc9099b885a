package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlshim/cli/internal/ui"
	"github.com/satishbabariya/sqlshim/query/translate"
	"github.com/satishbabariya/sqlshim/runtime/client"
)

var translateCmd = &cobra.Command{
	Use:   "translate <sql|file> [args...]",
	Short: "Show how a statement is rewritten for the configured dialect",
	Long: `Print the statements a MySQL-flavored statement becomes for the
configured dialect, without connecting. Setup and teardown statements are
listed around the primary ones; a window line means LIMIT/OFFSET is
applied to fetched rows.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := cfg.ClientOptions(logger)
		if err != nil {
			return err
		}
		c := client.New(nil, opts)

		stmt, _, err := readSQL(appFs(), args[0])
		if err != nil {
			return err
		}
		if len(args) > 1 {
			if stmt, err = c.Prepare(stmt, parseArgs(args[1:])...); err != nil {
				return err
			}
		}

		plan := translate.Single(stmt)
		if opts.Translator != nil {
			if plan, err = opts.Translator.Translate(stmt); err != nil {
				return err
			}
		}

		ui.PrintSection(string(opts.Dialect.Name()))
		ui.PrintPlan(plan)
		return nil
	},
}

var prepareCmd = &cobra.Command{
	Use:   "prepare <template> [args...]",
	Short: "Fill placeholders and print the resulting statement",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := offlineClient()
		if err != nil {
			return err
		}
		stmt, err := c.Prepare(args[0], parseArgs(args[1:])...)
		if err != nil {
			return err
		}
		ui.PrintCodeBlock(stmt, "sql")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(prepareCmd)
}
