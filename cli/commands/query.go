package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satishbabariya/sqlshim/cli/internal/ui"
	"github.com/satishbabariya/sqlshim/cli/internal/watch"
	"github.com/satishbabariya/sqlshim/runtime/client"
)

var (
	queryNoTranslate bool
	queryWatch       bool
)

var queryCmd = &cobra.Command{
	Use:   "query <sql|file> [args...]",
	Short: "Run a statement and print its result",
	Long: `Run one MySQL-flavored statement through the full pipeline.

When args are given the statement is treated as a template and its %s, %d
and %f placeholders are filled first. The first argument may name a file
holding the statement; with --watch the file is re-run on every save.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := connect(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		run := func(ctx context.Context) error {
			return runQuery(ctx, c, args[0], parseArgs(args[1:]))
		}
		if !queryWatch {
			return run(ctx)
		}

		w, err := watch.NewWatcher(args[0], logger, run)
		if err != nil {
			return err
		}
		ui.PrintInfo("Watching %s (Ctrl+C to stop)", args[0])
		return w.Run(ctx)
	},
}

func init() {
	queryCmd.Flags().BoolVar(&queryNoTranslate, "no-translate", false, "send the statement to the backend unchanged")
	queryCmd.Flags().BoolVarP(&queryWatch, "watch", "w", false, "re-run when the statement file changes")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(ctx context.Context, c *client.Client, input string, args []any) error {
	stmt, fromFile, err := readSQL(appFs(), input)
	if err != nil {
		return err
	}
	if fromFile {
		logger.Debug("statement read from file", zap.String("file", input))
	}
	if len(args) > 0 {
		if stmt, err = c.Prepare(stmt, args...); err != nil {
			return err
		}
	}

	var opts []client.QueryOption
	if queryNoTranslate {
		opts = append(opts, client.WithoutTranslation())
	}

	n, err := c.Query(ctx, stmt, opts...)
	if err != nil {
		return err
	}

	if cols := c.ColInfo(); len(cols) > 0 {
		ui.PrintResults(cols, c.LastResult())
		return nil
	}
	ui.PrintSuccess("%d row(s) affected", n)
	if total := c.TotalRowsAffected(); total != n {
		ui.PrintInfo("%d row(s) in total", total)
	}
	if id := c.InsertID(); id != 0 {
		ui.PrintInfo("insert id %d", id)
	}
	return nil
}
