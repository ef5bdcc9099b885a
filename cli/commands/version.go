package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlshim/cli/internal/ui"
	"github.com/satishbabariya/sqlshim/cli/internal/version"
)

var versionFull bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		if !versionFull {
			fmt.Println(info.String())
			return
		}
		ui.PrintTable([]string{"Component", "Version"}, info.Rows())
		if info.Prerelease() {
			ui.PrintWarning("This is a development build")
		}
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include build and driver details")
	rootCmd.AddCommand(versionCmd)
}
