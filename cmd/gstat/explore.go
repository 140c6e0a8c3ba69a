// cmd/gstat/explore.go
package gstat

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/gstat/internal/trace"
	"github.com/mwiater/gstat/internal/tui"
)

var startExplorer = tui.Run

// exploreCmd represents the 'explore' command.
var exploreCmd = &cobra.Command{
	Use:   "explore <dir>",
	Short: "Browse simulations, runs and requests interactively",
	Long:  `The 'explore' command opens a terminal UI with one list per simulation, run and request and a detail pane with the summary and visible traces of the current selection.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadDataset(cmd, args[0])
		if err != nil {
			return err
		}
		style := trace.DefaultStyle()
		style.Bins = cfg.Plot.Bins
		return startExplorer(res.Dataset, tui.Options{
			Mode:   cfg.Mode,
			Style:  style,
			Debug:  cfg.Debug,
			Logger: logger,
		})
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}
