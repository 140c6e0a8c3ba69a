// cmd/gstat/summary.go
package gstat

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/gstat/internal/export"
)

var (
	summaryFormat string
	summaryOutput string
)

// summaryCmd implements 'summary', which prints one line of quantiles per
// simulation, run and request.
var summaryCmd = &cobra.Command{
	Use:   "summary <dir>",
	Short: "Print response time percentiles per request",
	Long:  `The 'summary' command loads a report directory (or a directory of reports) and writes count, min, 50th, 75th, 95th, 99th and max per request as CSV, a JSON report or Prometheus text exposition.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(summaryFormat)
		if err != nil {
			return err
		}
		res, err := loadDataset(cmd, args[0])
		if err != nil {
			return err
		}

		if summaryOutput == "" || summaryOutput == "-" {
			return export.Write(cmd.OutOrStdout(), res.Dataset, format)
		}
		f, err := os.Create(summaryOutput)
		if err != nil {
			return err
		}
		if err := export.Write(f, res.Dataset, format); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "csv", "output format (csv, json or prom)")
	summaryCmd.Flags().StringVarP(&summaryOutput, "output", "o", "", "write to file instead of stdout")
}
