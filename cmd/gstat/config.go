// cmd/gstat/config.go
package gstat

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd prints the effective configuration after flags, environment
// and config file have been merged.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  `The 'config' command prints the configuration gstat would run with, after merging defaults, the config file, GSTAT_* environment variables and command line flags.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if f := viper.ConfigFileUsed(); f != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "config file: %s\n", f)
		}
		_, err := pp.Fprintln(cmd.OutOrStdout(), cfg)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
