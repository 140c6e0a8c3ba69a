// cmd/gstat/plot.go
package gstat

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/gstat/internal/config"
	"github.com/mwiater/gstat/internal/render"
	"github.com/mwiater/gstat/internal/trace"
)

var (
	plotOutput     string
	plotSimulation string
	plotRun        string
	plotRequest    string
)

// plotCmd implements 'plot', which indexes the dataset into traces and writes
// either the interactive figure document or a static image of one selection.
var plotCmd = &cobra.Command{
	Use:   "plot <dir>",
	Short: "Write a figure document or image of the latency distribution",
	Long:  `The 'plot' command builds the traces of the chosen mode (distribution, stacked, scatter or scatter-all). A .json output holds every trace with its visibility menus; .png and .svg outputs draw the default selection, or the one picked with --simulation, --run and --request.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if plotOutput == "" {
			return errors.New("--output is required")
		}
		res, err := loadDataset(cmd, args[0])
		if err != nil {
			return err
		}

		style := trace.DefaultStyle()
		style.Bins = cfg.Plot.Bins
		idx := trace.Build(res.Dataset, cfg.Mode, style)

		key, err := selection(idx)
		if err != nil {
			return err
		}
		opts := render.Options{Width: cfg.Plot.Width, Height: cfg.Plot.Height}
		if err := render.WriteFile(plotOutput, idx, key, opts); err != nil {
			return err
		}
		logger.Sugar().Infow("plot written", "path", plotOutput, "mode", cfg.Mode.String(), "traces", idx.Len(), "selection", key.String())
		fmt.Fprintf(cmd.OutOrStdout(), "Plot saved to %s\n", plotOutput)
		return nil
	},
}

// selection resolves the --simulation/--run/--request flags against idx.
func selection(idx *trace.Index) (trace.Key, error) {
	if plotSimulation == "" && plotRun == "" && plotRequest == "" {
		return idx.Default(), nil
	}
	if len(idx.Axes()) == 0 {
		return trace.Key{}, fmt.Errorf("--simulation, --run and --request do not apply to the %s mode", idx.Mode())
	}
	sel := trace.NewSelector(idx)
	pick := []struct {
		axis  trace.Axis
		value string
	}{
		{trace.AxisSimulation, plotSimulation},
		{trace.AxisRun, plotRun},
		{trace.AxisRequest, plotRequest},
	}
	for _, p := range pick {
		if p.value == "" {
			continue
		}
		if p.axis == trace.AxisRun && idx.Mode() == trace.Stacked {
			return trace.Key{}, errors.New("--run does not apply to the stacked mode")
		}
		if !sel.Select(p.axis, p.value) {
			return trace.Key{}, fmt.Errorf("no %s %q under %s", p.axis, p.value, sel.Key())
		}
	}
	return sel.Key(), nil
}

func init() {
	rootCmd.AddCommand(plotCmd)
	flags := plotCmd.Flags()
	flags.StringVarP(&plotOutput, "output", "o", "", "output file (.json, .png or .svg)")
	flags.StringVar(&plotSimulation, "simulation", "", "simulation to draw")
	flags.StringVar(&plotRun, "run", "", "run timestamp token to draw")
	flags.StringVar(&plotRequest, "request", "", "request name to draw")
	flags.Int("bins", 50, "histogram bins")
	flags.Float64("width", 8, "image width in inches")
	flags.Float64("height", 4, "image height in inches")

	viper.BindPFlag(config.KeyPlotBins, flags.Lookup("bins"))
	viper.BindPFlag(config.KeyPlotWidth, flags.Lookup("width"))
	viper.BindPFlag(config.KeyPlotHeight, flags.Lookup("height"))
}
