// cmd/gstat/list_runs.go
package gstat

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/mwiater/gstat/internal/dataset"
)

var (
	runStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	countStyle = lipgloss.NewStyle().Faint(true)
)

// runsCmd implements 'list runs', which prints the simulation, run and
// request hierarchy of a report directory as a tree.
var runsCmd = &cobra.Command{
	Use:   "runs <dir>",
	Short: "List simulations, runs and requests as a tree",
	Long:  `The 'runs' subcommand loads a report directory and prints every simulation with its runs in chronological order and the requests recorded in each run, together with their sample counts.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadDataset(cmd, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s report, %d series\n", res.Shape, res.Dataset.Len())
		writeRunTree(cmd.OutOrStdout(), res.Dataset)
		return nil
	},
}

func init() {
	listCmd.AddCommand(runsCmd)
}

// writeRunTree renders ds as a simulation > run > request tree.
func writeRunTree(w io.Writer, ds *dataset.Dataset) {
	root := tree.Root(ds.Root())
	for _, sim := range ds.Simulations() {
		simNode := tree.Root(sim)
		for _, token := range ds.Runs(sim) {
			run := ds.Run(sim, token)
			runNode := tree.Root(runStyle.Render(run.Label) + " " + countStyle.Render("("+token+")"))
			for _, name := range run.Requests() {
				s := run.Series(name)
				runNode.Child(fmt.Sprintf("%s %s", name, countStyle.Render(fmt.Sprintf("n=%d", s.Summary.Count))))
			}
			simNode.Child(runNode)
		}
		root.Child(simNode)
	}
	fmt.Fprintln(w, root.String())
}
