// cmd/gstat/list_commands.go
package gstat

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	commandsHeaderStyle = lipgloss.NewStyle().Bold(true)
	commandsShortStyle  = lipgloss.NewStyle().Faint(true)
)

// commandsCmd implements 'list commands'.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List every command with its arguments",
	Long:  `The 'commands' subcommand prints the gstat command tree, one command per line, indented by depth and followed by its positional arguments and a short description.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listAllCommands(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

// commandRow is one line of the command listing.
type commandRow struct {
	depth int
	usage string
	short string
}

func (r commandRow) label() string {
	return strings.Repeat("  ", r.depth) + r.usage
}

// commandRows flattens the visible tree below cmd in registration order.
func commandRows(cmd *cobra.Command, depth int) []commandRow {
	usage := cmd.CommandPath()
	if _, argsPart, ok := strings.Cut(cmd.Use, " "); ok {
		usage += " " + argsPart
	}
	rows := []commandRow{{depth: depth, usage: usage, short: cmd.Short}}
	for _, sub := range cmd.Commands() {
		if sub.Hidden {
			continue
		}
		rows = append(rows, commandRows(sub, depth+1)...)
	}
	return rows
}

// listAllCommands writes the tree below root with the descriptions aligned
// in a second column.
func listAllCommands(w io.Writer, root *cobra.Command) {
	rows := commandRows(root, 0)
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.label()))
	}
	column := lipgloss.NewStyle().Width(width + 2)

	fmt.Fprintln(w, commandsHeaderStyle.Render("Commands"))
	for _, r := range rows {
		fmt.Fprintln(w, "  "+column.Render(r.label())+commandsShortStyle.Render(r.short))
	}
}
