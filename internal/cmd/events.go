package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/simrail-edr/internal/state"
)

func NewEventsCmd(app *EdrCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events <station>",
		Short: "Print the dispatch events of a station once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := state.Lookup(cmd.Context(), app.Source, app.Engine, app.Server, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, st.Title())
			writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "\tTRAIN\t\tTIME\tFROM\tTO")
			for _, event := range st.SortedEvents() {
				player := ""
				if event.Player {
					player = "*"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
					player, event.Train, event.Kind.Tag(), event.Clock(), event.Prev, event.Next)
			}
			return writer.Flush()
		},
	}

	return cmd
}
