package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/simrail-edr/internal/state"
)

func NewStationsCmd(app *EdrCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "List the stations of a server and who dispatches them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := state.Open(cmd.Context(), app.Source, app.Engine, app.Server)
			if err != nil {
				return err
			}
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "PREFIX\tNAME\tDISPATCHERS")
			for _, station := range st.Stations {
				names := make([]string, 0, len(station.DispatchedBy))
				for _, id := range station.DispatchedBy {
					if name, ok := st.PlayerName(id); ok {
						names = append(names, name)
					} else {
						names = append(names, id)
					}
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\n", station.Prefix, station.Name, strings.Join(names, "/"))
			}
			return writer.Flush()
		},
	}

	return cmd
}
