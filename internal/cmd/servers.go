package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewServersCmd(app *EdrCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servers",
		Short: "List game servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			servers, err := app.Source.Servers(cmd.Context())
			if err != nil {
				return err
			}
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "CODE\tNAME\tACTIVE")
			for _, server := range servers {
				fmt.Fprintf(writer, "%s\t%s\t%t\n", server.Code, server.Name, server.Active)
			}
			return writer.Flush()
		},
	}

	return cmd
}
