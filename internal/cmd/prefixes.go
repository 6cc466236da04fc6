package cmd

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"tarediiran-industries.com/simrail-edr/internal/prefixes"
)

func NewPrefixesCmd(app *EdrCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefixes",
		Short: "Print a prefix table built from the live station list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stations, err := app.Source.Stations(cmd.Context(), app.Server)
			if err != nil {
				return err
			}
			table := map[string]map[string]string{
				"stations": prefixes.FromStations(stations),
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(table)
		},
	}

	return cmd
}
