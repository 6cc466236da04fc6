package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/simrail-edr/internal/feed"
	"tarediiran-industries.com/simrail-edr/internal/state"
)

func NewFeedCmd(app *EdrCtlApp) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "feed <station>",
		Short: "Print a station's events as a GTFS-realtime feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := state.Lookup(cmd.Context(), app.Source, app.Engine, app.Server, args[0])
			if err != nil {
				return err
			}
			message := feed.Build(*st.SelectedStation, st.SortedEvents(), time.Now())
			data, _, err := feed.Marshal(message, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or pb")

	return cmd
}
