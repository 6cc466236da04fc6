package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/simrail-edr/internal/common"
	"tarediiran-industries.com/simrail-edr/internal/edr"
)

func NewHealthCmd(app *EdrCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe the panel and timetable endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			bench := common.NewBenchmarker("health servers")
			servers, err := app.Source.Servers(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "servers: %d in %s\n", len(servers), bench.Elapsed())

			bench = common.NewBenchmarker("health trains")
			trains, err := app.Source.Trains(ctx, app.Server)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "trains on %s: %d in %s\n", app.Server, len(trains), bench.Elapsed())

			if len(trains) == 0 {
				fmt.Fprintln(out, "timetables: skipped, no trains")
				return nil
			}
			timetable, err := common.RuntimeBenchmark("health timetable", func() ([]edr.Stop, error) {
				return app.Source.Timetable(ctx, app.Server, trains[0].Number)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "timetable %s: %d rows\n", trains[0].Number, len(timetable))
			return nil
		},
	}

	return cmd
}
