package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/simrail-edr/internal/common"
	"tarediiran-industries.com/simrail-edr/internal/config"
	"tarediiran-industries.com/simrail-edr/internal/edr"
	"tarediiran-industries.com/simrail-edr/internal/prefixes"
	"tarediiran-industries.com/simrail-edr/internal/simrail"
	"tarediiran-industries.com/simrail-edr/internal/state"
)

type EdrCtlApp struct {
	ConfigPath string
	LogLevel   string
	Server     string

	Config config.ConfigFile
	Source state.Source
	Engine *edr.Engine

	closeLog func()
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &EdrCtlApp{}
	rootCmd := NewRootCmd(app)
	defer app.Close()
	return rootCmd.ExecuteContext(ctx)
}

func NewRootCmd(app *EdrCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "edr-ctl",
		Short:         "CLI tool used to inspect SimRail servers, stations and dispatch events",
		Version:       fmt.Sprintf("%s (%s)", common.Version, common.GitCommit),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "toml", "", "Path to configuration file")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "warn", "Log level")
	cmd.PersistentFlags().StringVar(&app.Server, "server", "en1", "Server code")

	cmd.AddCommand(NewServersCmd(app))
	cmd.AddCommand(NewStationsCmd(app))
	cmd.AddCommand(NewEventsCmd(app))
	cmd.AddCommand(NewFeedCmd(app))
	cmd.AddCommand(NewHealthCmd(app))
	cmd.AddCommand(NewPrefixesCmd(app))

	return cmd
}

// setup loads the configuration and builds the client. A preset Source is
// kept as-is.
func (app *EdrCtlApp) setup() error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.Config = cfg

	closeLog, err := common.SetupLogging(cfg.LogFile, app.LogLevel)
	if err != nil {
		return err
	}
	app.closeLog = closeLog

	if app.Engine == nil {
		resolver, err := prefixes.FromConfig(cfg.Resolver, cfg.PrefixTable)
		if err != nil {
			return err
		}
		app.Engine = edr.NewEngine(resolver)
	}
	if app.Source == nil {
		app.Source = simrail.FromConfig(cfg, nil)
	}
	return nil
}

func (app *EdrCtlApp) Close() {
	if app.closeLog != nil {
		app.closeLog()
	}
}
