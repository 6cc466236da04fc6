package edr_web

import (
	"flag"
	"fmt"
	"io"

	"tarediiran-industries.com/simrail-edr/internal/common"
	"tarediiran-industries.com/simrail-edr/internal/config"
)

type Config struct {
	Version        bool
	TomlConfigPath string
	ListenAddress  string
	File           config.ConfigFile
}

func ParseArgs(programName string, args []string, errOut io.Writer) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errOut, "Options")
		fs.PrintDefaults()
	}

	flags := config.BindFlags(fs)
	fs.StringVar(&cfg.ListenAddress, "listen", "", "HTTP listen address (overrides listen_address)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Version = flags.Version
	cfg.TomlConfigPath = flags.TomlConfigPath
	if cfg.Version {
		fmt.Fprintf(errOut, "%s: version %s (%s)\n", programName, common.Version, common.GitCommit)
		return cfg, flag.ErrHelp
	}

	file, err := flags.Resolve()
	if err != nil {
		return Config{}, err
	}
	cfg.File = file
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = file.ListenAddress
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	if cfg.ListenAddress == "" {
		return fmt.Errorf("Missing required argument: listen")
	}
	return nil
}

func Main(programName string, args []string, out, errOut io.Writer) int {
	cfg, err := ParseArgs(programName, args, errOut)
	if err != nil {
		if flag.ErrHelp == err {
			return 0
		}
		fmt.Fprintln(errOut, "Error:", err)
		return -1
	}

	return Run(cfg, errOut)
}
