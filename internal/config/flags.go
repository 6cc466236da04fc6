package config

import (
	"flag"
	"fmt"
)

// Flags binds the options shared by every binary. Values given on the
// command line override the TOML file.
type Flags struct {
	Version        bool
	TomlConfigPath string

	fs        *flag.FlagSet
	overrides ConfigFile
}

func BindFlags(fs *flag.FlagSet) *Flags {
	flags := &Flags{fs: fs}
	defaults := Defaults()

	fs.BoolVar(&flags.Version, "version", false, "Prints CLI version")
	fs.StringVar(&flags.TomlConfigPath, "toml", "", "Configuration file")
	fs.StringVar(&flags.overrides.PanelUrl, "panel", defaults.PanelUrl, "SimRail panel base URL")
	fs.StringVar(&flags.overrides.TimetableUrl, "timetables", defaults.TimetableUrl, "Timetable service base URL")
	fs.Float64Var(&flags.overrides.RefreshSeconds, "refresh", defaults.RefreshSeconds, "Refresh interval in seconds")
	fs.StringVar(&flags.overrides.Resolver, "resolver", defaults.Resolver, "Station matching: name or prefix")
	fs.StringVar(&flags.overrides.PrefixTable, "prefixes", "", "Station prefix table (.toml or .csv)")
	fs.StringVar(&flags.overrides.LogFile, "log", "", "Log file, - to disable")
	fs.StringVar(&flags.overrides.LogLevel, "log-level", defaults.LogLevel, "Log level")
	fs.StringVar(&flags.overrides.TelemetryAddress, "telemetry", "", "Prometheus/pprof listen address")
	return flags
}

// Resolve loads the TOML file, if any, and applies the flags that were set
// explicitly. Call it after fs.Parse.
func (flags *Flags) Resolve() (ConfigFile, error) {
	cfg, err := Load(flags.TomlConfigPath)
	if err != nil {
		return ConfigFile{}, err
	}

	flags.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "panel":
			cfg.PanelUrl = flags.overrides.PanelUrl
		case "timetables":
			cfg.TimetableUrl = flags.overrides.TimetableUrl
		case "refresh":
			cfg.RefreshSeconds = flags.overrides.RefreshSeconds
		case "resolver":
			cfg.Resolver = flags.overrides.Resolver
		case "prefixes":
			cfg.PrefixTable = flags.overrides.PrefixTable
		case "log":
			cfg.LogFile = flags.overrides.LogFile
		case "log-level":
			cfg.LogLevel = flags.overrides.LogLevel
		case "telemetry":
			cfg.TelemetryAddress = flags.overrides.TelemetryAddress
		}
	})

	if err := cfg.Validate(); err != nil {
		return ConfigFile{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
