package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPanelUrl     = "https://panel.simrail.eu:8084"
	DefaultTimetableUrl = "https://simrail-edr.emeraldnetwork.xyz"
)

type Watch struct {
	Server  string `toml:"server"`
	Station string `toml:"station"`
}

// ConfigFile is the TOML document shared by every binary. Zero values mean
// "use the default".
type ConfigFile struct {
	PanelUrl              string  `toml:"panel_url"`
	TimetableUrl          string  `toml:"timetable_url"`
	RefreshSeconds        float64 `toml:"refresh_seconds"`
	RequestTimeoutSeconds float64 `toml:"request_timeout_seconds"`

	Resolver    string `toml:"resolver"`
	PrefixTable string `toml:"prefix_table"`

	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`

	TelemetryAddress string `toml:"telemetry_address"`
	ListenAddress    string `toml:"listen_address"`

	TimetableCacheSize    int     `toml:"timetable_cache_size"`
	TimetableCacheMinutes float64 `toml:"timetable_cache_minutes"`

	Watch []Watch `toml:"watch"`
}

func Defaults() ConfigFile {
	return ConfigFile{
		PanelUrl:              DefaultPanelUrl,
		TimetableUrl:          DefaultTimetableUrl,
		RefreshSeconds:        5,
		RequestTimeoutSeconds: 10,
		Resolver:              "name",
		LogLevel:              "info",
		ListenAddress:         ":8080",
		TimetableCacheSize:    512,
		TimetableCacheMinutes: 30,
	}
}

func LoadConfigFromToml(path string) (ConfigFile, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return ConfigFile{}, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return ConfigFile{}, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	return cfg, nil
}

// Load returns the defaults when path is empty.
func Load(path string) (ConfigFile, error) {
	if path == "" {
		return Defaults(), nil
	}
	cfg, err := LoadConfigFromToml(path)
	if err != nil {
		return ConfigFile{}, fmt.Errorf("LoadConfigFromToml: %w", err)
	}
	return cfg, nil
}

func (cfg ConfigFile) RefreshInterval() time.Duration {
	return time.Duration(cfg.RefreshSeconds * float64(time.Second))
}

func (cfg ConfigFile) RequestTimeout() time.Duration {
	return time.Duration(cfg.RequestTimeoutSeconds * float64(time.Second))
}

func (cfg ConfigFile) TimetableCacheTTL() time.Duration {
	return time.Duration(cfg.TimetableCacheMinutes * float64(time.Minute))
}

func (cfg ConfigFile) Validate() error {
	if cfg.PanelUrl == "" || cfg.TimetableUrl == "" {
		return fmt.Errorf("Both panel_url and timetable_url are required")
	}
	if cfg.RefreshSeconds <= 0 {
		return fmt.Errorf("refresh_seconds must be positive")
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}
	switch cfg.Resolver {
	case "name":
	case "prefix":
		if cfg.PrefixTable == "" {
			return fmt.Errorf("resolver = \"prefix\" needs prefix_table")
		}
	default:
		return fmt.Errorf("Unknown resolver %q (want name or prefix)", cfg.Resolver)
	}
	if cfg.TimetableCacheSize < 0 {
		return fmt.Errorf("timetable_cache_size must not be negative")
	}
	if cfg.TimetableCacheMinutes < 0 {
		return fmt.Errorf("timetable_cache_minutes must not be negative")
	}
	for i, watch := range cfg.Watch {
		if watch.Server == "" || watch.Station == "" {
			return fmt.Errorf("watch[%d] needs both server and station", i)
		}
	}
	return nil
}
