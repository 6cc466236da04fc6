package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultPanelUrl, cfg.PanelUrl)
	require.Equal(t, 5*time.Second, cfg.RefreshInterval())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromToml(t *testing.T) {
	path := writeFile(t, "edr.toml", `
panel_url = "http://localhost:9000"
refresh_seconds = 2.5
resolver = "prefix"
prefix_table = "prefixes.toml"

[[watch]]
server = "en1"
station = "Katowice"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9000", cfg.PanelUrl)
	require.Equal(t, DefaultTimetableUrl, cfg.TimetableUrl)
	require.Equal(t, 2500*time.Millisecond, cfg.RefreshInterval())
	require.Equal(t, []Watch{{Server: "en1", Station: "Katowice"}}, cfg.Watch)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "edr.toml", `refresh_secs = 3`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigFile)
	}{
		{"missing panel", func(cfg *ConfigFile) { cfg.PanelUrl = "" }},
		{"zero refresh", func(cfg *ConfigFile) { cfg.RefreshSeconds = 0 }},
		{"zero timeout", func(cfg *ConfigFile) { cfg.RequestTimeoutSeconds = 0 }},
		{"prefix without table", func(cfg *ConfigFile) { cfg.Resolver = "prefix" }},
		{"unknown resolver", func(cfg *ConfigFile) { cfg.Resolver = "fuzzy" }},
		{"negative cache ttl", func(cfg *ConfigFile) { cfg.TimetableCacheMinutes = -1 }},
		{"half a watch", func(cfg *ConfigFile) { cfg.Watch = []Watch{{Server: "en1"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestValidateZeroCacheTtl(t *testing.T) {
	cfg := Defaults()
	cfg.TimetableCacheMinutes = 0
	require.NoError(t, cfg.Validate())
}

func TestFlagsOverrideToml(t *testing.T) {
	path := writeFile(t, "edr.toml", `
refresh_seconds = 10
log_level = "debug"
`)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"-toml", path, "-refresh", "3", "-panel", "http://localhost:1"}))

	cfg, err := flags.Resolve()
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.RefreshInterval())
	require.Equal(t, "http://localhost:1", cfg.PanelUrl)
	require.Equal(t, "debug", cfg.LogLevel, "unset flags keep the file value")
	require.Empty(t, cfg.LogFile, "unset flags do not clobber defaults")
}

func TestFlagsValidate(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"-resolver", "prefix"}))

	_, err := flags.Resolve()
	require.Error(t, err)
}
