package edr_web

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"

	"tarediiran-industries.com/simrail-edr/internal/common"
	"tarediiran-industries.com/simrail-edr/internal/edr"
	"tarediiran-industries.com/simrail-edr/internal/prefixes"
	"tarediiran-industries.com/simrail-edr/internal/simrail"
)

func Run(cfg Config, errOut io.Writer) int {
	closeLog, err := common.SetupLogging(cfg.File.LogFile, cfg.File.LogLevel)
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, stopTelemetry, err := common.StartTelemetry(cfg.File.TelemetryAddress)
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
	defer stopTelemetry()

	resolver, err := prefixes.FromConfig(cfg.File.Resolver, cfg.File.PrefixTable)
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
	source := simrail.FromConfig(cfg.File, metrics)
	engine := edr.NewEngine(resolver)

	server, err := NewEdrWebServer(source, engine, ServerOptions{
		ListenAddress: cfg.ListenAddress,
		PollSeconds:   int(math.Ceil(cfg.File.RefreshSeconds)),
		Metrics:       metrics,
	})
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}

	watcher := NewStreamWatcher(source, engine, metrics, cfg.File.Watch, server.Streams(), cfg.File.RefreshInterval())
	defer watcher.Close()
	go watcher.Watch(ctx)

	server.Serve(ctx)
	return 0
}
