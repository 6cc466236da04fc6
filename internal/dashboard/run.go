package dashboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	ui "github.com/gizak/termui/v3"
	"go.uber.org/zap"

	"tarediiran-industries.com/simrail-edr/internal/common"
	"tarediiran-industries.com/simrail-edr/internal/edr"
	"tarediiran-industries.com/simrail-edr/internal/prefixes"
	"tarediiran-industries.com/simrail-edr/internal/simrail"
	"tarediiran-industries.com/simrail-edr/internal/state"
)

type navigator interface {
	Select() state.Flags
	Back() state.Flags
	Cursor(delta int) state.Flags
}

// model is the navigation state the driving loop refreshes.
type model interface {
	navigator
	Refresh(ctx context.Context) error
}

// handleKey maps a termui event id to a transition. quit is set for the
// keys that leave the dashboard.
func handleKey(nav navigator, id string) (flags state.Flags, quit bool) {
	switch id {
	case "q", "<C-c>":
		return state.Flags{}, true
	case "<Enter>":
		return nav.Select(), false
	case "<Escape>", "<Backspace>":
		return nav.Back(), false
	case "<Up>", "k":
		return nav.Cursor(-1), false
	case "<Down>", "j":
		return nav.Cursor(1), false
	case "<Resize>":
		return state.Flags{Redraw: true}, false
	}
	return state.Flags{}, false
}

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
	st, err := state.New(ctx, source, edr.NewEngine(resolver))
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
	st.Metrics = metrics

	if err := ui.Init(); err != nil {
		fmt.Fprintln(errOut, "Error: terminal:", err)
		return 1
	}
	screen := newView()
	draw := func() { screen.draw(st) }
	err = loop(ctx, st, draw, ui.PollEvents(), cfg.File.RefreshInterval())
	// restore the terminal before anything is printed
	ui.Close()
	if err != nil {
		zap.S().Errorw("refresh failed", "error", err)
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
	return 0
}

// loop drives refresh and redraw from a single goroutine, so refreshes never
// overlap. Any refresh error ends the loop.
func loop(ctx context.Context, st model, draw func(), events <-chan ui.Event, interval time.Duration) error {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	draw()
	for {
		var flags state.Flags
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			flags.Refresh = true
		case e := <-events:
			var quit bool
			flags, quit = handleKey(st, e.ID)
			if quit {
				return nil
			}
		}

		if flags.Refresh {
			if err := st.Refresh(ctx); err != nil {
				return err
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(interval)
			flags.Redraw = true
		}
		if flags.Redraw {
			draw()
		}
	}
}
