package edr_web

import (
	"context"
	"encoding/json"
	"time"

	"github.com/r3labs/sse/v2"
	"go.uber.org/zap"

	"tarediiran-industries.com/simrail-edr/internal/common"
	"tarediiran-industries.com/simrail-edr/internal/config"
	"tarediiran-industries.com/simrail-edr/internal/edr"
	"tarediiran-industries.com/simrail-edr/internal/state"
)

// StreamWatcher re-derives the events of the configured stations on every
// tick and publishes them to one SSE stream per station. Ticks run on a
// single goroutine, so refreshes never overlap.
type StreamWatcher struct {
	source  state.Source
	engine  *edr.Engine
	metrics *common.Metrics
	watches []config.Watch
	streams *sse.Server
	ticker  *time.Ticker
}

func NewStreamWatcher(source state.Source, engine *edr.Engine, metrics *common.Metrics, watches []config.Watch, streams *sse.Server, interval time.Duration) *StreamWatcher {
	for _, watch := range watches {
		streams.CreateStream(StreamID(watch.Server, watch.Station))
	}
	return &StreamWatcher{
		source:  source,
		engine:  engine,
		metrics: metrics,
		watches: watches,
		streams: streams,
		ticker:  time.NewTicker(interval),
	}
}

func (watcher *StreamWatcher) Close() {
	watcher.ticker.Stop()
	for _, watch := range watcher.watches {
		watcher.streams.RemoveStream(StreamID(watch.Server, watch.Station))
	}
}

// Tick publishes one message per watched station and returns how many were
// published. A failing station is logged and skipped until the next tick.
func (watcher *StreamWatcher) Tick(ctx context.Context) int {
	published := 0
	for _, watch := range watcher.watches {
		streamID := StreamID(watch.Server, watch.Station)
		st, err := state.Lookup(ctx, watcher.source, watcher.engine, watch.Server, watch.Station)
		if err != nil {
			zap.S().Warnw("stream refresh failed", "stream", streamID, "error", err)
			continue
		}
		data, err := json.Marshal(BuildEventsMessage(st))
		if err != nil {
			zap.S().Warnw("marshal events", "stream", streamID, "error", err)
			continue
		}
		if watcher.metrics != nil {
			watcher.metrics.EventsDerived.Set(float64(len(st.Events)))
		}
		if watcher.streams.TryPublish(streamID, &sse.Event{Data: data}) {
			published++
		}
	}
	return published
}

func (watcher *StreamWatcher) Watch(ctx context.Context) {
	if len(watcher.watches) == 0 {
		return
	}
	for {
		bench := common.NewBenchmarker("stream tick")
		watcher.Tick(ctx)
		bench.Close()

		select {
		case <-ctx.Done():
			return
		case <-watcher.ticker.C:
		}
	}
}
