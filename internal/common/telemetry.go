package common

import (
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Metrics struct {
	HttpRequestSeconds *prometheus.HistogramVec
	HttpBytesTotal     *prometheus.CounterVec
	HttpErrorsTotal    *prometheus.CounterVec

	RefreshSeconds *prometheus.HistogramVec
	EventsDerived  prometheus.Gauge
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HttpRequestSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edr_http_request_seconds",
				Help:    "Time from API GET to fully read response body",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		HttpBytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edr_http_bytes_total",
				Help: "Bytes downloaded per endpoint",
			},
			[]string{"endpoint"},
		),
		HttpErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edr_http_errors_total",
				Help: "Transport, status and decode errors per endpoint",
			},
			[]string{"endpoint"},
		),
		RefreshSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edr_refresh_seconds",
				Help:    "Duration of one data refresh cycle",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"step"},
		),
		EventsDerived: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "edr_events_derived",
				Help: "Dispatch events produced by the last dispatch refresh",
			},
		),
	}

	registry.MustRegister(
		metrics.HttpRequestSeconds,
		metrics.HttpBytesTotal,
		metrics.HttpErrorsTotal,
		metrics.RefreshSeconds,
		metrics.EventsDerived,
	)

	return metrics
}

type TelemetryServer struct {
	addr     string
	mux      *http.ServeMux
	registry *prometheus.Registry

	server   *http.Server
	listener net.Listener
}

func NewTelemetryServer(addr string) *TelemetryServer {
	telemetry := &TelemetryServer{
		addr:     addr,
		registry: prometheus.NewRegistry(),
		mux:      http.NewServeMux(),
	}

	telemetry.mux.Handle(
		"/metrics",
		promhttp.HandlerFor(telemetry.registry, promhttp.HandlerOpts{}),
	)

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "edr_build_info",
			Help: "Build metadata",
		},
		[]string{"version", "git_commit"},
	)

	telemetry.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		buildInfo,
	)

	buildInfo.WithLabelValues(Version, GitCommit).Set(1)

	telemetry.mux.HandleFunc("/debug/pprof/", pprof.Index)
	telemetry.mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	telemetry.mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	telemetry.mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	telemetry.mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return telemetry
}

func (telemetry *TelemetryServer) GetRegistry() *prometheus.Registry {
	return telemetry.registry
}

// Handler exposes the mux so tests and embedding servers can mount it.
func (telemetry *TelemetryServer) Handler() http.Handler {
	return telemetry.mux
}

func (telemetry *TelemetryServer) Start() error {
	telemetry.server = &http.Server{
		Addr:              telemetry.addr,
		Handler:           telemetry.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	listener, err := net.Listen("tcp", telemetry.addr)
	if err != nil {
		return err
	}

	telemetry.listener = listener

	go telemetry.server.Serve(telemetry.listener)

	zap.S().Infow("telemetry server started", "address", telemetry.addr)
	return nil
}

func (telemetry *TelemetryServer) Stop() error {
	if telemetry.server == nil {
		return nil
	}

	return telemetry.server.Close()
}

// StartTelemetry starts a telemetry server when addr is set and returns the
// metrics bound to it. With an empty addr the metrics are registered on a
// private registry and never exported.
func StartTelemetry(addr string) (*Metrics, func(), error) {
	if addr == "" {
		return NewMetrics(prometheus.NewRegistry()), func() {}, nil
	}
	telemetry := NewTelemetryServer(addr)
	metrics := NewMetrics(telemetry.GetRegistry())
	if err := telemetry.Start(); err != nil {
		return nil, nil, err
	}
	return metrics, func() { _ = telemetry.Stop() }, nil
}
