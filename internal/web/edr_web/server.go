package edr_web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/r3labs/sse/v2"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"tarediiran-industries.com/simrail-edr/internal/common"
	"tarediiran-industries.com/simrail-edr/internal/edr"
	"tarediiran-industries.com/simrail-edr/internal/state"
)

type EdrWebServer struct {
	source   state.Source
	engine   *edr.Engine
	metrics  *common.Metrics
	server   *http.Server
	router   chi.Router
	renderer *Renderer
	streams  *sse.Server

	pollSeconds int
	now         func() time.Time
}

type ServerOptions struct {
	ListenAddress string
	PollSeconds   int
	Metrics       *common.Metrics
}

func NewEdrWebServer(source state.Source, engine *edr.Engine, opts ServerOptions) (*EdrWebServer, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	streams := sse.New()
	streams.AutoReplay = false

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logRequests)
	router.Use(middleware.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}).Handler)

	server := &EdrWebServer{
		source:   source,
		engine:   engine,
		metrics:  opts.Metrics,
		router:   router,
		renderer: renderer,
		streams:  streams,
		server: &http.Server{
			Addr:              opts.ListenAddress,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		pollSeconds: opts.PollSeconds,
		now:         time.Now,
	}

	router.Get("/", func(writer http.ResponseWriter, request *http.Request) {
		http.Redirect(writer, request, "/servers", http.StatusFound)
	})
	router.Get("/servers", server.handleServersPage)
	router.Get("/servers/{server}/stations", server.handleStationsPage)
	router.Route("/servers/{server}/stations/{station}", func(station chi.Router) {
		station.Get("/events", server.handleEventsPage)
		station.Get("/events/partial", server.handleEventsPartial)
		station.Get("/events.json", server.handleEventsJson)
		station.Get("/feed", server.handleFeed)
	})
	router.Get("/stream", streams.ServeHTTP)

	return server, nil
}

func (server *EdrWebServer) Handler() http.Handler {
	return server.router
}

func (server *EdrWebServer) Streams() *sse.Server {
	return server.streams
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
		next.ServeHTTP(wrapped, request)
		zap.S().Infow("request",
			"method", request.Method,
			"path", request.URL.Path,
			"status", wrapped.Status(),
			"bytes", wrapped.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(request.Context()),
		)
	})
}

func (server *EdrWebServer) startHosting() {
	err := server.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.S().Fatalw("server error", "error", err)
	}
}

func (server *EdrWebServer) Serve(ctx context.Context) {
	zap.S().Infow("listening", "address", server.server.Addr)

	go server.startHosting()
	<-ctx.Done()

	zap.S().Info("Shutting down.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.streams.Close()
	server.server.Shutdown(shutdownCtx)
}
